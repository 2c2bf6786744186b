// Package engine implements the adaptive questionnaire core: demographic
// eligibility, answer-driven branching, weighted scoring and result
// classification. Everything here is pure so the decision rules can be
// tested without Mongo or Redis.
package engine

import (
	"strings"

	"mindgauge/internal/model"
)

// BatchSize caps how many questions one next-batch may hold
const BatchSize = 3

// ProfessionOther disables profession targeting for a respondent
const ProfessionOther = "other"

// DemographicConfig names the three bootstrap questions whose answers feed
// the respondent profile. Injected from config, never read from globals.
type DemographicConfig struct {
	AgeQuestionID        string
	GenderQuestionID     string
	ProfessionQuestionID string
}

// DemographicFilter selects eligible, unanswered questions for a respondent
type DemographicFilter struct {
	cfg DemographicConfig
}

func NewDemographicFilter(cfg DemographicConfig) *DemographicFilter {
	return &DemographicFilter{cfg: cfg}
}

// Extract builds the respondent profile from the ledger, reading the answers
// recorded for the configured demographic question ids.
func (f *DemographicFilter) Extract(responses []model.Response) model.Demographics {
	var d model.Demographics
	for _, r := range responses {
		switch r.QuestionID {
		case f.cfg.AgeQuestionID:
			if n, ok := r.Answer.Numeric(); ok {
				age := int(n)
				d.Age = &age
			}
		case f.cfg.GenderQuestionID:
			d.Gender = strings.ToLower(strings.TrimSpace(r.Answer.String()))
		case f.cfg.ProfessionQuestionID:
			d.Profession = strings.ToLower(strings.TrimSpace(r.Answer.String()))
		}
	}
	return d
}

// Admissible reports whether q is appropriate for the respondent profile.
// Unknown demographics leave the corresponding constraint unapplied, and an
// empty targeting list means the question applies to everyone.
func (f *DemographicFilter) Admissible(q *model.Question, d model.Demographics) bool {
	if d.Age != nil && !q.AgeRange.Contains(*d.Age) {
		return false
	}
	if d.Gender != "" && len(q.ForGender) > 0 && !containsFold(q.ForGender, d.Gender) {
		return false
	}
	// "other" opts the respondent out of profession targeting
	if d.Profession != "" && d.Profession != ProfessionOther &&
		len(q.ForProfessions) > 0 && !containsFold(q.ForProfessions, d.Profession) {
		return false
	}
	return true
}

// SelectNext picks up to BatchSize admissible candidates whose ids are not in
// excluded, preserving candidate order. An empty result means the bank has no
// more content for this respondent.
func (f *DemographicFilter) SelectNext(candidates []*model.Question, excluded map[string]bool, d model.Demographics) []*model.Question {
	batch := make([]*model.Question, 0, BatchSize)
	for _, q := range candidates {
		if excluded[q.ID] {
			continue
		}
		if !f.Admissible(q, d) {
			continue
		}
		batch = append(batch, q)
		if len(batch) == BatchSize {
			break
		}
	}
	return batch
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
