package engine

import (
	"context"

	"mindgauge/internal/model"
)

// QuestionSource fetches a question by id; a nil question means not found
type QuestionSource interface {
	GetByID(ctx context.Context, id string) (*model.Question, error)
}

// BranchResolver decides the single next question after an answer by
// evaluating the answered question's ordered rules, then its default target.
// The resolved candidate must still pass the demographic admissibility check;
// both the preview and the submit path go through Resolve, so admissibility
// is applied uniformly.
type BranchResolver struct {
	questions QuestionSource
	filter    *DemographicFilter
}

func NewBranchResolver(questions QuestionSource, filter *DemographicFilter) *BranchResolver {
	return &BranchResolver{questions: questions, filter: filter}
}

// Resolve returns the branch target for (last, answer), or nil when no rule
// or default yields an admissible, unanswered question. A nil result tells
// the caller to fall back to the demographic filter batch.
func (r *BranchResolver) Resolve(ctx context.Context, last *model.Question, answer model.AnswerValue, d model.Demographics, excluded map[string]bool) (*model.Question, error) {
	candidateID := ""
	for _, rule := range last.NextQuestionRules {
		if !ruleMatches(rule, answer) {
			continue
		}
		// First match wins. A matching rule without a target falls
		// through to the default rather than to later rules.
		candidateID = rule.NextQuestionID
		break
	}
	if candidateID == "" {
		candidateID = last.DefaultNextQuestionID
	}
	if candidateID == "" || excluded[candidateID] {
		return nil, nil
	}

	q, err := r.questions.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if q == nil || !r.filter.Admissible(q, d) {
		return nil, nil
	}
	return q, nil
}

func ruleMatches(rule model.Rule, answer model.AnswerValue) bool {
	switch rule.Condition {
	case model.RuleEquals:
		return answer.String() == rule.Value.Scalar
	case model.RuleContains:
		return answer.Contains(rule.Value.Member)
	case model.RuleGreaterThan:
		n, ok := answer.Numeric()
		return ok && n > rule.Value.Number
	case model.RuleLessThan:
		n, ok := answer.Numeric()
		return ok && n < rule.Value.Number
	case model.RuleBetween:
		n, ok := answer.Numeric()
		return ok && n >= rule.Value.Min && n <= rule.Value.Max
	case model.RuleAny:
		return true
	default:
		return false
	}
}
