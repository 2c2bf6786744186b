package model

import "time"

type AssessmentStatus string

const (
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
	AssessmentAbandoned  AssessmentStatus = "abandoned"
)

// Result is the immutable outcome attached to a completed assessment
type Result struct {
	Condition       Condition `json:"condition" bson:"condition"`
	Description     string    `json:"description" bson:"description"`
	SeverityLevel   int       `json:"severityLevel" bson:"severityLevel"`
	Recommendations []string  `json:"recommendations" bson:"recommendations"`
}

// Assessment is one self-assessment session: an append-only response ledger
// plus lifecycle state. Version guards concurrent ledger appends.
type Assessment struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	UserID      string           `json:"userId" bson:"userId"`
	Status      AssessmentStatus `json:"status" bson:"status"`
	Responses   []Response       `json:"responses" bson:"responses"`
	Version     int              `json:"-" bson:"version"`
	StartedAt   time.Time        `json:"startedAt" bson:"startedAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Result      *Result          `json:"result,omitempty" bson:"result,omitempty"`
}

// AnsweredIDs returns the ids already present in the ledger, in order
func (a *Assessment) AnsweredIDs() []string {
	ids := make([]string, len(a.Responses))
	for i, r := range a.Responses {
		ids[i] = r.QuestionID
	}
	return ids
}

// HasAnswered reports whether questionID is already in the ledger
func (a *Assessment) HasAnswered(questionID string) bool {
	for _, r := range a.Responses {
		if r.QuestionID == questionID {
			return true
		}
	}
	return false
}

// LastResponse returns the most recent ledger entry, or nil when empty
func (a *Assessment) LastResponse() *Response {
	if len(a.Responses) == 0 {
		return nil
	}
	return &a.Responses[len(a.Responses)-1]
}

// Demographics is the profile extracted from answered demographic questions.
// Age is nil until the age question has been answered.
type Demographics struct {
	Age        *int
	Gender     string
	Profession string
}
