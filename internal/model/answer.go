package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AnswerKind tags the concrete shape of an answer value
type AnswerKind string

const (
	AnswerNumber      AnswerKind = "number"
	AnswerText        AnswerKind = "text"
	AnswerMultiSelect AnswerKind = "multi"
)

// AnswerValue is the tagged answer variant. The kind is resolved from the
// question's declared type at validation time, never from the payload shape.
type AnswerValue struct {
	Kind   AnswerKind `json:"kind" bson:"kind"`
	Number float64    `json:"number,omitempty" bson:"number,omitempty"`
	Text   string     `json:"text,omitempty" bson:"text,omitempty"`
	Values []string   `json:"values,omitempty" bson:"values,omitempty"`
}

// ParseAnswer decodes and validates a raw JSON answer against the question's
// declared type. Scale answers are range-checked; choice answers are not
// required to match an authored option (unknown values simply score zero).
func ParseAnswer(q *Question, raw json.RawMessage) (AnswerValue, error) {
	switch q.Type {
	case QuestionTypeNumber:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return AnswerValue{}, fmt.Errorf("%s question expects a number", q.Type)
		}
		return AnswerValue{Kind: AnswerNumber, Number: n}, nil

	case QuestionTypeScale:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return AnswerValue{}, fmt.Errorf("%s question expects a number", q.Type)
		}
		if n < float64(q.MinValue) || n > float64(q.MaxValue) {
			return AnswerValue{}, fmt.Errorf("scale answer %v outside [%d, %d]", n, q.MinValue, q.MaxValue)
		}
		return AnswerValue{Kind: AnswerNumber, Number: n}, nil

	case QuestionTypeText, QuestionTypeSelect, QuestionTypeRadio:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return AnswerValue{}, fmt.Errorf("%s question expects a string", q.Type)
		}
		if q.Required && s == "" {
			return AnswerValue{}, fmt.Errorf("answer is required")
		}
		return AnswerValue{Kind: AnswerText, Text: s}, nil

	case QuestionTypeCheckbox:
		var vs []string
		if err := json.Unmarshal(raw, &vs); err != nil {
			return AnswerValue{}, fmt.Errorf("%s question expects a string list", q.Type)
		}
		if q.Required && len(vs) == 0 {
			return AnswerValue{}, fmt.Errorf("answer is required")
		}
		return AnswerValue{Kind: AnswerMultiSelect, Values: vs}, nil

	default:
		return AnswerValue{}, fmt.Errorf("unknown question type %q", q.Type)
	}
}

// String returns the canonical text form used for equality checks
func (a AnswerValue) String() string {
	switch a.Kind {
	case AnswerNumber:
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	case AnswerMultiSelect:
		return strings.Join(a.Values, ",")
	default:
		return a.Text
	}
}

// Numeric returns the answer as a float, parsing text answers if needed
func (a AnswerValue) Numeric() (float64, bool) {
	switch a.Kind {
	case AnswerNumber:
		return a.Number, true
	case AnswerText:
		n, err := strconv.ParseFloat(strings.TrimSpace(a.Text), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Contains reports whether a multi-select answer includes value
func (a AnswerValue) Contains(value string) bool {
	if a.Kind != AnswerMultiSelect {
		return false
	}
	for _, v := range a.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Response is one entry of an assessment's ledger. The question is embedded
// as a snapshot so later edits to the bank cannot change recorded history.
type Response struct {
	QuestionID string      `json:"questionId" bson:"questionId"`
	Question   Question    `json:"question" bson:"question"`
	Answer     AnswerValue `json:"answer" bson:"answer"`
	AnsweredAt time.Time   `json:"answeredAt" bson:"answeredAt"`
}
