package model

import (
	"errors"
	"fmt"
)

// QuestionType defines the shape of the expected answer
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"     // Free text
	QuestionTypeNumber   QuestionType = "number"   // Plain numeric input
	QuestionTypeSelect   QuestionType = "select"   // Dropdown, single choice
	QuestionTypeRadio    QuestionType = "radio"    // Radio group, single choice
	QuestionTypeCheckbox QuestionType = "checkbox" // Multiple selections
	QuestionTypeScale    QuestionType = "scale"    // Bounded rating slider
)

// Category groups questions by assessment area
type Category string

const (
	CategoryDemographic  Category = "demographic"
	CategoryGeneral      Category = "general"
	CategoryProfessional Category = "professional"
	CategoryEmotional    Category = "emotional"
	CategoryBehavioral   Category = "behavioral"
	CategoryPhysical     Category = "physical"
	CategorySocial       Category = "social"
	CategoryCognitive    Category = "cognitive"
)

// Condition is one of the scored mental-health categories
type Condition string

const (
	ConditionAnxiety    Condition = "anxiety"
	ConditionDepression Condition = "depression"
	ConditionStress     Condition = "stress"
	ConditionBurnout    Condition = "burnout"
	ConditionInsomnia   Condition = "insomnia"
)

// Conditions returns the scored conditions in their fixed enumeration order.
// Result classification breaks score ties by this order.
func Conditions() []Condition {
	return []Condition{
		ConditionAnxiety,
		ConditionDepression,
		ConditionStress,
		ConditionBurnout,
		ConditionInsomnia,
	}
}

// Option is a selectable choice. Order matters: choice scoring uses the
// 1-based position of the chosen value.
type Option struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// AgeRange is an inclusive eligibility window
type AgeRange struct {
	Min int `json:"min" bson:"min"`
	Max int `json:"max" bson:"max"`
}

// Contains reports whether age falls inside the window
func (r AgeRange) Contains(age int) bool {
	return age >= r.Min && age <= r.Max
}

// RuleCondition defines how a branching rule matches an answer
type RuleCondition string

const (
	RuleEquals      RuleCondition = "equals"
	RuleContains    RuleCondition = "contains"
	RuleGreaterThan RuleCondition = "greaterThan"
	RuleLessThan    RuleCondition = "lessThan"
	RuleBetween     RuleCondition = "between"
	RuleAny         RuleCondition = "any"
)

// RuleValue is the comparison operand, one field per rule kind:
// Scalar for equals, Member for contains, Number for greaterThan/lessThan,
// Min/Max for between. An any rule carries no value.
type RuleValue struct {
	Scalar string  `json:"scalar,omitempty" bson:"scalar,omitempty"`
	Member string  `json:"member,omitempty" bson:"member,omitempty"`
	Number float64 `json:"number,omitempty" bson:"number,omitempty"`
	Min    float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max    float64 `json:"max,omitempty" bson:"max,omitempty"`
}

// Rule is a conditional branch to a candidate next question.
// Rules are evaluated in list order; the first match wins.
type Rule struct {
	Condition      RuleCondition `json:"condition" bson:"condition"`
	Value          RuleValue     `json:"value" bson:"value"`
	NextQuestionID string        `json:"nextQuestionId,omitempty" bson:"nextQuestionId,omitempty"`
}

// Question is a single item in the question bank
type Question struct {
	ID       string       `json:"id" bson:"_id,omitempty"`
	Text     string       `json:"text" bson:"text"`
	Type     QuestionType `json:"type" bson:"type"`
	Required bool         `json:"required" bson:"required"`
	Options  []Option     `json:"options,omitempty" bson:"options,omitempty"`

	// Scale bounds and end labels
	MinValue int    `json:"minValue,omitempty" bson:"minValue,omitempty"`
	MaxValue int    `json:"maxValue,omitempty" bson:"maxValue,omitempty"`
	MinLabel string `json:"minLabel,omitempty" bson:"minLabel,omitempty"`
	MaxLabel string `json:"maxLabel,omitempty" bson:"maxLabel,omitempty"`

	Category Category `json:"category" bson:"category"`

	// Demographic targeting. Empty ForGender/ForProfessions means the
	// question applies to everyone.
	AgeRange       AgeRange `json:"ageRange" bson:"ageRange"`
	ForGender      []string `json:"forGender,omitempty" bson:"forGender,omitempty"`
	ForProfessions []string `json:"forProfessions,omitempty" bson:"forProfessions,omitempty"`

	NextQuestionRules     []Rule `json:"nextQuestionRules,omitempty" bson:"nextQuestionRules,omitempty"`
	DefaultNextQuestionID string `json:"defaultNextQuestionId,omitempty" bson:"defaultNextQuestionId,omitempty"`

	IsInitial bool `json:"isInitial" bson:"isInitial"`
	IsFinal   bool `json:"isFinal" bson:"isFinal"`

	// ConditionMapping assigns per-condition scoring weights.
	// Ignored on demographic questions even when present.
	ConditionMapping map[Condition]float64 `json:"conditionMapping,omitempty" bson:"conditionMapping,omitempty"`
}

// DefaultAgeRange applies when no eligibility window was authored
var DefaultAgeRange = AgeRange{Min: 0, Max: 120}

var validTypes = map[QuestionType]bool{
	QuestionTypeText:     true,
	QuestionTypeNumber:   true,
	QuestionTypeSelect:   true,
	QuestionTypeRadio:    true,
	QuestionTypeCheckbox: true,
	QuestionTypeScale:    true,
}

var validCategories = map[Category]bool{
	CategoryDemographic:  true,
	CategoryGeneral:      true,
	CategoryProfessional: true,
	CategoryEmotional:    true,
	CategoryBehavioral:   true,
	CategoryPhysical:     true,
	CategorySocial:       true,
	CategoryCognitive:    true,
}

var validConditions = map[Condition]bool{
	ConditionAnxiety:    true,
	ConditionDepression: true,
	ConditionStress:     true,
	ConditionBurnout:    true,
	ConditionInsomnia:   true,
}

// Normalize fills in authoring defaults
func (q *Question) Normalize() {
	if q.AgeRange == (AgeRange{}) {
		q.AgeRange = DefaultAgeRange
	}
}

// Validate checks authoring invariants before a question is persisted
func (q *Question) Validate() error {
	if q.Text == "" {
		return errors.New("question text is required")
	}
	if !validTypes[q.Type] {
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if !validCategories[q.Category] {
		return fmt.Errorf("unknown category %q", q.Category)
	}
	switch q.Type {
	case QuestionTypeSelect, QuestionTypeRadio, QuestionTypeCheckbox:
		if len(q.Options) == 0 {
			return fmt.Errorf("%s question requires options", q.Type)
		}
	case QuestionTypeScale:
		if q.MinValue >= q.MaxValue {
			return fmt.Errorf("scale bounds invalid: min %d, max %d", q.MinValue, q.MaxValue)
		}
	}
	if q.AgeRange.Min > q.AgeRange.Max {
		return fmt.Errorf("age range invalid: min %d, max %d", q.AgeRange.Min, q.AgeRange.Max)
	}
	for cond, weight := range q.ConditionMapping {
		if !validConditions[cond] {
			return fmt.Errorf("unknown condition %q in mapping", cond)
		}
		if weight < 0 {
			return fmt.Errorf("condition %q has negative weight", cond)
		}
	}
	return q.validateRules()
}

// validateRules rejects malformed rule operands and an any rule placed
// anywhere but last, where it would shadow every rule after it.
func (q *Question) validateRules() error {
	for i, r := range q.NextQuestionRules {
		switch r.Condition {
		case RuleEquals:
			if r.Value.Scalar == "" {
				return fmt.Errorf("rule %d: equals requires a scalar value", i)
			}
		case RuleContains:
			if r.Value.Member == "" {
				return fmt.Errorf("rule %d: contains requires a member value", i)
			}
		case RuleGreaterThan, RuleLessThan:
			// zero is a legal threshold
		case RuleBetween:
			if r.Value.Min > r.Value.Max {
				return fmt.Errorf("rule %d: between range invalid [%v, %v]", i, r.Value.Min, r.Value.Max)
			}
		case RuleAny:
			if i != len(q.NextQuestionRules)-1 {
				return fmt.Errorf("rule %d: any rule must be last, it shadows later rules", i)
			}
		default:
			return fmt.Errorf("rule %d: unknown condition %q", i, r.Condition)
		}
	}
	return nil
}
