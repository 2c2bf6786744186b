package engine

import "mindgauge/internal/model"

// conditionMax is the fixed maximum raw score per condition, used to
// normalize raw accumulators onto the 0-10 scale.
var conditionMax = map[model.Condition]float64{
	model.ConditionAnxiety:    50,
	model.ConditionDepression: 50,
	model.ConditionStress:     50,
	model.ConditionBurnout:    50,
	model.ConditionInsomnia:   30,
}

// Score aggregates the full ledger into a normalized per-condition score in
// [0, 10]. Demographic responses and questions without a condition mapping
// contribute nothing.
func Score(responses []model.Response) map[model.Condition]float64 {
	raw := make(map[model.Condition]float64, len(conditionMax))
	for _, cond := range model.Conditions() {
		raw[cond] = 0
	}

	for _, resp := range responses {
		q := resp.Question
		if q.Category == model.CategoryDemographic || len(q.ConditionMapping) == 0 {
			continue
		}
		for cond, weight := range q.ConditionMapping {
			if _, known := raw[cond]; !known {
				continue
			}
			raw[cond] += responseScore(&q, resp.Answer, weight)
		}
	}

	scores := make(map[model.Condition]float64, len(raw))
	for cond, sum := range raw {
		normalized := sum / conditionMax[cond] * 10
		if normalized > 10 {
			normalized = 10
		}
		scores[cond] = normalized
	}
	return scores
}

// responseScore computes one response's raw contribution for a single weight.
// Choice questions score by the chosen option's 1-based position; an answer
// that matches no option scores zero.
func responseScore(q *model.Question, answer model.AnswerValue, weight float64) float64 {
	switch q.Type {
	case model.QuestionTypeScale:
		n, ok := answer.Numeric()
		if !ok {
			return 0
		}
		return n * weight
	case model.QuestionTypeRadio, model.QuestionTypeSelect:
		for i, opt := range q.Options {
			if opt.Value == answer.Text {
				return float64(i+1) * weight
			}
		}
		return 0
	case model.QuestionTypeCheckbox:
		return float64(len(answer.Values)) * weight
	default:
		// Flat contribution for text and number questions
		return weight
	}
}
