package engine

import (
	"math"

	"mindgauge/internal/model"
)

// Severity tiers derived from the rounded primary score
type tier int

const (
	tierMild     tier = iota // severity <= 3
	tierModerate             // severity 4-6
	tierSevere               // severity >= 7
)

func tierOf(severity int) tier {
	switch {
	case severity <= 3:
		return tierMild
	case severity <= 6:
		return tierModerate
	default:
		return tierSevere
	}
}

// Classify picks the primary condition and assembles the graded result.
// The primary condition is the strictly greatest score; ties resolve to the
// first condition in model.Conditions() order. A severity of 0 means no
// measurable signal and still produces a mild-tier result.
func Classify(scores map[model.Condition]float64, d model.Demographics) model.Result {
	primary := model.Conditions()[0]
	best := scores[primary]
	for _, cond := range model.Conditions()[1:] {
		if scores[cond] > best {
			primary = cond
			best = scores[cond]
		}
	}

	severity := int(math.Round(best))
	t := tierOf(severity)

	return model.Result{
		Condition:       primary,
		Description:     descriptions[primary][t],
		SeverityLevel:   severity,
		Recommendations: recommend(primary, severity, d),
	}
}

// recommend assembles the recommendation list from the four static pools.
// Composition by severity:
//
//	>= 7: urgent lines, 3 condition, 2 general, 1 age, 1 profession
//	4-6:  3 condition, 3 general, 1 age, 1 profession
//	< 4:  2 condition, 3 general, 1 age, 1 profession
//
// Short pools yield fewer items, never an error.
func recommend(primary model.Condition, severity int, d model.Demographics) []string {
	var recs []string

	condPool := conditionRecommendations[primary]
	switch {
	case severity >= 7:
		recs = append(recs, urgentRecommendations...)
		recs = append(recs, takeTop(condPool, 3)...)
		recs = append(recs, takeTop(generalRecommendations, 2)...)
	case severity >= 4:
		recs = append(recs, takeTop(condPool, 3)...)
		recs = append(recs, takeTop(generalRecommendations, 3)...)
	default:
		recs = append(recs, takeTop(condPool, 2)...)
		recs = append(recs, takeTop(generalRecommendations, 3)...)
	}

	recs = append(recs, takeTop(ageRecommendations(d.Age), 1)...)
	recs = append(recs, takeTop(professionRecommendations[d.Profession], 1)...)
	return recs
}

func ageRecommendations(age *int) []string {
	switch {
	case age == nil:
		return nil
	case *age < 18:
		return minorRecommendations
	case *age >= 65:
		return seniorRecommendations
	default:
		return nil
	}
}

func takeTop(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}
