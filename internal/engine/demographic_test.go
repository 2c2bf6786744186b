package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgauge/internal/model"
)

var testCfg = DemographicConfig{
	AgeQuestionID:        "demo-age",
	GenderQuestionID:     "demo-gender",
	ProfessionQuestionID: "demo-profession",
}

func TestExtract_ReadsConfiguredQuestions(t *testing.T) {
	filter := NewDemographicFilter(testCfg)

	responses := []model.Response{
		{QuestionID: "demo-age", Answer: model.AnswerValue{Kind: model.AnswerNumber, Number: 34}},
		{QuestionID: "demo-gender", Answer: model.AnswerValue{Kind: model.AnswerText, Text: "Female"}},
		{QuestionID: "demo-profession", Answer: model.AnswerValue{Kind: model.AnswerText, Text: "Healthcare"}},
		{QuestionID: "q-other", Answer: model.AnswerValue{Kind: model.AnswerText, Text: "noise"}, AnsweredAt: time.Now()},
	}

	d := filter.Extract(responses)
	require.NotNil(t, d.Age)
	assert.Equal(t, 34, *d.Age)
	assert.Equal(t, "female", d.Gender)
	assert.Equal(t, "healthcare", d.Profession)
}

func TestExtract_EmptyLedger(t *testing.T) {
	d := NewDemographicFilter(testCfg).Extract(nil)
	assert.Nil(t, d.Age)
	assert.Empty(t, d.Gender)
	assert.Empty(t, d.Profession)
}

func TestAdmissible(t *testing.T) {
	filter := NewDemographicFilter(testCfg)
	age30 := 30
	age10 := 10

	cases := []struct {
		name string
		q    model.Question
		d    model.Demographics
		want bool
	}{
		{
			"universal question",
			model.Question{AgeRange: model.DefaultAgeRange},
			model.Demographics{Age: &age30, Gender: "male", Profession: "technology"},
			true,
		},
		{
			"age outside range",
			model.Question{AgeRange: model.AgeRange{Min: 18, Max: 65}},
			model.Demographics{Age: &age10},
			false,
		},
		{
			"age unknown skips age check",
			model.Question{AgeRange: model.AgeRange{Min: 18, Max: 65}},
			model.Demographics{},
			true,
		},
		{
			"gender targeted, mismatch",
			model.Question{AgeRange: model.DefaultAgeRange, ForGender: []string{"female"}},
			model.Demographics{Gender: "male"},
			false,
		},
		{
			"gender targeted, match case-insensitive",
			model.Question{AgeRange: model.DefaultAgeRange, ForGender: []string{"Female"}},
			model.Demographics{Gender: "female"},
			true,
		},
		{
			"empty profession list applies to everyone",
			model.Question{AgeRange: model.DefaultAgeRange, ForProfessions: []string{}},
			model.Demographics{Profession: "technology"},
			true,
		},
		{
			"profession targeted, mismatch",
			model.Question{AgeRange: model.DefaultAgeRange, ForProfessions: []string{"student"}},
			model.Demographics{Profession: "technology"},
			false,
		},
		{
			"profession other skips constraint",
			model.Question{AgeRange: model.DefaultAgeRange, ForProfessions: []string{"student"}},
			model.Demographics{Profession: "other"},
			true,
		},
		{
			"profession unknown skips constraint",
			model.Question{AgeRange: model.DefaultAgeRange, ForProfessions: []string{"student"}},
			model.Demographics{},
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, filter.Admissible(&tc.q, tc.d))
		})
	}
}

func TestSelectNext_NeverReturnsExcluded(t *testing.T) {
	filter := NewDemographicFilter(testCfg)
	candidates := []*model.Question{
		{ID: "a", AgeRange: model.DefaultAgeRange},
		{ID: "b", AgeRange: model.DefaultAgeRange},
		{ID: "c", AgeRange: model.DefaultAgeRange},
	}
	excluded := map[string]bool{"b": true}

	batch := filter.SelectNext(candidates, excluded, model.Demographics{})
	require.Len(t, batch, 2)
	for _, q := range batch {
		assert.False(t, excluded[q.ID])
	}
}

func TestSelectNext_CapsAtBatchSize(t *testing.T) {
	filter := NewDemographicFilter(testCfg)
	var candidates []*model.Question
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		candidates = append(candidates, &model.Question{ID: id, AgeRange: model.DefaultAgeRange})
	}

	batch := filter.SelectNext(candidates, nil, model.Demographics{})
	require.Len(t, batch, BatchSize)
	// Candidate order is preserved
	assert.Equal(t, "a", batch[0].ID)
	assert.Equal(t, "b", batch[1].ID)
	assert.Equal(t, "c", batch[2].ID)
}

func TestSelectNext_FiltersInadmissible(t *testing.T) {
	filter := NewDemographicFilter(testCfg)
	age20 := 20
	candidates := []*model.Question{
		{ID: "teen", AgeRange: model.AgeRange{Min: 13, Max: 17}},
		{ID: "adult", AgeRange: model.AgeRange{Min: 18, Max: 120}},
	}

	batch := filter.SelectNext(candidates, nil, model.Demographics{Age: &age20})
	require.Len(t, batch, 1)
	assert.Equal(t, "adult", batch[0].ID)
}

func TestSelectNext_EmptyWhenExhausted(t *testing.T) {
	filter := NewDemographicFilter(testCfg)
	batch := filter.SelectNext(nil, nil, model.Demographics{})
	assert.Empty(t, batch)
}
