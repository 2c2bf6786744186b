package main

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindgauge/internal/config"
	"mindgauge/internal/log"
	"mindgauge/internal/model"
)

// Seeds the question bank: the three bootstrap demographic questions plus a
// branching clinical set covering every rule kind and question type.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(cfg.MongoDB).Collection("questions")

	questions := []model.Question{
		{
			ID:        cfg.AgeQuestionID,
			Text:      "How old are you?",
			Type:      model.QuestionTypeNumber,
			Required:  true,
			Category:  model.CategoryDemographic,
			AgeRange:  model.DefaultAgeRange,
			IsInitial: true,
		},
		{
			ID:       cfg.GenderQuestionID,
			Text:     "What is your gender?",
			Type:     model.QuestionTypeRadio,
			Required: true,
			Options: []model.Option{
				{Label: "Male", Value: "male"},
				{Label: "Female", Value: "female"},
				{Label: "Other / prefer not to say", Value: "other"},
			},
			Category:  model.CategoryDemographic,
			AgeRange:  model.DefaultAgeRange,
			IsInitial: true,
		},
		{
			ID:       cfg.ProfessionQuestionID,
			Text:     "Which best describes your occupation?",
			Type:     model.QuestionTypeSelect,
			Required: true,
			Options: []model.Option{
				{Label: "Student", Value: "student"},
				{Label: "Healthcare", Value: "healthcare"},
				{Label: "Business / office", Value: "business"},
				{Label: "Technology", Value: "technology"},
				{Label: "Other", Value: "other"},
			},
			Category:  model.CategoryDemographic,
			AgeRange:  model.DefaultAgeRange,
			IsInitial: true,
		},
		{
			ID:       "q-sleep",
			Text:     "Over the past two weeks, how would you rate your sleep quality?",
			Type:     model.QuestionTypeScale,
			Required: true,
			MinValue: 0, MaxValue: 10,
			MinLabel: "Very poor", MaxLabel: "Excellent",
			Category: model.CategoryPhysical,
			AgeRange: model.DefaultAgeRange,
			NextQuestionRules: []model.Rule{
				{Condition: model.RuleLessThan, Value: model.RuleValue{Number: 4}, NextQuestionID: "q-sleep-issues"},
			},
			DefaultNextQuestionID: "q-mood",
			ConditionMapping: map[model.Condition]float64{
				model.ConditionInsomnia: 1,
			},
		},
		{
			ID:       "q-sleep-issues",
			Text:     "Which of these sleep problems have you experienced this week?",
			Type:     model.QuestionTypeCheckbox,
			Required: true,
			Options: []model.Option{
				{Label: "Trouble falling asleep", Value: "falling_asleep"},
				{Label: "Waking during the night", Value: "night_waking"},
				{Label: "Waking too early", Value: "early_waking"},
				{Label: "Feeling unrested after sleep", Value: "unrested"},
			},
			Category: model.CategoryPhysical,
			AgeRange: model.DefaultAgeRange,
			NextQuestionRules: []model.Rule{
				{Condition: model.RuleContains, Value: model.RuleValue{Member: "night_waking"}, NextQuestionID: "q-worry"},
				{Condition: model.RuleAny, NextQuestionID: "q-mood"},
			},
			ConditionMapping: map[model.Condition]float64{
				model.ConditionInsomnia: 2,
				model.ConditionStress:   0.5,
			},
		},
		{
			ID:       "q-mood",
			Text:     "How has your mood been most days recently?",
			Type:     model.QuestionTypeRadio,
			Required: true,
			Options: []model.Option{
				{Label: "Generally good", Value: "good"},
				{Label: "Up and down", Value: "mixed"},
				{Label: "Mostly low", Value: "low"},
				{Label: "Very low or numb", Value: "very_low"},
			},
			Category: model.CategoryEmotional,
			AgeRange: model.DefaultAgeRange,
			NextQuestionRules: []model.Rule{
				{Condition: model.RuleEquals, Value: model.RuleValue{Scalar: "very_low"}, NextQuestionID: "q-interest"},
				{Condition: model.RuleEquals, Value: model.RuleValue{Scalar: "low"}, NextQuestionID: "q-interest"},
			},
			DefaultNextQuestionID: "q-worry",
			ConditionMapping: map[model.Condition]float64{
				model.ConditionDepression: 2,
			},
		},
		{
			ID:       "q-interest",
			Text:     "How much interest or pleasure do you take in things you usually enjoy?",
			Type:     model.QuestionTypeScale,
			Required: true,
			MinValue: 0, MaxValue: 10,
			MinLabel: "None at all", MaxLabel: "As much as ever",
			Category:              model.CategoryEmotional,
			AgeRange:              model.DefaultAgeRange,
			DefaultNextQuestionID: "q-worry",
			ConditionMapping: map[model.Condition]float64{
				model.ConditionDepression: 1.5,
			},
		},
		{
			ID:       "q-worry",
			Text:     "How often do you feel nervous, anxious, or unable to stop worrying?",
			Type:     model.QuestionTypeScale,
			Required: true,
			MinValue: 0, MaxValue: 10,
			MinLabel: "Never", MaxLabel: "Constantly",
			Category: model.CategoryEmotional,
			AgeRange: model.DefaultAgeRange,
			NextQuestionRules: []model.Rule{
				{Condition: model.RuleBetween, Value: model.RuleValue{Min: 4, Max: 7}, NextQuestionID: "q-workload"},
				{Condition: model.RuleGreaterThan, Value: model.RuleValue{Number: 7}, NextQuestionID: "q-physical"},
				{Condition: model.RuleAny, NextQuestionID: "q-final"},
			},
			ConditionMapping: map[model.Condition]float64{
				model.ConditionAnxiety: 2,
				model.ConditionStress:  0.5,
			},
		},
		{
			ID:       "q-workload",
			Text:     "How often does your workload leave you feeling drained at the end of the day?",
			Type:     model.QuestionTypeRadio,
			Required: true,
			Options: []model.Option{
				{Label: "Rarely", Value: "rarely"},
				{Label: "Sometimes", Value: "sometimes"},
				{Label: "Most days", Value: "most_days"},
				{Label: "Every day", Value: "every_day"},
			},
			Category:       model.CategoryProfessional,
			AgeRange:       model.AgeRange{Min: 16, Max: 120},
			ForProfessions: []string{"student", "healthcare", "business", "technology"},
			NextQuestionRules: []model.Rule{
				{Condition: model.RuleAny, NextQuestionID: "q-physical"},
			},
			ConditionMapping: map[model.Condition]float64{
				model.ConditionBurnout: 2,
				model.ConditionStress:  1,
			},
		},
		{
			ID:       "q-physical",
			Text:     "Have you noticed physical signs of tension, such as headaches or muscle aches?",
			Type:     model.QuestionTypeCheckbox,
			Required: false,
			Options: []model.Option{
				{Label: "Headaches", Value: "headaches"},
				{Label: "Muscle tension", Value: "muscle_tension"},
				{Label: "Stomach discomfort", Value: "stomach"},
				{Label: "Racing heart", Value: "racing_heart"},
			},
			Category:              model.CategoryPhysical,
			AgeRange:              model.DefaultAgeRange,
			DefaultNextQuestionID: "q-final",
			ConditionMapping: map[model.Condition]float64{
				model.ConditionStress:  1,
				model.ConditionAnxiety: 0.5,
			},
		},
		{
			ID:       "q-final",
			Text:     "Is there anything else about how you have been feeling that you would like to note?",
			Type:     model.QuestionTypeText,
			Required: false,
			Category: model.CategoryGeneral,
			AgeRange: model.DefaultAgeRange,
			IsFinal:  true,
		},
	}

	inserted := 0
	for i := range questions {
		q := &questions[i]
		if err := q.Validate(); err != nil {
			log.Fatalf("Seed question %s invalid: %v", q.ID, err)
		}
		opts := options.Replace().SetUpsert(true)
		if _, err := coll.ReplaceOne(ctx, bson.M{"_id": q.ID}, q, opts); err != nil {
			log.Fatalf("Failed to upsert question %s: %v", q.ID, err)
		}
		inserted++
	}

	fmt.Printf("Seeded %d questions into %s.questions\n", inserted, cfg.MongoDB)
}
