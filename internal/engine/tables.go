package engine

import "mindgauge/internal/model"

// Static rule tables for result assembly. Pool order matters: the classifier
// slices the top entries, so the most important lines come first.

var descriptions = map[model.Condition]map[tier]string{
	model.ConditionAnxiety: {
		tierMild:     "Your responses suggest mild signs of anxiety. Occasional worry at this level is common and usually manageable with self-care.",
		tierModerate: "Your responses suggest a moderate level of anxiety that may be interfering with parts of your daily life.",
		tierSevere:   "Your responses suggest a severe level of anxiety. Symptoms at this level typically benefit from professional support.",
	},
	model.ConditionDepression: {
		tierMild:     "Your responses suggest mild signs of low mood. Keeping up routines and social contact often helps at this level.",
		tierModerate: "Your responses suggest a moderate level of depressive symptoms that may be affecting your energy and motivation.",
		tierSevere:   "Your responses suggest a severe level of depressive symptoms. Reaching out for professional help is strongly advised.",
	},
	model.ConditionStress: {
		tierMild:     "Your responses suggest mild stress. Some pressure is normal; small adjustments to workload and rest usually help.",
		tierModerate: "Your responses suggest a moderate stress level that may be wearing down your ability to recover between demands.",
		tierSevere:   "Your responses suggest a severe stress level. Sustained stress at this intensity deserves professional attention.",
	},
	model.ConditionBurnout: {
		tierMild:     "Your responses suggest early signs of burnout. Protecting recovery time now can stop the pattern from deepening.",
		tierModerate: "Your responses suggest a moderate level of burnout, with noticeable exhaustion and detachment from work.",
		tierSevere:   "Your responses suggest severe burnout. At this level a structured recovery plan with professional guidance is advised.",
	},
	model.ConditionInsomnia: {
		tierMild:     "Your responses suggest mild sleep difficulties. Consistent sleep habits usually restore quality at this level.",
		tierModerate: "Your responses suggest moderate insomnia that is likely affecting your daytime functioning.",
		tierSevere:   "Your responses suggest severe insomnia. Persistent sleep loss at this level should be assessed professionally.",
	},
}

// urgentRecommendations lead every severe-tier list
var urgentRecommendations = []string{
	"Consider scheduling an appointment with a mental health professional as soon as possible.",
	"If you feel in crisis or at risk of harming yourself, contact a crisis helpline or emergency services immediately.",
}

var conditionRecommendations = map[model.Condition][]string{
	model.ConditionAnxiety: {
		"Practice slow breathing exercises when you notice worry building.",
		"Limit caffeine and energy drinks, especially in the afternoon.",
		"Write down recurring worries and set a fixed daily time to review them.",
		"Try a guided grounding exercise when anxiety spikes.",
	},
	model.ConditionDepression: {
		"Keep a simple daily routine, including getting up at the same time.",
		"Plan one small enjoyable activity each day, even when motivation is low.",
		"Stay in contact with at least one supportive person per day.",
		"Spend time outdoors in daylight every day.",
	},
	model.ConditionStress: {
		"Identify your top stressor this week and one step to reduce it.",
		"Schedule short recovery breaks into your day before you feel depleted.",
		"Practice a relaxation technique such as progressive muscle relaxation.",
		"Say no to one non-essential commitment this week.",
	},
	model.ConditionBurnout: {
		"Set a hard boundary on working hours and protect it for two weeks.",
		"Reconnect with an activity outside work that used to energize you.",
		"Discuss workload rebalancing with your manager or team.",
		"Plan genuinely disconnected time off, without work channels.",
	},
	model.ConditionInsomnia: {
		"Keep the same wake-up time every day, including weekends.",
		"Avoid screens for the last hour before bed.",
		"Use your bed only for sleep; leave it if you are awake more than 20 minutes.",
		"Avoid heavy meals and alcohol within three hours of bedtime.",
	},
}

var generalRecommendations = []string{
	"Aim for 20-30 minutes of physical activity most days.",
	"Keep a regular sleep schedule of 7-9 hours.",
	"Reduce alcohol and nicotine, which both amplify mood symptoms.",
	"Check in with yourself weekly; repeat this assessment to track change.",
}

var minorRecommendations = []string{
	"Talk to a parent, school counselor, or another trusted adult about how you are feeling.",
	"Keep screen time in check during the evening to protect your sleep.",
}

var seniorRecommendations = []string{
	"Discuss these results with your primary care physician at your next visit.",
	"Stay socially active; regular contact with friends and family protects mood.",
}

var professionRecommendations = map[string][]string{
	"student": {
		"Break study periods into focused blocks with real breaks in between.",
		"Use your institution's student counseling services; they are free and confidential.",
	},
	"healthcare": {
		"Make use of peer-support or debriefing programs offered at your workplace.",
		"Watch for compassion fatigue; schedule recovery time after demanding shifts.",
	},
	"business": {
		"Block focus time in your calendar and treat it like a meeting.",
		"Delegate one recurring task this week to reduce chronic load.",
	},
}
