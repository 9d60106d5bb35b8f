package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	generatedAt := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(generatedAt))
	t.Cleanup(func() { SetClock(nil) })

	records := []ProcessedRecord{
		{
			Platform:          "twitter",
			HazardAnalysis:    HazardAnalysis{Type: "Tsunami", Urgency: UrgencyHigh, Confidence: 0.8},
			SentimentAnalysis: SentimentAnalysis{Label: LabelEmergency, UrgencyScore: 1.0},
		},
		{
			Platform:          "twitter",
			HazardAnalysis:    HazardAnalysis{Type: "Flooding", Urgency: UrgencyMedium, Confidence: 0.4},
			SentimentAnalysis: SentimentAnalysis{Label: LabelNegative, UrgencyScore: 0.2},
		},
		{
			Platform:          "facebook",
			HazardAnalysis:    HazardAnalysis{Type: CategoryGeneral, Urgency: UrgencyLow, Confidence: 0.0},
			SentimentAnalysis: SentimentAnalysis{Label: LabelNeutral, UrgencyScore: 0.0},
		},
	}

	stats := Summarize(records, DefaultHighPriorityThreshold)

	assert.Equal(t, 3, stats.TotalPosts)
	assert.Equal(t, map[string]int{"Tsunami": 1, "Flooding": 1, CategoryGeneral: 1}, stats.HazardTypeDistribution)
	assert.Equal(t, map[string]int{UrgencyHigh: 1, UrgencyMedium: 1, UrgencyLow: 1}, stats.UrgencyDistribution)
	assert.Equal(t, map[string]int{LabelEmergency: 1, LabelNegative: 1, LabelNeutral: 1}, stats.SentimentDistribution)
	assert.Equal(t, map[string]int{"twitter": 2, "facebook": 1}, stats.PlatformDistribution)

	// (0.8+0.4+0.0)/3 = 0.4; (1.0+0.2+0.0)/3 = 0.4
	assert.Equal(t, 0.4, stats.AverageConfidence)
	assert.Equal(t, 0.4, stats.AverageUrgencyScore)
	assert.Equal(t, 1, stats.HighPriorityCount)
	assert.Equal(t, generatedAt, stats.GeneratedAt)
}

func TestSummarize_RoundsAverages(t *testing.T) {
	records := []ProcessedRecord{
		{HazardAnalysis: HazardAnalysis{Confidence: 0.1}, SentimentAnalysis: SentimentAnalysis{UrgencyScore: 0.1}},
		{HazardAnalysis: HazardAnalysis{Confidence: 0.1}, SentimentAnalysis: SentimentAnalysis{UrgencyScore: 0.1}},
		{HazardAnalysis: HazardAnalysis{Confidence: 0.1}, SentimentAnalysis: SentimentAnalysis{UrgencyScore: 0.1}},
	}

	stats := Summarize(records, DefaultHighPriorityThreshold)

	// 0.3/3 carries float error; the summary rounds to three decimals.
	assert.Equal(t, 0.1, stats.AverageConfidence)
	assert.Equal(t, 0.1, stats.AverageUrgencyScore)
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil, DefaultHighPriorityThreshold)

	assert.Zero(t, stats.TotalPosts)
	assert.NotNil(t, stats.HazardTypeDistribution)
	assert.Empty(t, stats.HazardTypeDistribution)
	assert.NotNil(t, stats.UrgencyDistribution)
	assert.NotNil(t, stats.SentimentDistribution)
	assert.NotNil(t, stats.PlatformDistribution)
	assert.Zero(t, stats.AverageConfidence)
	assert.Zero(t, stats.AverageUrgencyScore)
	assert.Zero(t, stats.HighPriorityCount)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestSummarize_HighPriorityRequiresBoth(t *testing.T) {
	records := []ProcessedRecord{
		{HazardAnalysis: HazardAnalysis{Urgency: UrgencyHigh, Confidence: 0.9}},
		{HazardAnalysis: HazardAnalysis{Urgency: UrgencyHigh, Confidence: 0.3}},
		{HazardAnalysis: HazardAnalysis{Urgency: UrgencyMedium, Confidence: 0.9}},
	}

	stats := Summarize(records, 0.7)

	assert.Equal(t, 1, stats.HighPriorityCount)
}
