package domain

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProcessedAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(testProcessedAt))
	t.Cleanup(func() { SetClock(nil) })

	scorer := NewSentimentScorer(&stubProvider{score: SentimentScore{Subjectivity: 0.5}}, slog.Default())
	return NewProcessor(NewHazardClassifier(), scorer, NewNormalizer(false))
}

func TestProcessPost(t *testing.T) {
	p := newTestProcessor(t)

	post := RawPost{
		"id":         "post-1",
		"platform":   "twitter",
		"text":       "Tsunami warning issued for Chennai. Evacuate immediately!",
		"created_at": "2025-06-01T09:00:00Z",
		"author":     "coastal-observer",
		"like_count": float64(10),
		"shares":     float64(4),
		"comments":   float64(2),
		"followers":  float64(300),
		"media":      []any{"wave.jpg"},
		"geo":        map[string]any{"lat": 13.08, "lon": 80.27},
	}

	record := p.ProcessPost(post)

	assert.Equal(t, "post-1", record.OriginalID)
	assert.Equal(t, "twitter", record.Platform)
	assert.Equal(t, "Tsunami warning issued for Chennai. Evacuate immediately!", record.OriginalText)
	assert.Equal(t, "tsunami warning issued for chennai. evacuate immediately!", record.CleanedText)
	assert.Equal(t, "2025-06-01T09:00:00Z", record.Timestamp)
	assert.Equal(t, "coastal-observer", record.User)

	assert.Equal(t, Engagement{Likes: 10, Retweets: 4, Replies: 2, Followers: 300}, record.Engagement)

	assert.Equal(t, "Tsunami", record.HazardAnalysis.Type)
	assert.Equal(t, UrgencyHigh, record.HazardAnalysis.Urgency)
	assert.InDelta(t, 0.8, record.HazardAnalysis.Confidence, 1e-9)
	assert.Equal(t, []string{"chennai"}, record.HazardAnalysis.LocationsMentioned)

	assert.Equal(t, LabelEmergency, record.SentimentAnalysis.Label)
	assert.Greater(t, record.SentimentAnalysis.UrgencyScore, 0.7)

	assert.Equal(t, []string{"wave.jpg"}, record.Media)
	require.NotNil(t, record.Geolocation)
	assert.InDelta(t, 13.08, record.Geolocation.Lat, 1e-9)
	assert.InDelta(t, 80.27, record.Geolocation.Lon, 1e-9)

	assert.Equal(t, testProcessedAt, record.ProcessedAt)
	assert.Equal(t, ProcessingVersion, record.ProcessingVersion)
}

func TestProcessPost_TextAliases(t *testing.T) {
	p := newTestProcessor(t)

	tests := []struct {
		name string
		post RawPost
	}{
		{"text", RawPost{"text": "flood warning"}},
		{"content", RawPost{"content": "flood warning"}},
		{"message", RawPost{"message": "flood warning"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := p.ProcessPost(tt.post)
			assert.Equal(t, "Flooding", record.HazardAnalysis.Type)
			assert.Equal(t, "flood warning", record.CleanedText)
		})
	}
}

func TestProcessPost_EngagementAliases(t *testing.T) {
	p := newTestProcessor(t)

	// Zero values fall through to the next alias.
	post := RawPost{
		"text":           "storm update",
		"likes":          float64(0),
		"like_count":     float64(7),
		"retweet_count":  float64(5),
		"replies":        float64(3),
		"follower_count": float64(120),
	}

	record := p.ProcessPost(post)

	assert.Equal(t, Engagement{Likes: 7, Retweets: 5, Replies: 3, Followers: 120}, record.Engagement)
}

func TestProcessPost_EmptyText(t *testing.T) {
	p := newTestProcessor(t)

	tests := []struct {
		name string
		post RawPost
	}{
		{"no text field", RawPost{"id": "x-1", "platform": "facebook"}},
		{"blank text", RawPost{"id": "x-1", "platform": "facebook", "text": "   "}},
		{"only a url", RawPost{"id": "x-1", "platform": "facebook", "text": "https://example.com/post"}},
		{"nil post", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := p.ProcessPost(tt.post)

			assert.Empty(t, record.CleanedText)
			assert.Equal(t, CategoryGeneral, record.HazardAnalysis.Type)
			assert.Equal(t, UrgencyLow, record.HazardAnalysis.Urgency)
			assert.Zero(t, record.HazardAnalysis.Confidence)
			assert.Equal(t, DefaultSentiment(), record.SentimentAnalysis)
			assert.Equal(t, Engagement{}, record.Engagement)
			assert.Equal(t, ProcessingVersion, record.ProcessingVersion)

			if tt.post != nil {
				assert.Equal(t, "x-1", record.OriginalID)
				assert.Equal(t, "facebook", record.Platform)
			} else {
				assert.Equal(t, "unknown", record.Platform)
			}
		})
	}
}

func TestProcessPost_Idempotent(t *testing.T) {
	p := newTestProcessor(t)

	post := RawPost{
		"id":   "idem-1",
		"text": "Cyclone warning for Odisha, evacuate coastal areas",
	}

	first := p.ProcessPost(post)
	second := p.ProcessPost(post)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeat processing differs (-first +second):\n%s", diff)
	}
}

func TestProcessBatch_PreservesLengthAndOrder(t *testing.T) {
	p := newTestProcessor(t)

	posts := make([]RawPost, 25)
	for i := range posts {
		posts[i] = RawPost{
			"id":   fmt.Sprintf("p-%d", i),
			"text": fmt.Sprintf("flood update %d", i),
		}
	}
	// Malformed entries degrade in place, never dropped.
	posts[7] = nil
	posts[13] = RawPost{}

	records := p.ProcessBatch(posts)

	require.Len(t, records, len(posts))
	for i, r := range records {
		if i == 7 || i == 13 {
			assert.Empty(t, r.OriginalID)
			assert.Equal(t, CategoryGeneral, r.HazardAnalysis.Type)
			continue
		}
		assert.Equal(t, fmt.Sprintf("p-%d", i), r.OriginalID, "record %d out of order", i)
	}
}

func TestProcessBatch_Empty(t *testing.T) {
	p := newTestProcessor(t)

	assert.Empty(t, p.ProcessBatch(nil))
	assert.Empty(t, p.ProcessBatch([]RawPost{}))
}

func TestProcessTweets(t *testing.T) {
	p := newTestProcessor(t)

	tweets := []RawPost{{
		"id":      "tw-5",
		"user_id": "u-1",
		"text":    "Storm surge warning for Mumbai",
		"public_metrics": map[string]any{
			"like_count": float64(2),
		},
	}}

	records := p.ProcessTweets(tweets)

	require.Len(t, records, 1)
	assert.Equal(t, "twitter", records[0].Platform)
	assert.Equal(t, "Storm Surge", records[0].HazardAnalysis.Type)
	assert.Equal(t, []string{"mumbai"}, records[0].HazardAnalysis.LocationsMentioned)
	assert.Equal(t, 2, records[0].Engagement.Likes)
}

func TestProcessMockPosts(t *testing.T) {
	p := newTestProcessor(t)

	posts := []RawPost{{
		"id":       "yt-2",
		"platform": "youtube",
		"channel":  "weather-watch",
		"text":     "Oil spill spotted near Kochi harbour",
		"shares":   float64(8),
	}}

	records := p.ProcessMockPosts(posts)

	require.Len(t, records, 1)
	assert.Equal(t, "youtube", records[0].Platform)
	assert.Equal(t, "weather-watch", records[0].User)
	assert.Equal(t, "Oil Spill", records[0].HazardAnalysis.Type)
	assert.Equal(t, 8, records[0].Engagement.Retweets)
}

func TestFilters(t *testing.T) {
	records := []ProcessedRecord{
		{OriginalID: "a", HazardAnalysis: HazardAnalysis{Type: "Tsunami", Urgency: UrgencyHigh, Confidence: 0.9}},
		{OriginalID: "b", HazardAnalysis: HazardAnalysis{Type: "Flooding", Urgency: UrgencyHigh, Confidence: 0.5}},
		{OriginalID: "c", HazardAnalysis: HazardAnalysis{Type: "Tsunami", Urgency: UrgencyMedium, Confidence: 0.8}},
		{OriginalID: "d", HazardAnalysis: HazardAnalysis{Type: CategoryGeneral, Urgency: UrgencyLow, Confidence: 0.0}},
	}

	t.Run("by category", func(t *testing.T) {
		got := FilterByCategory(records, "Tsunami")
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].OriginalID)
		assert.Equal(t, "c", got[1].OriginalID)
	})

	t.Run("by urgency", func(t *testing.T) {
		got := FilterByUrgency(records, UrgencyHigh)
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].OriginalID)
		assert.Equal(t, "b", got[1].OriginalID)
	})

	t.Run("by min confidence", func(t *testing.T) {
		got := FilterByMinConfidence(records, DefaultMinConfidence)
		require.Len(t, got, 3)
	})

	t.Run("high priority", func(t *testing.T) {
		got := HighPriority(records, DefaultHighPriorityThreshold)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].OriginalID)

		// Soundness and completeness against the whole input.
		for _, r := range records {
			matched := false
			for _, g := range got {
				if g.OriginalID == r.OriginalID {
					matched = true
				}
			}
			assert.Equal(t, IsHighPriority(r, DefaultHighPriorityThreshold), matched)
		}
	})

	t.Run("threshold boundary is inclusive", func(t *testing.T) {
		exact := []ProcessedRecord{{HazardAnalysis: HazardAnalysis{Urgency: UrgencyHigh, Confidence: 0.7}}}
		assert.Len(t, HighPriority(exact, 0.7), 1)
	})

	t.Run("input never mutated", func(t *testing.T) {
		before := records[0].OriginalID
		_ = FilterByCategory(records, "Tsunami")
		assert.Equal(t, before, records[0].OriginalID)
	})
}
