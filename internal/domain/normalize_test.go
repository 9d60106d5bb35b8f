package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	n := NewNormalizer(false)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"retweet marker", "RT @ndma: Cyclone alert for Odisha", "cyclone alert for odisha"},
		{"mentions stripped", "@coastguard please help near @puri_beach", "please help near"},
		{"urls stripped", "Flooding photos https://t.co/abc123 and www.example.com/more", "flooding photos and"},
		{"hashtag keeps word", "#tsunami warning for #Chennai", "tsunami warning for chennai"},
		{"emoji stripped", "Huge waves 🌊🌊 at the beach 😱", "huge waves at the beach"},
		{"whitespace collapsed", "water   level\t rising \n fast", "water level rising fast"},
		{"lowercased", "STORM SURGE WARNING", "storm surge warning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.CleanText(tt.input))
		})
	}
}

func TestCleanText_LanguageFilter(t *testing.T) {
	t.Run("disabled keeps all languages", func(t *testing.T) {
		n := NewNormalizer(false)
		assert.NotEmpty(t, n.CleanText("これは日本語のテキストです"))
	})

	t.Run("enabled drops non-english", func(t *testing.T) {
		n := NewNormalizer(true)
		assert.Empty(t, n.CleanText("これは日本語のテキストです"))
	})

	t.Run("enabled keeps english", func(t *testing.T) {
		n := NewNormalizer(true)
		got := n.CleanText("severe flooding reported along the eastern coast this morning")
		assert.Equal(t, "severe flooding reported along the eastern coast this morning", got)
	})
}

func TestNormalizeTweet(t *testing.T) {
	tweet := RawPost{
		"id":        "tw-1",
		"timestamp": "2025-06-01T10:00:00Z",
		"user_id":   "user-42",
		"text":      "Tsunami warning for the coast",
		"public_metrics": map[string]any{
			"like_count":    float64(12),
			"retweet_count": float64(3),
			"reply_count":   float64(1),
		},
		"followers": float64(250),
		"media":     []any{"https://pic.example/1.jpg"},
	}

	got := NormalizeTweet(tweet)

	assert.Equal(t, "tw-1", got.ID)
	assert.Equal(t, "2025-06-01T10:00:00Z", got.Timestamp)
	assert.Equal(t, "user-42", got.User)
	assert.Equal(t, "Tsunami warning for the coast", got.Text)
	assert.Equal(t, 12, got.Likes)
	assert.Equal(t, 3, got.Retweets)
	assert.Equal(t, 1, got.Replies)
	assert.Equal(t, 250, got.Followers)
	assert.Equal(t, []string{"https://pic.example/1.jpg"}, got.Media)
}

func TestNormalizeTweet_Defaults(t *testing.T) {
	got := NormalizeTweet(RawPost{"text": "hello"})

	assert.Equal(t, "unknown", got.User)
	assert.Zero(t, got.Likes)
	assert.Zero(t, got.Retweets)
	assert.Zero(t, got.Replies)
	assert.Zero(t, got.Followers)
	assert.Empty(t, got.Media)
}

func TestNormalizeMock(t *testing.T) {
	post := RawPost{
		"id":        "fb-9",
		"timestamp": "2025-06-02T08:30:00Z",
		"channel":   "coastal-watch",
		"text":      "Storm surge flooding the promenade",
		"likes":     float64(40),
		"shares":    float64(11),
		"comments":  float64(6),
		"followers": float64(900),
	}

	got := NormalizeMock(post)

	assert.Equal(t, "fb-9", got.ID)
	assert.Equal(t, "coastal-watch", got.User)
	assert.Equal(t, 40, got.Likes)
	assert.Equal(t, 11, got.Retweets, "shares map to retweets")
	assert.Equal(t, 6, got.Replies, "comments map to replies")
	assert.Equal(t, 900, got.Followers)
}

func TestNormalizedPost_AsRaw(t *testing.T) {
	p := NormalizedPost{
		ID:        "p-1",
		Timestamp: "2025-06-01T10:00:00Z",
		User:      "observer",
		Text:      "high waves near kochi",
		Likes:     5,
		Media:     []string{"a.jpg"},
	}

	raw := p.AsRaw("instagram")

	assert.Equal(t, "p-1", raw["id"])
	assert.Equal(t, "instagram", raw["platform"])
	assert.Equal(t, "high waves near kochi", raw["text"])
	assert.Equal(t, 5, raw["likes"])
	assert.Equal(t, []string{"a.jpg"}, raw["media"])
}
