package domain

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
	"github.com/forPelevin/gomoji"
)

var (
	// retweetMarkerRe strips leading "RT:" / "RT " retweet markers.
	retweetMarkerRe = regexp.MustCompile(`(?i)\bRT\b[: ]*`)
	mentionRe       = regexp.MustCompile(`@\S+`)
	urlRe           = regexp.MustCompile(`https?://\S+|www\.\S+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Normalizer cleans raw social-media text into the form consumed by the
// classifier and scorer. Cleaning is lossy on purpose: markers, mentions,
// links, and emoji carry no hazard signal.
type Normalizer struct {
	dropNonEnglish bool
}

// NewNormalizer creates a Normalizer. With dropNonEnglish set, text whose
// detected language is not English cleans to the empty string, which the
// processor turns into a defaulted record.
func NewNormalizer(dropNonEnglish bool) *Normalizer {
	return &Normalizer{dropNonEnglish: dropNonEnglish}
}

// CleanText strips retweet markers, @mentions, URLs, the hashtag symbol
// (keeping the word), and emoji, collapses whitespace, and lowercases.
func (n *Normalizer) CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = retweetMarkerRe.ReplaceAllString(text, "")
	text = mentionRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "#", "")
	text = gomoji.RemoveEmojis(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.ToLower(strings.TrimSpace(text))

	if n.dropNonEnglish && text != "" {
		if info := whatlanggo.Detect(text); info.Lang != whatlanggo.Eng {
			return ""
		}
	}

	return text
}

// NormalizeTweet converts a raw Twitter API record into the fixed
// NormalizedPost shape. Engagement counters live under public_metrics.
func NormalizeTweet(tweet RawPost) NormalizedPost {
	metrics, _ := tweet["public_metrics"].(map[string]any)

	user := stringField(tweet, "user_id")
	if user == "" {
		user = "unknown"
	}

	return NormalizedPost{
		ID:        stringField(tweet, "id"),
		Timestamp: stringField(tweet, "timestamp"),
		User:      user,
		Text:      stringField(tweet, "text"),
		Likes:     intField(RawPost(metrics), "like_count"),
		Retweets:  intField(RawPost(metrics), "retweet_count"),
		Replies:   intField(RawPost(metrics), "reply_count"),
		Followers: intField(tweet, "followers"),
		Media:     stringSliceField(tweet, "media"),
	}
}

// NormalizeMock converts a mock FB/IG/YT post into the fixed shape:
// shares map to retweets, comments to replies, channel to user.
func NormalizeMock(post RawPost) NormalizedPost {
	user := stringField(post, "user", "channel")
	if user == "" {
		user = "unknown"
	}

	return NormalizedPost{
		ID:        stringField(post, "id"),
		Timestamp: stringField(post, "timestamp"),
		User:      user,
		Text:      stringField(post, "text"),
		Likes:     intField(post, "likes"),
		Retweets:  intField(post, "shares"),
		Replies:   intField(post, "comments"),
		Followers: intField(post, "followers"),
		Media:     stringSliceField(post, "media"),
	}
}

// AsRaw converts a NormalizedPost back into the map shape consumed by
// Processor.ProcessPost, carrying the source platform along.
func (p NormalizedPost) AsRaw(platform string) RawPost {
	raw := RawPost{
		"user":      p.User,
		"text":      p.Text,
		"likes":     p.Likes,
		"retweets":  p.Retweets,
		"replies":   p.Replies,
		"followers": p.Followers,
	}
	if p.ID != "" {
		raw["id"] = p.ID
	}
	if p.Timestamp != "" {
		raw["timestamp"] = p.Timestamp
	}
	if platform != "" {
		raw["platform"] = platform
	}
	if len(p.Media) > 0 {
		raw["media"] = p.Media
	}
	return raw
}
