package domain

import (
	"fmt"
	"runtime"
	"sync"
)

// Filter defaults. HighPriority requires high urgency plus at least this
// much blended hazard confidence.
const (
	DefaultMinConfidence         = 0.5
	DefaultHighPriorityThreshold = 0.7
)

// Field-name alias lists, in resolution priority order. Heterogeneous
// platform payloads name the same logical value differently; resolution
// takes the first present non-default value per metric.
var (
	textAliases      = []string{"text", "content", "message"}
	timestampAliases = []string{"timestamp", "created_at", "date"}
	userAliases      = []string{"user", "author", "username"}
	likesAliases     = []string{"likes", "like_count"}
	retweetsAliases  = []string{"retweets", "retweet_count", "shares"}
	repliesAliases   = []string{"replies", "reply_count", "comments"}
	followersAliases = []string{"followers", "follower_count"}
	mediaAliases     = []string{"media", "attachments"}
	geoAliases       = []string{"geo", "location"}
)

// Processor orchestrates normalize -> classify -> score -> assemble for
// raw posts. All collaborators are immutable after construction, so a
// Processor is safe for concurrent use and ProcessBatch fans out freely.
type Processor struct {
	classifier *HazardClassifier
	scorer     *SentimentScorer
	normalizer *Normalizer
	workers    int
}

// NewProcessor wires a Processor from its three collaborators.
func NewProcessor(classifier *HazardClassifier, scorer *SentimentScorer, normalizer *Normalizer) *Processor {
	return &Processor{
		classifier: classifier,
		scorer:     scorer,
		normalizer: normalizer,
		workers:    runtime.GOMAXPROCS(0),
	}
}

// ProcessPost runs one raw post through the full analysis pipeline. It
// never fails: missing fields default, empty cleaned text short-circuits
// to the neutral record shape, and a nil post is treated as empty.
func (p *Processor) ProcessPost(post RawPost) ProcessedRecord {
	rawText := stringField(post, textAliases...)
	cleaned := p.normalizer.CleanText(rawText)

	if cleaned == "" {
		return p.emptyRecord(post, rawText)
	}

	classification := p.classifier.Classify(cleaned)
	sentiment := p.scorer.Analyze(cleaned)
	locations := p.classifier.ExtractLocationMentions(cleaned)

	user := stringField(post, userAliases...)
	if user == "" {
		user = "unknown"
	}

	return ProcessedRecord{
		OriginalID:   stringField(post, "id"),
		Platform:     platformField(post),
		OriginalText: rawText,
		CleanedText:  cleaned,
		Timestamp:    stringField(post, timestampAliases...),
		User:         user,
		Engagement: Engagement{
			Likes:     intField(post, likesAliases...),
			Retweets:  intField(post, retweetsAliases...),
			Replies:   intField(post, repliesAliases...),
			Followers: intField(post, followersAliases...),
		},
		HazardAnalysis: HazardAnalysis{
			Type:               classification.Category,
			Urgency:            classification.Urgency,
			Confidence:         classification.Confidence(),
			LocationsMentioned: locations,
		},
		SentimentAnalysis: sentiment,
		Media:             stringSliceField(post, mediaAliases...),
		Geolocation:       geoField(post, geoAliases...),
		ProcessedAt:       clock.Now().UTC(),
		ProcessingVersion: ProcessingVersion,
	}
}

// emptyRecord is the defaulted shape for posts whose text cleans to
// nothing. Identifiers, platform, and the original text are preserved.
func (p *Processor) emptyRecord(post RawPost, rawText string) ProcessedRecord {
	user := stringField(post, userAliases...)
	if user == "" {
		user = "unknown"
	}

	return ProcessedRecord{
		OriginalID:   stringField(post, "id"),
		Platform:     platformField(post),
		OriginalText: rawText,
		Timestamp:    stringField(post, timestampAliases...),
		User:         user,
		HazardAnalysis: HazardAnalysis{
			Type:               CategoryGeneral,
			Urgency:            UrgencyLow,
			LocationsMentioned: []string{},
		},
		SentimentAnalysis: DefaultSentiment(),
		Media:             []string{},
		ProcessedAt:       clock.Now().UTC(),
		ProcessingVersion: ProcessingVersion,
	}
}

// ProcessBatch processes every post independently across a bounded worker
// pool. Results land in index-matched slots, so output order and length
// always mirror the input; no post is ever dropped.
func (p *Processor) ProcessBatch(posts []RawPost) []ProcessedRecord {
	records := make([]ProcessedRecord, len(posts))
	if len(posts) == 0 {
		return records
	}

	workers := p.workers
	if workers > len(posts) {
		workers = len(posts)
	}

	var wg sync.WaitGroup
	indexes := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				records[i] = p.ProcessPost(posts[i])
			}
		}()
	}
	for i := range posts {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return records
}

// ProcessTweets normalizes raw Twitter records and processes the batch.
func (p *Processor) ProcessTweets(tweets []RawPost) []ProcessedRecord {
	posts := make([]RawPost, len(tweets))
	for i, t := range tweets {
		posts[i] = NormalizeTweet(t).AsRaw("twitter")
	}
	return p.ProcessBatch(posts)
}

// ProcessMockPosts normalizes mock FB/IG/YT records and processes the batch.
func (p *Processor) ProcessMockPosts(raw []RawPost) []ProcessedRecord {
	posts := make([]RawPost, len(raw))
	for i, r := range raw {
		platform := stringField(r, "platform")
		posts[i] = NormalizeMock(r).AsRaw(platform)
	}
	return p.ProcessBatch(posts)
}

// --- filters: pure predicates, never mutate or reorder ---

// FilterByCategory keeps records whose hazard type equals category.
func FilterByCategory(records []ProcessedRecord, category string) []ProcessedRecord {
	return filter(records, func(r ProcessedRecord) bool {
		return r.HazardAnalysis.Type == category
	})
}

// FilterByUrgency keeps records whose urgency tier equals urgency.
func FilterByUrgency(records []ProcessedRecord, urgency string) []ProcessedRecord {
	return filter(records, func(r ProcessedRecord) bool {
		return r.HazardAnalysis.Urgency == urgency
	})
}

// FilterByMinConfidence keeps records with hazard confidence >= min.
func FilterByMinConfidence(records []ProcessedRecord, min float64) []ProcessedRecord {
	return filter(records, func(r ProcessedRecord) bool {
		return r.HazardAnalysis.Confidence >= min
	})
}

// HighPriority keeps records with high urgency and hazard confidence at
// or above minConfidence.
func HighPriority(records []ProcessedRecord, minConfidence float64) []ProcessedRecord {
	return filter(records, func(r ProcessedRecord) bool {
		return IsHighPriority(r, minConfidence)
	})
}

// IsHighPriority reports whether one record meets the high-priority bar.
func IsHighPriority(r ProcessedRecord, minConfidence float64) bool {
	return r.HazardAnalysis.Urgency == UrgencyHigh && r.HazardAnalysis.Confidence >= minConfidence
}

func filter(records []ProcessedRecord, keep func(ProcessedRecord) bool) []ProcessedRecord {
	out := []ProcessedRecord{}
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// --- alias resolution helpers ---

// platformField resolves the source platform, defaulting to "unknown".
func platformField(post RawPost) string {
	if v := stringField(post, "platform"); v != "" {
		return v
	}
	return "unknown"
}

// stringField returns the first present non-empty string value among the
// aliased keys. Numeric IDs are rendered as strings.
func stringField(post RawPost, keys ...string) string {
	for _, key := range keys {
		switch v := post[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return trimFloat(v)
		case int:
			return fmt.Sprintf("%d", v)
		case int64:
			return fmt.Sprintf("%d", v)
		}
	}
	return ""
}

// intField returns the first non-zero integer value among the aliased
// keys. JSON numbers decode as float64 and are truncated.
func intField(post RawPost, keys ...string) int {
	for _, key := range keys {
		var n int
		switch v := post[key].(type) {
		case float64:
			n = int(v)
		case int:
			n = v
		case int64:
			n = int(v)
		}
		if n > 0 {
			return n
		}
	}
	return 0
}

// stringSliceField returns the first non-empty string sequence among the
// aliased keys. Non-string elements are skipped.
func stringSliceField(post RawPost, keys ...string) []string {
	for _, key := range keys {
		switch v := post[key].(type) {
		case []string:
			if len(v) > 0 {
				return v
			}
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return []string{}
}

// geoField extracts an optional lat/lon pair supplied by a collaborator.
func geoField(post RawPost, keys ...string) *Geo {
	for _, key := range keys {
		m, ok := post[key].(map[string]any)
		if !ok {
			continue
		}
		lat, latOK := floatValue(m["lat"])
		lon, lonOK := floatValue(m["lon"])
		if latOK && lonOK {
			return &Geo{Lat: lat, Lon: lon}
		}
	}
	return nil
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
