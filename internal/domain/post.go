package domain

import (
	"context"
	"time"
)

// ProcessingVersion tags every ProcessedRecord with the pipeline revision
// that produced it, so downstream consumers can detect reprocessing needs.
const ProcessingVersion = "1.0.0"

// RawPost is an arbitrary key/value record as decoded from a platform
// payload. No schema is guaranteed; field access goes through the alias
// helpers in processor.go.
type RawPost map[string]any

// RawMessage represents an unprocessed message from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// NormalizedPost is the fixed shape produced by the per-platform
// normalizers. Numeric fields are always present (defaulted to zero),
// never null.
type NormalizedPost struct {
	ID        string   `json:"id,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	User      string   `json:"user"`
	Text      string   `json:"text"`
	Likes     int      `json:"likes"`
	Retweets  int      `json:"retweets"`
	Replies   int      `json:"replies"`
	Followers int      `json:"followers"`
	Media     []string `json:"media"`
}

// Engagement holds platform interaction counters normalized across
// heterogeneous source schemas.
type Engagement struct {
	Likes     int `json:"likes"`
	Retweets  int `json:"retweets"`
	Replies   int `json:"replies"`
	Followers int `json:"followers"`
}

// HazardAnalysis is the classifier verdict for one record. Confidence is
// the arithmetic mean of the category and urgency confidences; the raw
// components live on ClassifyResult.
type HazardAnalysis struct {
	Type               string   `json:"type"`
	Urgency            string   `json:"urgency"`
	Confidence         float64  `json:"confidence"`
	LocationsMentioned []string `json:"locations_mentioned"`
}

// SentimentAnalysis is the scorer verdict for one record. Its confidence
// is derived from subjectivity and indicator evidence and is a different
// quantity from HazardAnalysis.Confidence.
type SentimentAnalysis struct {
	Polarity            float64  `json:"polarity"`
	Subjectivity        float64  `json:"subjectivity"`
	UrgencyScore        float64  `json:"urgency_score"`
	Label               string   `json:"sentiment_label"`
	EmergencyIndicators []string `json:"emergency_indicators"`
	Confidence          float64  `json:"confidence"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ProcessedRecord is the fully analyzed form of one raw post. Every raw
// post yields exactly one ProcessedRecord; malformed or empty inputs
// degrade to the defaulted shape rather than being dropped.
type ProcessedRecord struct {
	OriginalID   string `json:"original_id"`
	Platform     string `json:"platform"`
	OriginalText string `json:"original_text"`
	CleanedText  string `json:"cleaned_text"`
	Timestamp    string `json:"timestamp,omitempty"`
	User         string `json:"user"`

	Engagement        Engagement        `json:"engagement"`
	HazardAnalysis    HazardAnalysis    `json:"hazard_analysis"`
	SentimentAnalysis SentimentAnalysis `json:"sentiment_analysis"`

	Media       []string `json:"media"`
	Geolocation *Geo     `json:"geolocation"`

	// Geocoding enrichment fields.
	PlaceName     string  `json:"place_name,omitempty"`
	GeoConfidence float64 `json:"geo_confidence,omitempty"`
	GeoSource     string  `json:"geo_source,omitempty"` // "forward", "original", "failed"

	ProcessedAt       time.Time `json:"processed_at"`
	ProcessingVersion string    `json:"processing_version"`
}

// SummaryStats aggregates a batch of ProcessedRecords. Computed fresh per
// batch and never mutated in place.
type SummaryStats struct {
	TotalPosts             int            `json:"total_posts"`
	HazardTypeDistribution map[string]int `json:"hazard_type_distribution"`
	UrgencyDistribution    map[string]int `json:"urgency_distribution"`
	SentimentDistribution  map[string]int `json:"sentiment_distribution"`
	PlatformDistribution   map[string]int `json:"platform_distribution"`
	AverageConfidence      float64        `json:"average_confidence"`
	AverageUrgencyScore    float64        `json:"average_urgency_score"`
	HighPriorityCount      int            `json:"high_priority_count"`
	GeneratedAt            time.Time      `json:"generated_at"`
}
