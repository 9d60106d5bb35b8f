package domain

import (
	"log/slog"
	"math"
	"strings"
)

// Sentiment label values. "emergency" overrides the polarity-derived labels.
const (
	LabelEmergency = "emergency"
	LabelPositive  = "positive"
	LabelNegative  = "negative"
	LabelNeutral   = "neutral"
)

// emergencyLabelThreshold is the urgency score above which a record is
// labeled "emergency" regardless of polarity.
const emergencyLabelThreshold = 0.7

// SentimentScore is the output contract of the external sentiment
// primitive: polarity in [-1,1], subjectivity in [0,1].
type SentimentScore struct {
	Polarity     float64
	Subjectivity float64
}

// SentimentProvider is the external polarity/subjectivity primitive. A
// failing provider is never fatal; the scorer substitutes a neutral score.
type SentimentProvider interface {
	Score(text string) (SentimentScore, error)
}

// SentimentScorer layers domain-specific urgency and emergency logic on
// top of a general-purpose sentiment primitive. Immutable after
// construction and safe for concurrent use.
type SentimentScorer struct {
	provider SentimentProvider
	rules    *RuleSet
	logger   *slog.Logger
}

// NewSentimentScorer creates a scorer over the embedded default rules.
// A nil provider disables the external primitive; polarity defaults to
// 0.0 and subjectivity to 0.5.
func NewSentimentScorer(provider SentimentProvider, logger *slog.Logger) *SentimentScorer {
	return NewSentimentScorerWithRules(provider, DefaultRules(), logger)
}

// NewSentimentScorerWithRules creates a scorer over a custom rule set.
func NewSentimentScorerWithRules(provider SentimentProvider, rules *RuleSet, logger *slog.Logger) *SentimentScorer {
	return &SentimentScorer{provider: provider, rules: rules, logger: logger}
}

// DefaultSentiment is the all-neutral record returned for empty text.
func DefaultSentiment() SentimentAnalysis {
	return SentimentAnalysis{
		Subjectivity:        0.5,
		Label:               LabelNeutral,
		EmergencyIndicators: []string{},
	}
}

// Analyze produces the full sentiment verdict for one text. Empty or
// whitespace-only text returns DefaultSentiment. A provider failure is an
// explicit degradation branch: the neutral score is substituted and the
// domain urgency/indicator logic still runs, so emergency detection never
// depends on the collaborator being up.
func (s *SentimentScorer) Analyze(text string) SentimentAnalysis {
	if strings.TrimSpace(text) == "" {
		return DefaultSentiment()
	}

	score := SentimentScore{Subjectivity: 0.5}
	if s.provider != nil {
		got, err := s.provider.Score(text)
		if err != nil {
			s.logger.Warn("sentiment provider unavailable, using neutral score", "error", err)
		} else {
			score = got
		}
	}

	urgencyScore := s.urgencyScore(text)
	indicators := s.emergencyIndicators(text)

	return SentimentAnalysis{
		Polarity:            score.Polarity,
		Subjectivity:        score.Subjectivity,
		UrgencyScore:        urgencyScore,
		Label:               deriveLabel(score.Polarity, urgencyScore),
		EmergencyIndicators: indicators,
		Confidence:          blendConfidence(score.Polarity, score.Subjectivity, urgencyScore, len(indicators)),
	}
}

// urgencyScore counts emergency keyword hits (each keyword once) plus one
// point per matched urgency pattern, normalized by max(wordCount*0.1, 1).
// The density normalization means short texts saturate with fewer hits.
func (s *SentimentScorer) urgencyScore(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range s.rules.EmergencyKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	for _, re := range s.rules.UrgencyPatterns {
		if re.MatchString(lower) {
			hits++
		}
	}

	divisor := math.Max(float64(words)*0.1, 1)
	return clamp01(float64(hits) / divisor)
}

// emergencyIndicators lists every emergency keyword present in the text,
// each at most once, in keyword-list order.
func (s *SentimentScorer) emergencyIndicators(text string) []string {
	lower := strings.ToLower(text)
	indicators := []string{}
	for _, kw := range s.rules.EmergencyKeywords {
		if strings.Contains(lower, kw) {
			indicators = append(indicators, kw)
		}
	}
	return indicators
}

// deriveLabel maps urgency and polarity to a sentiment label. Urgency
// dominates: above the emergency threshold the polarity is ignored.
func deriveLabel(polarity, urgencyScore float64) string {
	switch {
	case urgencyScore > emergencyLabelThreshold:
		return LabelEmergency
	case polarity > 0.1:
		return LabelPositive
	case polarity < -0.1:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// blendConfidence combines four independently capped evidence terms:
//
//	base            = |subjectivity - 0.5| * 2   (0 at the midpoint, 1 at either extreme)
//	indicator boost = min(indicators * 0.1, 0.3)
//	polarity boost  = min(|polarity| * 0.2, 0.2)
//	urgency boost   = min(urgencyScore * 0.2, 0.2)
//
// The base penalizes the subjectivity midpoint, so a neutral-fallback
// score (subjectivity 0.5) contributes nothing and degraded records come
// out low-confidence. The sum is clamped to [0,1].
func blendConfidence(polarity, subjectivity, urgencyScore float64, indicators int) float64 {
	base := math.Abs(subjectivity-0.5) * 2
	indicatorBoost := math.Min(float64(indicators)*0.1, 0.3)
	polarityBoost := math.Min(math.Abs(polarity)*0.2, 0.2)
	urgencyBoost := math.Min(urgencyScore*0.2, 0.2)
	return clamp01(base + indicatorBoost + polarityBoost + urgencyBoost)
}
