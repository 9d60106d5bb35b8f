package domain

import "strings"

// Hazard category and urgency defaults when no rule matches.
const (
	CategoryGeneral = "General"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// Normalization divisors: a category needs 5 evidence points for full
// confidence, an urgency tier needs 3.
const (
	categoryScoreCeiling = 5.0
	urgencyScoreCeiling  = 3.0
)

// HazardClassifier scores free text against per-category keyword and
// pattern sets. Immutable after construction and safe for concurrent use.
type HazardClassifier struct {
	rules *RuleSet
}

// NewHazardClassifier creates a classifier over the embedded default rules.
func NewHazardClassifier() *HazardClassifier {
	return NewHazardClassifierWithRules(DefaultRules())
}

// NewHazardClassifierWithRules creates a classifier over a custom rule set.
func NewHazardClassifierWithRules(rules *RuleSet) *HazardClassifier {
	return &HazardClassifier{rules: rules}
}

// ClassifyResult carries the classifier verdict. CategoryConfidence and
// UrgencyConfidence are separate quantities; Confidence blends them for
// the single hazard_analysis.confidence field.
type ClassifyResult struct {
	Category           string
	Urgency            string
	CategoryConfidence float64
	UrgencyConfidence  float64
}

// Confidence is the arithmetic mean of the category and urgency confidences.
func (r ClassifyResult) Confidence() float64 {
	return (r.CategoryConfidence + r.UrgencyConfidence) / 2
}

// Classify scores text against every hazard category and urgency tier.
// Keywords score 1 point (substring containment, counted once each),
// patterns score 2. The best-scoring category wins with confidence
// min(score/5, 1); ties go to the first-declared category. Urgency is
// scored the same way with confidence min(score/3, 1); high beats medium
// beats low on ties. Empty or whitespace-only text, or text matching no
// rule at all, yields ("General", "low") with zero confidence.
func (c *HazardClassifier) Classify(text string) ClassifyResult {
	if strings.TrimSpace(text) == "" {
		return ClassifyResult{Category: CategoryGeneral, Urgency: UrgencyLow}
	}

	lower := strings.ToLower(text)

	category, categoryScore := bestMatch(c.rules.Hazards, lower)
	urgency, urgencyScore := bestMatch(c.rules.Urgency, lower)

	result := ClassifyResult{Category: CategoryGeneral, Urgency: UrgencyLow}
	if categoryScore > 0 {
		result.Category = category
		result.CategoryConfidence = clamp01(float64(categoryScore) / categoryScoreCeiling)
	}
	if urgencyScore > 0 {
		result.Urgency = urgency
		result.UrgencyConfidence = clamp01(float64(urgencyScore) / urgencyScoreCeiling)
	}
	return result
}

// bestMatch scores every rule group and returns the first-declared maximum.
func bestMatch(groups []CategoryRules, lower string) (string, int) {
	bestName := ""
	bestScore := -1
	for _, g := range groups {
		score := scoreGroup(g, lower)
		if score > bestScore {
			bestName = g.Name
			bestScore = score
		}
	}
	return bestName, bestScore
}

// scoreGroup counts 1 per keyword contained in the text and 2 per pattern
// match. Repeat occurrences of the same keyword do not add points.
func scoreGroup(g CategoryRules, lower string) int {
	score := 0
	for _, kw := range g.Keywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	for _, re := range g.Patterns {
		if re.MatchString(lower) {
			score += 2
		}
	}
	return score
}

// ExtractLocationMentions matches the text against the coastal gazetteer,
// case-insensitively. Each place is listed at most once, in gazetteer
// order, which keeps the output stable across runs.
func (c *HazardClassifier) ExtractLocationMentions(text string) []string {
	lower := strings.ToLower(text)
	mentions := []string{}
	for _, place := range c.rules.Gazetteer {
		if strings.Contains(lower, place) {
			mentions = append(mentions, place)
		}
	}
	return mentions
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
