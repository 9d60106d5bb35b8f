package domain

import "math"

// Summarize reduces a batch of processed records into distribution counts
// and averaged metrics. An empty batch yields zero counts and empty maps
// rather than failing; averages are defined as 0.0 in that case. The
// high-priority count uses the same predicate as the HighPriority filter.
func Summarize(records []ProcessedRecord, highPriorityThreshold float64) SummaryStats {
	stats := SummaryStats{
		TotalPosts:             len(records),
		HazardTypeDistribution: map[string]int{},
		UrgencyDistribution:    map[string]int{},
		SentimentDistribution:  map[string]int{},
		PlatformDistribution:   map[string]int{},
		GeneratedAt:            clock.Now().UTC(),
	}
	if len(records) == 0 {
		return stats
	}

	var confidenceSum, urgencySum float64
	for _, r := range records {
		stats.HazardTypeDistribution[r.HazardAnalysis.Type]++
		stats.UrgencyDistribution[r.HazardAnalysis.Urgency]++
		stats.SentimentDistribution[r.SentimentAnalysis.Label]++
		stats.PlatformDistribution[r.Platform]++

		confidenceSum += r.HazardAnalysis.Confidence
		urgencySum += r.SentimentAnalysis.UrgencyScore

		if IsHighPriority(r, highPriorityThreshold) {
			stats.HighPriorityCount++
		}
	}

	n := float64(len(records))
	stats.AverageConfidence = round3(confidenceSum / n)
	stats.AverageUrgencyScore = round3(urgencySum / n)

	return stats
}

// round3 rounds to three decimals, matching the summary wire format.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
