// Command analyze runs the hazard analysis pipeline offline over a file of
// raw social-media posts, one JSON object per line. It writes the processed
// records as a JSON array and prints batch summary statistics.
//
// Usage:
//
//	go run ./cmd/analyze \
//	  -in data/raw_posts.ndjson \
//	  -out data/processed_posts.json \
//	  -min-confidence 0.7
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/couchcryptid/ocean-hazard-etl/internal/domain"
	"github.com/couchcryptid/ocean-hazard-etl/internal/sentiment"
)

func main() {
	in := flag.String("in", "", "path to newline-delimited JSON file of raw posts")
	out := flag.String("out", "", "path to write processed records JSON (default stdout)")
	minConfidence := flag.Float64("min-confidence", domain.DefaultHighPriorityThreshold, "high-priority confidence threshold")
	dropNonEnglish := flag.Bool("drop-non-english", false, "treat non-English posts as empty")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*in, *out, *minConfidence, *dropNonEnglish); code != 0 {
		os.Exit(code)
	}
}

func run(inPath, outPath string, minConfidence float64, dropNonEnglish bool) int {
	posts, malformed, err := loadPosts(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load posts: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	processor := domain.NewProcessor(
		domain.NewHazardClassifier(),
		domain.NewSentimentScorer(sentiment.NewVaderProvider(), logger),
		domain.NewNormalizer(dropNonEnglish),
	)

	records := processor.ProcessBatch(posts)
	stats := domain.Summarize(records, minConfidence)

	if err := writeRecords(outPath, records); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: write records: %v\n", err)
		return 1
	}

	printSummary(os.Stderr, stats, malformed)
	return 0
}

// loadPosts reads one raw post per line. Unparseable lines become empty
// posts so the output batch stays aligned with the input file.
func loadPosts(path string) ([]domain.RawPost, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var (
		posts     []domain.RawPost
		malformed int
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var post domain.RawPost
		if err := json.Unmarshal(line, &post); err != nil {
			malformed++
			post = domain.RawPost{}
		}
		posts = append(posts, post)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return posts, malformed, nil
}

func writeRecords(path string, records []domain.ProcessedRecord) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func printSummary(w io.Writer, stats domain.SummaryStats, malformed int) {
	fmt.Fprintf(w, "\n=== Batch Summary ===\n")
	fmt.Fprintf(w, "Total posts:          %d\n", stats.TotalPosts)
	fmt.Fprintf(w, "High priority:        %d\n", stats.HighPriorityCount)
	fmt.Fprintf(w, "Average confidence:   %.3f\n", stats.AverageConfidence)
	fmt.Fprintf(w, "Average urgency:      %.3f\n", stats.AverageUrgencyScore)
	if malformed > 0 {
		fmt.Fprintf(w, "Malformed lines:      %d (degraded to defaults)\n", malformed)
	}

	printDistribution(w, "Hazard types", stats.HazardTypeDistribution)
	printDistribution(w, "Urgency", stats.UrgencyDistribution)
	printDistribution(w, "Sentiment", stats.SentimentDistribution)
	printDistribution(w, "Platforms", stats.PlatformDistribution)
}

func printDistribution(w io.Writer, title string, dist map[string]int) {
	if len(dist) == 0 {
		return
	}
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-18s %d\n", k, dist[k])
	}
}
