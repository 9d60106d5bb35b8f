package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/couchcryptid/ocean-hazard-etl/internal/domain"
	"github.com/couchcryptid/ocean-hazard-etl/internal/observability"
)

// PostTransformer implements Transformer using the domain processor with
// optional geocoding enrichment. It never drops a post: payloads that fail
// to decode degrade to the defaulted record shape so the offset can still
// be committed and the failure is visible downstream.
type PostTransformer struct {
	processor     *domain.Processor
	geocoder      domain.Geocoder
	minConfidence float64
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewTransformer creates a PostTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(processor *domain.Processor, geocoder domain.Geocoder, minConfidence float64, metrics *observability.Metrics, logger *slog.Logger) *PostTransformer {
	return &PostTransformer{
		processor:     processor,
		geocoder:      geocoder,
		minConfidence: minConfidence,
		metrics:       metrics,
		logger:        logger,
	}
}

func (t *PostTransformer) Transform(ctx context.Context, raw domain.RawMessage) (domain.ProcessedRecord, error) {
	var post domain.RawPost
	if err := json.Unmarshal(raw.Value, &post); err != nil {
		t.metrics.MalformedPosts.Inc()
		t.logger.Warn("malformed post payload, producing defaulted record",
			"error", err,
			"topic", raw.Topic,
			"partition", raw.Partition,
			"offset", raw.Offset,
		)
		post = domain.RawPost{}
	}

	record := t.processor.ProcessPost(post)
	record = domain.EnrichWithGeocoding(ctx, record, t.geocoder, t.logger)

	t.metrics.HazardTypePosts.WithLabelValues(record.HazardAnalysis.Type).Inc()
	if domain.IsHighPriority(record, t.minConfidence) {
		t.metrics.HighPriorityPosts.Inc()
	}

	return record, nil
}
