package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attempts to attach coordinates to a record by
// forward-geocoding its first mentioned location. Records that already
// carry a geolocation keep it (GeoSource "original"). If the geocoder is
// nil, no locations were mentioned, or the lookup fails, the record is
// returned unchanged apart from GeoSource tagging (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, record ProcessedRecord, geocoder Geocoder, logger *slog.Logger) ProcessedRecord {
	if geocoder == nil {
		return record
	}

	if record.Geolocation != nil {
		record.GeoSource = "original"
		return record
	}

	if len(record.HazardAnalysis.LocationsMentioned) == 0 {
		return record
	}

	place := record.HazardAnalysis.LocationsMentioned[0]
	result, err := geocoder.ForwardGeocode(ctx, place)
	if err != nil {
		logger.Warn("forward geocoding failed",
			"record_id", record.OriginalID,
			"place", place,
			"error", err,
		)
		record.GeoSource = "failed"
		return record
	}

	if result.Lat == 0 && result.Lon == 0 {
		return record
	}

	record.Geolocation = &Geo{Lat: result.Lat, Lon: result.Lon}
	record.PlaceName = result.PlaceName
	record.GeoConfidence = result.Confidence
	record.GeoSource = "forward"
	return record
}
