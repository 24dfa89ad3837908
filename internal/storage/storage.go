package storage

import (
	"context"

	"perpStats/internal/model"
)

// SeriesKey names one stored chart series.
type SeriesKey struct {
	Chain   string `json:"chain"`
	Dataset string `json:"dataset"`
}

// SeriesWriter is a sink for computed chart series.
type SeriesWriter interface {
	PutSeries(ctx context.Context, key SeriesKey, s model.Series) error
}
