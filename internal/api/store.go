package api

import (
	"context"

	"go.uber.org/zap"

	"perpStats/internal/model"
	"perpStats/internal/pipeline"
	"perpStats/internal/registry"
	"perpStats/internal/storage"
)

// Store persists computed series and serves them back when upstreams fail.
type Store interface {
	storage.SeriesWriter
	LoadSeries(ctx context.Context, key storage.SeriesKey, from, to int64) (model.Series, error)
	LastTimestamp(ctx context.Context, key storage.SeriesKey) (int64, bool, error)
}

func seriesKey(chain registry.Chain, dataset string) storage.SeriesKey {
	return storage.SeriesKey{Chain: chain.String(), Dataset: dataset}
}

// persist writes a fresh result through to the store.
func (s *server) persist(ctx context.Context, res pipeline.Result) {
	if s.store == nil || res.NoData || len(res.Series) == 0 {
		return
	}
	if err := s.store.PutSeries(ctx, seriesKey(res.Chain, res.Dataset), res.Series); err != nil {
		s.logger.Warn("persist dataset failed",
			zap.String("dataset", res.Dataset),
			zap.String("chain", res.Chain.String()),
			zap.Error(err))
	}
}

// stored answers from persisted points. ok is false when nothing was stored.
func (s *server) stored(ctx context.Context, dataset string, p pipeline.Params) (pipeline.Result, bool) {
	if s.store == nil {
		return pipeline.Result{}, false
	}
	key := seriesKey(p.Chain, dataset)
	last, ok, err := s.store.LastTimestamp(ctx, key)
	if err != nil || !ok {
		if err != nil {
			s.logger.Warn("read stored dataset head failed", zap.String("dataset", dataset), zap.Error(err))
		}
		return pipeline.Result{}, false
	}

	from, to := p.From, p.To
	if from <= 0 {
		from = registry.LaunchTimestamp
	}
	if to <= 0 || to > last {
		to = last
	}
	points, err := s.store.LoadSeries(ctx, key, from, to)
	if err != nil {
		s.logger.Warn("load stored dataset failed", zap.String("dataset", dataset), zap.Error(err))
		return pipeline.Result{}, false
	}
	return pipeline.Result{
		Dataset: dataset,
		Chain:   p.Chain,
		From:    from,
		To:      to,
		Series:  points,
		NoData:  len(points) == 0,
		Stale:   true,
	}, true
}
