// Package api serves computed datasets over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"perpStats/internal/model"
	"perpStats/internal/pipeline"
	"perpStats/internal/registry"
)

// Runner computes datasets.
type Runner interface {
	Run(ctx context.Context, dataset string, p pipeline.Params) (pipeline.Result, error)
	Datasets() []string
}

// Options tune the router.
type Options struct {
	// Timeout bounds one dataset computation. Zero means one minute.
	Timeout time.Duration
	Logger  *zap.Logger
	// Store, when set, keeps every computed series and answers from it
	// while upstreams are failing.
	Store Store
}

type server struct {
	runner  Runner
	logger  *zap.Logger
	timeout time.Duration
	store   Store
}

// NewRouter builds the HTTP handler.
func NewRouter(runner Runner, opts Options) http.Handler {
	s := &server{runner: runner, logger: opts.Logger, timeout: opts.Timeout, store: opts.Store}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.timeout <= 0 {
		s.timeout = time.Minute
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(metrics)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/datasets", s.datasets)
		r.Get("/{chain}/{dataset}", s.dataset)
	})
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) datasets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"datasets": s.runner.Datasets(),
		"chains":   registry.Chains(),
	})
}

func (s *server) dataset(w http.ResponseWriter, r *http.Request) {
	chain, err := registry.ParseChain(chi.URLParam(r, "chain"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	query := r.URL.Query()
	p := pipeline.Params{Chain: chain}
	if p.From, err = pipeline.ParseTimestamp(query.Get("from")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid from: "+err.Error())
		return
	}
	if p.To, err = pipeline.ParseTimestamp(query.Get("to")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid to: "+err.Error())
		return
	}
	if p.To > 0 && p.From > p.To {
		writeError(w, http.StatusBadRequest, "from is after to")
		return
	}
	if period := query.Get("period"); period != "" && period != "daily" {
		d, err := time.ParseDuration(period)
		if err != nil || d != 24*time.Hour {
			writeError(w, http.StatusBadRequest, "invalid period: only daily is supported")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	name := chi.URLParam(r, "dataset")
	res, err := s.runner.Run(ctx, name, p)
	switch {
	case errors.Is(err, pipeline.ErrUnknownDataset), errors.Is(err, registry.ErrUnknownChain):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, pipeline.ErrUnsupportedPeriod):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, pipeline.ErrNoSource):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		s.logger.Error("dataset failed", zap.String("dataset", name), zap.String("chain", chain.String()), zap.Error(err))
		stale, ok := s.stored(r.Context(), name, p)
		if !ok {
			writeError(w, http.StatusBadGateway, "upstream data unavailable")
			return
		}
		res = stale
	default:
		s.persist(ctx, res)
	}
	if res.NoData {
		datasetNoDataTotal.WithLabelValues(chain.String(), name).Inc()
	}
	if res.Series == nil {
		res.Series = model.Series{}
	}
	writeJSON(w, http.StatusOK, res)
}
