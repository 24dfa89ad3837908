package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perpStats/internal/model"
	"perpStats/internal/pipeline"
	"perpStats/internal/storage"
)

type memoryStore struct {
	mu     sync.Mutex
	series map[storage.SeriesKey]model.Series
}

func (m *memoryStore) PutSeries(_ context.Context, key storage.SeriesKey, s model.Series) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.series == nil {
		m.series = make(map[storage.SeriesKey]model.Series)
	}
	m.series[key] = s.Clone()
	return nil
}

func (m *memoryStore) LoadSeries(_ context.Context, key storage.SeriesKey, from, to int64) (model.Series, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.series[key].Window(from, to), nil
}

func (m *memoryStore) LastTimestamp(_ context.Context, key storage.SeriesKey) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.series[key]
	if len(s) == 0 {
		return 0, false, nil
	}
	return s[len(s)-1].Timestamp, true, nil
}

func TestStoreWriteThroughAndStaleFallback(t *testing.T) {
	store := &memoryStore{}
	runner := &fakeRunner{}
	h := NewRouter(runner, Options{Store: store})

	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/arbitrum/fees?from=86400").Code)
	stored, ok, err := store.LastTimestamp(context.Background(), storage.SeriesKey{Chain: "arbitrum", Dataset: "fees"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(86400), stored)

	runner.err = errors.New("subgraph down")
	rec := get(t, h, "/api/v1/arbitrum/fees?from=86400")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stale bool              `json:"stale"`
		To    int64             `json:"to"`
		Data  []model.TimePoint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Stale)
	assert.Equal(t, int64(86400), body.To)
	require.Len(t, body.Data, 1)
	assert.Equal(t, 5.0, body.Data[0].Value("all"))

	// nothing stored for this chain
	assert.Equal(t, http.StatusBadGateway, get(t, h, "/api/v1/avalanche/fees").Code)
}

func TestStoreSkipsNoDataResults(t *testing.T) {
	store := &memoryStore{}
	h := NewRouter(noDataRunner{}, Options{Store: store})

	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/arbitrum/traders").Code)
	assert.Empty(t, store.series)
}

type noDataRunner struct{}

func (noDataRunner) Run(_ context.Context, dataset string, p pipeline.Params) (pipeline.Result, error) {
	return pipeline.Result{Dataset: dataset, Chain: p.Chain, NoData: true}, nil
}

func (noDataRunner) Datasets() []string { return []string{"traders"} }
