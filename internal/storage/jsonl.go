package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"perpStats/internal/model"
)

// Line is one JSONL row: a chart point tagged with its series.
type Line struct {
	SeriesKey
	Point model.TimePoint `json:"point"`
}

// JsonlStorage writes chart points to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutSeries appends the points of s as JSON lines.
func (s *JsonlStorage) PutSeries(ctx context.Context, key SeriesKey, points model.Series) error {
	if len(points) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, p := range points {
		line, err := json.Marshal(Line{SeriesKey: key, Point: p})
		if err != nil {
			return fmt.Errorf("marshal point %d: %w", p.Timestamp, err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write point: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
