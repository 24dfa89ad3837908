package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"perpStats/internal/model"
	"perpStats/internal/registry"
)

// Fields of a flattened daily_volume entry.
const (
	FieldAction = "action"
	FieldVolume = "volume"
)

// DefaultVolumeServerURL returns the stats server base URL of chain.
func DefaultVolumeServerURL(chain registry.Chain) string {
	if chain == registry.Avalanche {
		return "https://gmx-avax-server.uc.r.appspot.com"
	}
	return "https://gmx-server-mainnet.uw.r.appspot.com"
}

// VolumeServer reads per-action volume entries from the stats REST server.
type VolumeServer struct {
	baseURL string
	http    httpClient
}

func NewVolumeServer(baseURL string, opts Options) *VolumeServer {
	return &VolumeServer{baseURL: strings.TrimRight(baseURL, "/"), http: opts.build("volume-server")}
}

type volumeEntry struct {
	ID   interface{}            `json:"id"`
	Data map[string]interface{} `json:"data"`
}

// DailyVolume pages backwards through daily_volume until it reaches an entry
// older than from or an empty page.
func (v *VolumeServer) DailyVolume(ctx context.Context, from int64) ([]model.Record, error) {
	var (
		out   []model.Record
		after string
	)
	for {
		endpoint := v.baseURL + "/daily_volume"
		if after != "" {
			endpoint += "?after=" + url.QueryEscape(after)
		}
		payload, err := v.http.do(ctx, "GET", endpoint, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch daily volume: %w", err)
		}
		var page []volumeEntry
		if err := decodeNumbers(payload, &page); err != nil {
			return nil, fmt.Errorf("decode daily volume: %w", err)
		}
		if len(page) == 0 {
			return out, nil
		}
		for _, entry := range page {
			rec := model.Record(entry.Data)
			if rec == nil {
				rec = model.Record{}
			}
			if ts, ok := rec.Int(model.KeyTimestamp); ok && ts < from {
				return out, nil
			}
			rec[model.KeyID] = idString(entry.ID)
			out = append(out, rec)
		}
		next := idString(page[len(page)-1].ID)
		if next == "" || next == after {
			return nil, fmt.Errorf("daily volume pagination stalled at %q", after)
		}
		after = next
	}
}

func idString(id interface{}) string {
	switch typed := id.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}
