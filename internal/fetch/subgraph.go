package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"perpStats/internal/model"
)

// ErrGraphQL marks a response that carried GraphQL errors and no data.
var ErrGraphQL = errors.New("graphql error")

// Subgraph queries one subgraph GraphQL endpoint.
type Subgraph struct {
	endpoint string
	http     httpClient
}

func NewSubgraph(endpoint string, opts Options) *Subgraph {
	return &Subgraph{endpoint: endpoint, http: opts.build("subgraph")}
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query runs query and returns every top-level collection by field or alias name.
func (s *Subgraph) Query(ctx context.Context, query string) (map[string][]model.Record, error) {
	data, err := s.raw(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]model.Record, len(data))
	for name, raw := range data {
		if name == "_meta" {
			continue
		}
		var items []map[string]interface{}
		if err := decodeNumbers(raw, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		records := make([]model.Record, len(items))
		for i, item := range items {
			records[i] = model.Record(item)
		}
		out[name] = records
	}
	return out, nil
}

// BlockNumber returns the last block the subgraph has indexed.
func (s *Subgraph) BlockNumber(ctx context.Context) (uint64, error) {
	data, err := s.raw(ctx, MetaQuery)
	if err != nil {
		return 0, err
	}
	var meta struct {
		Block struct {
			Number uint64 `json:"number"`
		} `json:"block"`
	}
	raw, ok := data["_meta"]
	if !ok {
		return 0, fmt.Errorf("subgraph response has no _meta")
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return 0, fmt.Errorf("decode _meta: %w", err)
	}
	return meta.Block.Number, nil
}

func (s *Subgraph) raw(ctx context.Context, query string) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	payload, err := s.http.do(ctx, "POST", s.endpoint, body, cleanResponse)
	if err != nil {
		return nil, fmt.Errorf("query subgraph: %w", err)
	}

	var resp graphQLResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode subgraph response: %w", err)
	}
	if len(resp.Errors) > 0 {
		messages := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			messages[i] = e.Message
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(messages, "; "))
		}
		s.http.logger.Warn("subgraph returned partial data",
			zap.String("endpoint", s.endpoint),
			zap.Strings("errors", messages))
	}
	return resp.Data, nil
}

// cleanResponse accepts payloads that decode and carry no GraphQL errors.
// Error and partial responses are never cached.
func cleanResponse(payload []byte) bool {
	var resp graphQLResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return false
	}
	return len(resp.Errors) == 0
}

func decodeNumbers(raw []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}
