// Package search indexes tickets and knowledge base projections in Elasticsearch.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
)

// NewClient builds an Elasticsearch client from configuration.
func NewClient(cfg sharedConfig.ElasticsearchConfig) (*elasticsearch.Client, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 {
		addresses = []string{"http://localhost:9200"}
	}
	esCfg := elasticsearch.Config{Addresses: addresses}
	if cfg.Username != "" || cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	cli, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return cli, nil
}

// indexManager creates an index with its mapping the first time it is needed.
// A failed attempt is retried on the next call.
type indexManager struct {
	cli     *elasticsearch.Client
	index   string
	mapping string

	mu      sync.Mutex
	ensured bool
}

func (m *indexManager) ensure(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ensured {
		return nil
	}

	res, err := m.cli.Indices.Exists([]string{m.index}, m.cli.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", m.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		m.ensured = true
		return nil
	}

	cr := esapi.IndicesCreateRequest{Index: m.index, Body: strings.NewReader(m.mapping)}
	cres, err := cr.Do(ctx, m.cli)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", m.index, err)
	}
	defer cres.Body.Close()
	// Another instance may have won the race.
	if cres.StatusCode >= 300 && !strings.Contains(readBody(cres.Body), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s failed with status %d", m.index, cres.StatusCode)
	}
	m.ensured = true
	return nil
}

type searchResponse[T any] struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string  `json:"_id"`
			Score  float64 `json:"_score"`
			Source T       `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func doSearch[T any](ctx context.Context, cli *elasticsearch.Client, index string, query map[string]any) ([]T, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}
	sr := esapi.SearchRequest{Index: []string{index}, Body: strings.NewReader(string(body))}
	res, err := sr.Do(ctx, cli)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search %s failed with status %d", index, res.StatusCode)
	}

	var resp searchResponse[T]
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	out := make([]T, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 64<<10))
	return string(b)
}

func languageKey(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
