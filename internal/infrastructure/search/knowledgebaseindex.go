package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

const knowledgeBaseMapping = `{
	"mappings": {"properties": {
		"languageCode": {"type": "keyword"},
		"languageKey":  {"type": "keyword"},
		"id":           {"type": "keyword"},
		"source":       {"type": "keyword"},
		"questions":    {"type": "text"},
		"answer":       {"type": "text"},
		"createdDate":  {"type": "date"},
		"updatedDate":  {"type": "date"},
		"metadata":     {"type": "object", "enabled": false}
	}}
}`

type knowledgeBaseDocument struct {
	knowledgebase.SearchEntity
	LanguageKey string `json:"languageKey"`
}

// KnowledgeBaseIndex holds the searchable QnA pairs of every language.
type KnowledgeBaseIndex struct {
	cli    *elasticsearch.Client
	index  *indexManager
	logger logger.Interface
}

func NewKnowledgeBaseIndex(cli *elasticsearch.Client, index string, logger logger.Interface) *KnowledgeBaseIndex {
	return &KnowledgeBaseIndex{
		cli:    cli,
		index:  &indexManager{cli: cli, index: index, mapping: knowledgeBaseMapping},
		logger: logger,
	}
}

// Replace drops the language's documents and indexes entities in their place.
func (ix *KnowledgeBaseIndex) Replace(ctx context.Context, languageCode string, entities []knowledgebase.SearchEntity) error {
	if err := ix.index.ensure(ctx); err != nil {
		return err
	}

	query, err := json.Marshal(map[string]any{
		"query": map[string]any{"term": map[string]any{"languageKey": languageKey(languageCode)}},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal delete query: %w", err)
	}
	refresh := true
	dr := esapi.DeleteByQueryRequest{
		Index:   []string{ix.index.index},
		Body:    bytes.NewReader(query),
		Refresh: &refresh,
	}
	dres, err := dr.Do(ctx, ix.cli)
	if err != nil {
		return fmt.Errorf("delete %s documents: %w", languageCode, err)
	}
	dres.Body.Close()
	if dres.IsError() {
		return fmt.Errorf("delete %s documents failed with status %d", languageCode, dres.StatusCode)
	}

	if len(entities) == 0 {
		return nil
	}

	body, err := buildBulkBody(ix.index.index, languageCode, entities)
	if err != nil {
		return err
	}
	br := esapi.BulkRequest{Body: bytes.NewReader(body), Refresh: "true"}
	bres, err := br.Do(ctx, ix.cli)
	if err != nil {
		return fmt.Errorf("bulk index %s: %w", languageCode, err)
	}
	defer bres.Body.Close()
	if bres.IsError() {
		return fmt.Errorf("bulk index %s failed with status %d", languageCode, bres.StatusCode)
	}

	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(bres.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if result.Errors {
		return fmt.Errorf("bulk index %s reported item errors", languageCode)
	}

	ix.logger.Infow("reindexed knowledge base", "language", languageCode, "documents", len(entities))
	return nil
}

// Search matches text against the questions and answers of one language.
func (ix *KnowledgeBaseIndex) Search(ctx context.Context, languageCode, text string, count int) ([]knowledgebase.SearchEntity, error) {
	if err := ix.index.ensure(ctx); err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultPageSize
	}

	boolQuery := map[string]any{
		"filter": []any{map[string]any{"term": map[string]any{"languageKey": languageKey(languageCode)}}},
	}
	if text = strings.TrimSpace(text); text != "" {
		boolQuery["must"] = []any{map[string]any{"multi_match": map[string]any{
			"query":  text,
			"fields": []string{"questions^2", "answer"},
		}}}
	}

	docs, err := doSearch[knowledgeBaseDocument](ctx, ix.cli, ix.index.index, map[string]any{
		"size":  count,
		"query": map[string]any{"bool": boolQuery},
	})
	if err != nil {
		return nil, err
	}

	entities := make([]knowledgebase.SearchEntity, 0, len(docs))
	for _, d := range docs {
		entities = append(entities, d.SearchEntity)
	}
	return entities, nil
}

func buildBulkBody(index, languageCode string, entities []knowledgebase.SearchEntity) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range entities {
		meta := map[string]any{"index": map[string]any{"_index": index, "_id": languageKey(languageCode) + "-" + e.ID}}
		if err := enc.Encode(meta); err != nil {
			return nil, fmt.Errorf("failed to encode bulk action: %w", err)
		}
		if err := enc.Encode(knowledgeBaseDocument{SearchEntity: e, LanguageKey: languageKey(languageCode)}); err != nil {
			return nil, fmt.Errorf("failed to encode bulk document: %w", err)
		}
	}
	return buf.Bytes(), nil
}
