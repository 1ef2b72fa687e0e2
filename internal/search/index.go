// Package search keeps an Elasticsearch index of product names and answers
// name lookups from it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/football_store/internal/models"
)

const (
	DefaultIndex = "products"
	defaultHits  = 100
)

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

type ProductIndex struct {
	es    *elasticsearch.Client
	index string
}

type document struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	InStock  bool   `json:"in_stock"`
}

func NewProductIndex(cfg Config) (*ProductIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	index := cfg.Index
	if index == "" {
		index = DefaultIndex
	}
	return &ProductIndex{es: client, index: index}, nil
}

// EnsureIndex creates the index with a lowercase keyword copy of the name when it is missing.
func (p *ProductIndex) EnsureIndex(ctx context.Context) error {
	res, err := p.es.Indices.Exists([]string{p.index}, p.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	mapping := map[string]any{
		"settings": map[string]any{
			"analysis": map[string]any{
				"normalizer": map[string]any{
					"lowercase": map[string]any{"type": "custom", "filter": []string{"lowercase"}},
				},
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":       map[string]any{"type": "keyword"},
				"name":     map[string]any{"type": "keyword", "normalizer": "lowercase"},
				"category": map[string]any{"type": "keyword"},
				"brand":    map[string]any{"type": "keyword"},
				"in_stock": map[string]any{"type": "boolean"},
			},
		},
	}
	body, err := encode(mapping)
	if err != nil {
		return err
	}

	res, err = p.es.Indices.Create(p.index,
		p.es.Indices.Create.WithContext(ctx),
		p.es.Indices.Create.WithBody(body),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: create index: %w", err)
	}
	defer res.Body.Close()
	return checkResponse("create index", res.StatusCode, res.IsError(), res.Body)
}

func (p *ProductIndex) Index(ctx context.Context, prod *models.Product) error {
	body, err := encode(document{
		ID:       prod.ID.String(),
		Name:     prod.Name,
		Category: string(prod.Category),
		Brand:    string(prod.Brand),
		InStock:  prod.InStock,
	})
	if err != nil {
		return err
	}

	res, err := p.es.Index(p.index, body,
		p.es.Index.WithContext(ctx),
		p.es.Index.WithDocumentID(prod.ID.String()),
		p.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index product: %w", err)
	}
	defer res.Body.Close()
	return checkResponse("index product", res.StatusCode, res.IsError(), res.Body)
}

// Delete treats a missing document as already removed.
func (p *ProductIndex) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := p.es.Delete(p.index, id.String(),
		p.es.Delete.WithContext(ctx),
		p.es.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: delete product: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return checkResponse("delete product", res.StatusCode, res.IsError(), res.Body)
}

// Search returns up to limit ids of products whose name contains q, ignoring case,
// ordered by name.
func (p *ProductIndex) Search(ctx context.Context, q string, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = defaultHits
	}
	body, err := encode(searchQuery(q, limit))
	if err != nil {
		return nil, err
	}

	res, err := p.es.Search(
		p.es.Search.WithContext(ctx),
		p.es.Search.WithIndex(p.index),
		p.es.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if err := checkResponse("search", res.StatusCode, res.IsError(), res.Body); err != nil {
		return nil, err
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("elasticsearch: decode search: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func searchQuery(q string, limit int) map[string]any {
	return map[string]any{
		"size": limit,
		"sort": []any{map[string]any{"name": "asc"}},
		"query": map[string]any{
			"wildcard": map[string]any{
				"name": map[string]any{
					"value":            "*" + escapeWildcard(strings.ToLower(q)) + "*",
					"case_insensitive": true,
				},
			},
		},
	}
}

func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}

func encode(v any) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("elasticsearch: encode body: %w", err)
	}
	return &buf, nil
}

func checkResponse(op string, status int, isErr bool, body io.Reader) error {
	if !isErr {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(body, 1<<10))
	return fmt.Errorf("elasticsearch: %s: status %d: %s", op, status, strings.TrimSpace(string(msg)))
}
