// Package search indexes products in Elasticsearch and runs fuzzy title
// searches against that index.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Skotchmaster/gamestore/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
)

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

type Client struct {
	es    *elasticsearch.Client
	index string
}

// NewClient connects and checks the cluster answers an info request.
func NewClient(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	return &Client{es: es, index: cfg.Index}, nil
}

func (c *Client) Index(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}

	res, err := c.es.Index(c.index, bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(p.ID),
		c.es.Index.WithRefresh("wait_for"),
	)
	if err != nil {
		return fmt.Errorf("index product %s: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product %s: %s", p.ID, res.Status())
	}
	return nil
}

func (c *Client) Search(ctx context.Context, query string, from, size int) ([]models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description", "game", "genre"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	products := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return products, nil
}
