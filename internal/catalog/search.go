package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"yogyatha-workers/internal/models"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// SearchIndex mirrors the catalog into Elasticsearch for admin keyword search.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	return &SearchIndex{client: client, index: index}
}

type indexedScheme struct {
	ID          string               `json:"id"`
	Name        models.LocalizedText `json:"name"`
	Description models.LocalizedText `json:"description"`
	States      []string             `json:"states"`
	Categories  []models.Category    `json:"categories"`
	Roles       []models.Role        `json:"roles"`
	ApplyLink   string               `json:"applyLink"`
}

func (s *SearchIndex) Index(ctx context.Context, scheme models.Scheme) error {
	body, err := json.Marshal(indexedScheme{
		ID:          scheme.ID,
		Name:        scheme.Name,
		Description: scheme.Description,
		States:      scheme.Eligibility.States,
		Categories:  scheme.Eligibility.Categories,
		Roles:       scheme.Eligibility.Roles,
		ApplyLink:   scheme.ApplyLink,
	})
	if err != nil {
		return fmt.Errorf("encode index document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: scheme.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index scheme %s: %w", scheme.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index scheme %s: %s", scheme.ID, res.Status())
	}
	return nil
}

// Remove deletes a scheme from the index. A missing document is not an error.
func (s *SearchIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: s.index, DocumentID: id, Refresh: "true"}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("remove scheme %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove scheme %s: %s", id, res.Status())
	}
	return nil
}

// SearchQuery narrows a keyword search. Empty fields do not filter.
type SearchQuery struct {
	Keywords string
	State    string
	Category models.Category
	Role     models.Role
	From     int
	Size     int
}

type SearchHit struct {
	ID          string               `json:"id"`
	Name        models.LocalizedText `json:"name"`
	Description models.LocalizedText `json:"description"`
	States      []string             `json:"states"`
	ApplyLink   string               `json:"applyLink"`
	Relevance   float64              `json:"relevance"`
}

type SearchResult struct {
	Hits      []SearchHit `json:"hits"`
	TotalHits int64       `json:"totalHits"`
}

func buildSearchBody(q SearchQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q.Keywords != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"name.*^3", "description.*"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	// a state filter also admits nationwide schemes
	if q.State != "" {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"states": []string{q.State, models.PanIndia}},
		})
	}
	if q.Category != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"categories": q.Category},
		})
	}
	if q.Role != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"roles": q.Role},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
}

func normalizePage(from, size int) (int, int) {
	if from < 0 {
		from = 0
	}
	if size < 1 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}
	return from, size
}

func (s *SearchIndex) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}
	from, size := normalizePage(q.From, q.Size)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search schemes: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search schemes: %s", res.Status())
	}

	var raw struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Score  float64       `json:"_score"`
				Source indexedScheme `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &SearchResult{Hits: []SearchHit{}, TotalHits: raw.Hits.Total.Value}
	for _, h := range raw.Hits.Hits {
		result.Hits = append(result.Hits, SearchHit{
			ID:          h.Source.ID,
			Name:        h.Source.Name,
			Description: h.Source.Description,
			States:      h.Source.States,
			ApplyLink:   h.Source.ApplyLink,
			Relevance:   h.Score,
		})
	}
	return result, nil
}
