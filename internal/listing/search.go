// File: internal/listing/search.go
package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	es "marketplace_admin_backend/internal/platform/elasticsearch"
)

// Search wraps the Elasticsearch operations the listing service performs.
// All methods are no-ops or errors on a disabled client; the service checks
// Enabled before choosing the search path.
type Search struct {
	client *es.ESClientWrapper
	logger *zap.Logger
}

// NewSearch creates the search component.
func NewSearch(client *es.ESClientWrapper, logger *zap.Logger) *Search {
	return &Search{
		client: client,
		logger: logger.Named("listing_search"),
	}
}

// Enabled reports whether Elasticsearch-backed search is available.
func (s *Search) Enabled() bool {
	return s.client.Enabled()
}

// Index writes or replaces a listing document.
func (s *Search) Index(ctx context.Context, doc SearchDocument) error {
	if !s.client.Enabled() {
		return nil
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshalling search document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      es.ServicesIndexName,
		DocumentID: strconv.FormatInt(doc.ID, 10),
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, s.client.Client)
	if err != nil {
		return fmt.Errorf("indexing listing %d: %w", doc.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Error("Failed to index listing document",
			zap.Int64("listingID", doc.ID), zap.String("status", res.Status()))
		return fmt.Errorf("indexing listing %d: status %s", doc.ID, res.Status())
	}
	return nil
}

// Delete removes a listing document. A missing document is not an error.
func (s *Search) Delete(ctx context.Context, id int64) error {
	if !s.client.Enabled() {
		return nil
	}

	req := esapi.DeleteRequest{
		Index:      es.ServicesIndexName,
		DocumentID: strconv.FormatInt(id, 10),
	}
	res, err := req.Do(ctx, s.client.Client)
	if err != nil {
		return fmt.Errorf("deleting listing %d from index: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deleting listing %d from index: status %s", id, res.Status())
	}
	return nil
}

// SearchIDs runs a full-text query against name, category, and provider name,
// scoped to the moderation tab, and returns matching listing IDs in relevance
// order plus the total hit count.
func (s *Search) SearchIDs(ctx context.Context, query, filter string, page, pageSize int) ([]int64, int64, error) {
	if !s.client.Enabled() {
		return nil, 0, fmt.Errorf("elasticsearch is not configured")
	}

	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^2", "category", "provider_name"},
				"type":   "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}
	var filters []map[string]interface{}
	switch filter {
	case FilterPending:
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"is_verified": false}})
	case FilterVerified:
		filters = append(filters, map[string]interface{}{"term": map[string]interface{}{"is_verified": true}})
	}

	body := map[string]interface{}{
		"from":    (page - 1) * pageSize,
		"size":    pageSize,
		"_source": false,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filters,
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("marshalling search query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(es.ServicesIndexName),
		s.client.Search.WithBody(bytes.NewReader(payload)),
		s.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("searching listings: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Error("Listing search failed", zap.String("status", res.Status()))
		return nil, 0, fmt.Errorf("searching listings: status %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("decoding search response: %w", err)
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			s.logger.Warn("Skipping search hit with non-numeric ID", zap.String("id", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, parsed.Hits.Total.Value, nil
}
