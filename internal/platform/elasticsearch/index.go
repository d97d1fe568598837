// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const ServicesIndexName = "services"

// defineServicesMapping returns the JSON string for the services index mapping.
func defineServicesMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"name":          map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"description":   map[string]interface{}{"type": "text"},
				"category":      map[string]interface{}{"type": "keyword"},
				"category_slug": map[string]interface{}{"type": "keyword"},
				"provider_id":   map[string]interface{}{"type": "keyword"},
				"provider_name": map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"is_active":     map[string]interface{}{"type": "boolean"},
				"is_verified":   map[string]interface{}{"type": "boolean"},
				"service_areas": map[string]interface{}{"type": "keyword"},
				"created_at":    map[string]interface{}{"type": "date"},
				"updated_at":    map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling services mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateServicesIndexIfNotExists creates the services index with the defined
// mapping if it does not already exist. A disabled client is a no-op.
func CreateServicesIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	if !client.Enabled() {
		return nil
	}

	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{
		Index: []string{ServicesIndexName},
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if services index exists", zap.Error(err))
		return fmt.Errorf("error checking if services index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Services index already exists", zap.String("index_name", ServicesIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Error("Error checking if services index exists, unexpected status",
			zap.String("status", res.Status()),
			zap.String("index_name", ServicesIndexName),
		)
		return fmt.Errorf("error checking if services index exists: status %s", res.Status())
	}

	mappingJSON, err := defineServicesMapping()
	if err != nil {
		log.Error("Failed to define services mapping", zap.Error(err))
		return err
	}
	log.Debug("Services index mapping defined", zap.String("mapping", mappingJSON))

	createReq := esapi.IndicesCreateRequest{
		Index: ServicesIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating services index", zap.Error(err), zap.String("index_name", ServicesIndexName))
		return fmt.Errorf("error creating services index %s: %w", ServicesIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err != nil {
			log.Error("Failed to parse services index creation error response body", zap.Error(err), zap.String("status", createRes.Status()))
		} else {
			log.Error("Failed to create services index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody),
				zap.String("index_name", ServicesIndexName),
			)
		}
		return fmt.Errorf("failed to create services index %s: status %s", ServicesIndexName, createRes.Status())
	}

	log.Info("Services index created successfully", zap.String("index_name", ServicesIndexName))
	return nil
}
