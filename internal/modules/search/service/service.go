package service

import (
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/btlam02/gis-app/internal/entity"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const bridgeIndex = "bridges"

// SearchService maintains the full-text bridge index. All methods are
// best-effort from the caller's perspective: a failed index write never
// blocks the database write it follows.
type SearchService interface {
	IndexBridge(bridge *entity.Bridge) error
	DeleteBridge(id string) error
	Search(query, status, district string) (*meilisearch.SearchResponse, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	filterableAttrs := []string{"status", "bridge_type", "district"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err := s.client.Index(bridgeIndex).UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update bridges filterable attributes: %v", err)
	}

	sortableAttrs := []string{"built_year", "updated_at"}
	_, err = s.client.Index(bridgeIndex).UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update bridges sortable attributes: %v", err)
	}
}

type meiliBridgeDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	BridgeType  string `json:"bridge_type"`
	Material    string `json:"material"`
	District    string `json:"district"`
	Description string `json:"description"`
	BuiltYear   *int   `json:"built_year"`
	UpdatedAt   int64  `json:"updated_at"`
}

func (s *meiliSearchService) cleanForIndex(content string) string {
	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexBridge(bridge *entity.Bridge) error {
	doc := meiliBridgeDoc{
		ID:         bridge.ID.String(),
		Name:       bridge.Name,
		Status:     string(bridge.Status),
		BridgeType: string(bridge.BridgeType),
		BuiltYear:  bridge.BuiltYear,
		UpdatedAt:  bridge.UpdatedAt.Unix(),
	}
	if bridge.Material != nil {
		doc.Material = *bridge.Material
	}
	if bridge.District != nil {
		doc.District = *bridge.District
	}
	if bridge.Description != nil {
		doc.Description = s.cleanForIndex(*bridge.Description)
	}

	task, err := s.client.Index(bridgeIndex).AddDocuments([]meiliBridgeDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed bridge %s, task id: %d", bridge.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteBridge(id string) error {
	_, err := s.client.Index(bridgeIndex).DeleteDocument(id)
	return err
}

func (s *meiliSearchService) Search(query, status, district string) (*meilisearch.SearchResponse, error) {
	var filters []string
	if status != "" {
		filters = append(filters, fmt.Sprintf("status = %q", status))
	}
	if district != "" {
		filters = append(filters, fmt.Sprintf("district = %q", district))
	}

	req := &meilisearch.SearchRequest{Limit: 50}
	if len(filters) > 0 {
		req.Filter = strings.Join(filters, " AND ")
	}

	return s.client.Index(bridgeIndex).Search(query, req)
}

func strPtr(s string) *string {
	return &s
}
