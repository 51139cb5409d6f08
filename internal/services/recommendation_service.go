package services

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"tripchat/internal/models/response_models"
	"tripchat/pkg/memcache"
	"tripchat/pkg/utils"
)

// RawPayload is the parsed but not yet enriched recommendation block.
type RawPayload struct {
	Destinations []response_models.RecommendedDestinationRef
	Itinerary    string
}

// CatalogProviderInterface is the bulk-fetch surface of the destination
// catalog. One call returns every record; the enricher never does per-id
// lookups.
type CatalogProviderInterface interface {
	ListDestinations(ctx context.Context) ([]response_models.CatalogDestination, error)
}

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ExtractPayload scans a complete model response for the marker token and its
// fenced recommendation block. It must only be called on a finished buffer;
// marker detection on partial text could match a truncated fragment.
//
// Every malformed shape degrades to nil: a turn without a parseable payload is
// a plain chat message, never an error.
func ExtractPayload(fullResponseText string) *RawPayload {
	markerAt := strings.Index(fullResponseText, utils.RecommendationMarker)
	if markerAt == -1 {
		return nil
	}

	// Prefer a fenced block after the marker; fall back to any fenced block
	// in case the model put the marker inside or after it.
	section := fullResponseText[markerAt:]
	m := fencedBlockPattern.FindStringSubmatch(section)
	if m == nil {
		m = fencedBlockPattern.FindStringSubmatch(fullResponseText)
	}
	if m == nil {
		log.Printf("recommendation marker present but no fenced block found")
		return nil
	}

	var parsed struct {
		Destinations json.RawMessage `json:"destinations"`
		Itinerary    string          `json:"itinerary"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &parsed); err != nil {
		log.Printf("recommendation block is not valid JSON: %v", err)
		return nil
	}
	if len(parsed.Destinations) == 0 {
		log.Printf("recommendation block has no destinations list")
		return nil
	}

	refs := []response_models.RecommendedDestinationRef{}
	if err := json.Unmarshal(parsed.Destinations, &refs); err != nil {
		log.Printf("destinations field is not a list: %v", err)
		return nil
	}
	if strings.TrimSpace(string(parsed.Destinations)) == "null" {
		log.Printf("destinations field is null, not a list")
		return nil
	}

	return &RawPayload{
		Destinations: refs,
		Itinerary:    parsed.Itinerary,
	}
}

// StripPayloadText returns the display portion of a response: everything
// before the marker, with trailing whitespace trimmed. If the marker is
// absent the text is returned unchanged.
func StripPayloadText(fullResponseText string) string {
	markerAt := strings.Index(fullResponseText, utils.RecommendationMarker)
	if markerAt == -1 {
		return fullResponseText
	}
	return strings.TrimRight(fullResponseText[:markerAt], " \t\r\n")
}

type RecommendationServiceInterface interface {
	EnrichDestinations(ctx context.Context, refs []response_models.RecommendedDestinationRef) []response_models.EnrichedDestination
}

type RecommendationService struct {
	catalog CatalogProviderInterface
	cache   *memcache.CatalogCache
}

func NewRecommendationService(catalog CatalogProviderInterface, cache *memcache.CatalogCache) RecommendationServiceInterface {
	return &RecommendationService{
		catalog: catalog,
		cache:   cache,
	}
}

// EnrichDestinations joins raw id/reason refs against one bulk catalog fetch.
// Ids the catalog doesn't know are dropped, never stubbed. A failed fetch
// yields an empty list; the turn still completes without a recommendation
// panel.
func (r *RecommendationService) EnrichDestinations(ctx context.Context, refs []response_models.RecommendedDestinationRef) []response_models.EnrichedDestination {
	enriched := []response_models.EnrichedDestination{}
	if len(refs) == 0 {
		return enriched
	}

	catalog, err := r.fetchCatalog(ctx)
	if err != nil {
		log.Printf("catalog fetch failed during enrichment: %v", err)
		return enriched
	}

	byID := make(map[string]response_models.CatalogDestination, len(catalog))
	for _, d := range catalog {
		byID[d.ID] = d
	}

	for _, ref := range refs {
		record, ok := byID[ref.ID]
		if !ok {
			log.Printf("dropping recommended destination with unknown id %q", ref.ID)
			continue
		}
		enriched = append(enriched, response_models.EnrichedDestination{
			CatalogDestination: record,
			Reason:             ref.Reason,
		})
	}

	return enriched
}

func (r *RecommendationService) fetchCatalog(ctx context.Context) ([]response_models.CatalogDestination, error) {
	if r.cache != nil {
		if cached, ok := r.cache.Get(); ok {
			return cached, nil
		}
	}

	catalog, err := r.catalog.ListDestinations(ctx)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.Set(catalog)
	}
	return catalog, nil
}
