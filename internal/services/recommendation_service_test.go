package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripchat/internal/models/response_models"
	"tripchat/pkg/memcache"
)

type fakeCatalog struct {
	records []response_models.CatalogDestination
	err     error
	calls   int
}

func (f *fakeCatalog) ListDestinations(ctx context.Context) ([]response_models.CatalogDestination, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantNil   bool
		wantDests int
		wantItin  string
	}{
		{
			name:    "no marker",
			text:    "Just a normal chat reply about Hanoi.",
			wantNil: true,
		},
		{
			name: "tagged fence",
			text: "Here is your plan.\n\nFINAL_RECOMMENDATIONS\n```json\n" +
				`{"destinations":[{"id":"a","reason":"r1"},{"id":"b","reason":"r2"}],"itinerary":"**Day 1:** Go"}` +
				"\n```",
			wantDests: 2,
			wantItin:  "**Day 1:** Go",
		},
		{
			name: "untagged fence",
			text: "FINAL_RECOMMENDATIONS\n```\n" +
				`{"destinations":[{"id":"a","reason":"r"}],"itinerary":""}` +
				"\n```",
			wantDests: 1,
		},
		{
			name:    "marker without fence",
			text:    "FINAL_RECOMMENDATIONS and nothing else",
			wantNil: true,
		},
		{
			name:    "fence with broken json",
			text:    "FINAL_RECOMMENDATIONS\n```json\n{\"destinations\": [\n```",
			wantNil: true,
		},
		{
			name:    "missing destinations field",
			text:    "FINAL_RECOMMENDATIONS\n```json\n{\"itinerary\":\"text\"}\n```",
			wantNil: true,
		},
		{
			name:    "null destinations",
			text:    "FINAL_RECOMMENDATIONS\n```json\n{\"destinations\":null,\"itinerary\":\"\"}\n```",
			wantNil: true,
		},
		{
			name:    "destinations not a list",
			text:    "FINAL_RECOMMENDATIONS\n```json\n{\"destinations\":{\"id\":\"a\"}}\n```",
			wantNil: true,
		},
		{
			name:      "empty destinations list is still a payload",
			text:      "FINAL_RECOMMENDATIONS\n```json\n{\"destinations\":[],\"itinerary\":\"plan\"}\n```",
			wantDests: 0,
			wantItin:  "plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPayload(tt.text)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ExtractPayload() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ExtractPayload() = nil, want payload")
			}
			if len(got.Destinations) != tt.wantDests {
				t.Errorf("destinations = %v, want %d entries", got.Destinations, tt.wantDests)
			}
			if got.Itinerary != tt.wantItin {
				t.Errorf("itinerary = %q, want %q", got.Itinerary, tt.wantItin)
			}
		})
	}
}

func TestExtractPayload_PreservesRefFields(t *testing.T) {
	text := "FINAL_RECOMMENDATIONS\n```json\n" +
		`{"destinations":[{"id":"a","reason":"great food"}],"itinerary":"x"}` +
		"\n```"

	got := ExtractPayload(text)
	if got == nil {
		t.Fatal("expected payload")
	}
	if got.Destinations[0].ID != "a" || got.Destinations[0].Reason != "great food" {
		t.Errorf("ref = %+v", got.Destinations[0])
	}
}

func TestStripPayloadText(t *testing.T) {
	full := "Here is your plan.\n\nFINAL_RECOMMENDATIONS\n```json\n{}\n```"
	if got := StripPayloadText(full); got != "Here is your plan." {
		t.Errorf("StripPayloadText() = %q, want %q", got, "Here is your plan.")
	}

	plain := "No marker in this text"
	if got := StripPayloadText(plain); got != plain {
		t.Errorf("StripPayloadText() changed marker-free text: %q", got)
	}
}

func TestEnrichDestinations_DropsUnknownIds(t *testing.T) {
	catalog := &fakeCatalog{records: []response_models.CatalogDestination{
		{ID: "a", Name: "Hoi An"},
	}}
	svc := NewRecommendationService(catalog, nil)

	refs := []response_models.RecommendedDestinationRef{
		{ID: "a", Reason: "r1"},
		{ID: "b", Reason: "r2"},
	}
	got := svc.EnrichDestinations(context.Background(), refs)

	if len(got) != 1 {
		t.Fatalf("enriched = %v, want exactly the known id", got)
	}
	if got[0].ID != "a" || got[0].Reason != "r1" || got[0].Name != "Hoi An" {
		t.Errorf("enriched[0] = %+v", got[0])
	}
}

func TestEnrichDestinations_CatalogFailure(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("db down")}
	svc := NewRecommendationService(catalog, nil)

	got := svc.EnrichDestinations(context.Background(), []response_models.RecommendedDestinationRef{{ID: "a"}})
	if len(got) != 0 {
		t.Errorf("expected empty result on catalog failure, got %v", got)
	}
}

func TestEnrichDestinations_EmptyRefs(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := NewRecommendationService(catalog, nil)

	got := svc.EnrichDestinations(context.Background(), nil)
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
	if catalog.calls != 0 {
		t.Errorf("catalog fetched %d times for empty refs, want 0", catalog.calls)
	}
}

func TestEnrichDestinations_SingleBulkFetch(t *testing.T) {
	catalog := &fakeCatalog{records: []response_models.CatalogDestination{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B"},
	}}
	svc := NewRecommendationService(catalog, nil)

	refs := []response_models.RecommendedDestinationRef{{ID: "a"}, {ID: "b"}}
	svc.EnrichDestinations(context.Background(), refs)

	if catalog.calls != 1 {
		t.Errorf("catalog fetched %d times, want 1 bulk fetch", catalog.calls)
	}
}

func TestEnrichDestinations_UsesCache(t *testing.T) {
	catalog := &fakeCatalog{records: []response_models.CatalogDestination{{ID: "a", Name: "A"}}}
	svc := NewRecommendationService(catalog, memcache.NewCatalogCache(time.Minute))

	refs := []response_models.RecommendedDestinationRef{{ID: "a"}}
	svc.EnrichDestinations(context.Background(), refs)
	svc.EnrichDestinations(context.Background(), refs)

	if catalog.calls != 1 {
		t.Errorf("catalog fetched %d times, want cached second call", catalog.calls)
	}
}
