package services

import (
	"context"
	"log"

	"tripchat/internal/models/db_models"
	"tripchat/internal/models/response_models"
	"tripchat/internal/repositories"
	"tripchat/pkg/utils"
)

type DestinationServiceInterface interface {
	ListDestinations(ctx context.Context) ([]response_models.CatalogDestination, error)
	GetDestinationByID(ctx context.Context, id string) (response_models.CatalogDestination, error)
	SearchDestinations(ctx context.Context, name string) ([]response_models.CatalogDestination, error)
	PromptCandidates(ctx context.Context, query string, limit int) ([]response_models.CatalogDestination, error)
}

type DestinationService struct {
	destinationRepo repositories.DestinationRepository
	embeddingRepo   repositories.IDestinationEmbeddingRepository
	embeddingClient utils.EmbeddingClientInterface
}

func NewDestinationService(
	destinationRepo repositories.DestinationRepository,
	embeddingRepo repositories.IDestinationEmbeddingRepository,
	embeddingClient utils.EmbeddingClientInterface,
) DestinationServiceInterface {
	return &DestinationService{
		destinationRepo: destinationRepo,
		embeddingRepo:   embeddingRepo,
		embeddingClient: embeddingClient,
	}
}

func (d *DestinationService) ListDestinations(ctx context.Context) ([]response_models.CatalogDestination, error) {
	destinations, err := d.destinationRepo.ListAll(ctx)
	if err != nil {
		log.Printf("Error listing destinations: %v", err)
		return nil, utils.ErrDatabaseError
	}
	return toCatalogDestinations(destinations), nil
}

func (d *DestinationService) GetDestinationByID(ctx context.Context, id string) (response_models.CatalogDestination, error) {
	destination, err := d.destinationRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("Error fetching destination: %v", err)
		return response_models.CatalogDestination{}, utils.ErrDatabaseError
	}
	if destination == nil {
		return response_models.CatalogDestination{}, utils.ErrDestinationNotFound
	}
	return toCatalogDestination(*destination), nil
}

func (d *DestinationService) SearchDestinations(ctx context.Context, name string) ([]response_models.CatalogDestination, error) {
	destinations, err := d.destinationRepo.SearchByName(ctx, name)
	if err != nil {
		log.Printf("Error searching destinations: %v", err)
		return nil, utils.ErrDatabaseError
	}
	return toCatalogDestinations(destinations), nil
}

// PromptCandidates picks the catalog subset that goes into the model's system
// instruction: nearest by embedding to the user's query, falling back to the
// whole catalog when vector search has nothing.
func (d *DestinationService) PromptCandidates(ctx context.Context, query string, limit int) ([]response_models.CatalogDestination, error) {
	if candidates := d.candidatesByEmbedding(ctx, query, limit); len(candidates) > 0 {
		return candidates, nil
	}

	all, err := d.ListDestinations(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (d *DestinationService) candidatesByEmbedding(ctx context.Context, query string, limit int) []response_models.CatalogDestination {
	vector, err := d.embeddingClient.GetEmbedding(ctx, query)
	if err != nil {
		log.Printf("Embedding lookup failed, falling back to full catalog: %v", err)
		return nil
	}

	embedded, err := d.embeddingRepo.GetNearestByVector(vector, limit)
	if err != nil || len(embedded) == 0 {
		return nil
	}

	ids := make([]string, 0, len(embedded))
	for _, e := range embedded {
		ids = append(ids, e.DestinationID.String())
	}

	destinations, err := d.destinationRepo.ListByIds(ctx, ids)
	if err != nil {
		log.Printf("Error resolving embedded destinations: %v", err)
		return nil
	}
	return toCatalogDestinations(destinations)
}

func toCatalogDestination(d db_models.Destination) response_models.CatalogDestination {
	return response_models.CatalogDestination{
		ID:          d.ID.String(),
		Name:        d.Name,
		Location:    d.Location,
		Description: d.Description,
		Price:       d.Price,
		Rating:      d.Rating,
		Categories:  d.Categories,
		ImageURL:    d.ImageURL,
	}
}

func toCatalogDestinations(destinations []db_models.Destination) []response_models.CatalogDestination {
	out := make([]response_models.CatalogDestination, 0, len(destinations))
	for _, d := range destinations {
		out = append(out, toCatalogDestination(d))
	}
	return out
}
