package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"tripchat/internal/models/db_models"
	"tripchat/internal/models/request_models"
	"tripchat/internal/repositories"
	"tripchat/pkg/utils"
)

type TripServiceInterface interface {
	SaveTrip(ctx context.Context, accountID uuid.UUID, request request_models.SaveTripRequest) (string, error)
	GetTrip(ctx context.Context, accountID uuid.UUID, tripID string) (*db_models.Trip, error)
	ListTrips(ctx context.Context, accountID uuid.UUID) ([]db_models.Trip, error)
	DeleteTrip(ctx context.Context, accountID uuid.UUID, tripID string) error
}

type TripService struct {
	tripRepo repositories.TripRepository
}

func NewTripService(tripRepo repositories.TripRepository) TripServiceInterface {
	return &TripService{
		tripRepo: tripRepo,
	}
}

func (t *TripService) SaveTrip(ctx context.Context, accountID uuid.UUID, request request_models.SaveTripRequest) (string, error) {
	trip := &db_models.Trip{
		AccountID: accountID,
		Title:     request.Title,
		Summary:   request.Summary,
		Itinerary: request.Itinerary,
		Payload:   request.Payload,
	}

	if err := t.tripRepo.Insert(ctx, trip); err != nil {
		log.Printf("Error saving trip: %v", err)
		return "", utils.ErrDatabaseError
	}

	return trip.ID.String(), nil
}

func (t *TripService) GetTrip(ctx context.Context, accountID uuid.UUID, tripID string) (*db_models.Trip, error) {
	trip, err := t.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		log.Printf("Error fetching trip: %v", err)
		return nil, utils.ErrDatabaseError
	}
	if trip == nil || trip.AccountID != accountID {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

func (t *TripService) ListTrips(ctx context.Context, accountID uuid.UUID) ([]db_models.Trip, error) {
	trips, err := t.tripRepo.ListByAccount(ctx, accountID)
	if err != nil {
		log.Printf("Error listing trips: %v", err)
		return nil, utils.ErrDatabaseError
	}
	return trips, nil
}

func (t *TripService) DeleteTrip(ctx context.Context, accountID uuid.UUID, tripID string) error {
	trip, err := t.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		log.Printf("Error fetching trip: %v", err)
		return utils.ErrDatabaseError
	}
	if trip == nil || trip.AccountID != accountID {
		return utils.ErrTripNotFound
	}

	if err := t.tripRepo.Delete(ctx, trip.ID); err != nil {
		log.Printf("Error deleting trip: %v", err)
		return utils.ErrDatabaseError
	}
	return nil
}
