package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"tripchat/internal/models/db_models"
)

type TripRepository interface {
	Insert(ctx context.Context, trip *db_models.Trip) error
	GetByID(ctx context.Context, id string) (*db_models.Trip, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{
		db: db,
	}
}

func (t *tripRepository) Insert(ctx context.Context, trip *db_models.Trip) error {
	return t.db.WithContext(ctx).Create(trip).Error
}

func (t *tripRepository) GetByID(ctx context.Context, id string) (*db_models.Trip, error) {
	var trip db_models.Trip
	err := t.db.WithContext(ctx).First(&trip, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &trip, nil
}

func (t *tripRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Trip, error) {
	var trips []db_models.Trip
	err := t.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (t *tripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return t.db.WithContext(ctx).Delete(&db_models.Trip{}, "id = ?", id).Error
}
