package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"tripchat/internal/models/db_models"
)

type DestinationRepository interface {
	ListAll(ctx context.Context) ([]db_models.Destination, error)
	GetByID(ctx context.Context, id string) (*db_models.Destination, error)
	SearchByName(ctx context.Context, name string) ([]db_models.Destination, error)
	ListByIds(ctx context.Context, ids []string) ([]db_models.Destination, error)
	Create(ctx context.Context, destination *db_models.Destination) error
}

type destinationRepository struct {
	db *gorm.DB
}

func NewDestinationRepository(db *gorm.DB) DestinationRepository {
	return &destinationRepository{
		db: db,
	}
}

func (d *destinationRepository) ListAll(ctx context.Context) ([]db_models.Destination, error) {
	var destinations []db_models.Destination
	if err := d.db.WithContext(ctx).Order("name asc").Find(&destinations).Error; err != nil {
		return nil, err
	}
	return destinations, nil
}

func (d *destinationRepository) GetByID(ctx context.Context, id string) (*db_models.Destination, error) {
	var destination db_models.Destination
	err := d.db.WithContext(ctx).First(&destination, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &destination, nil
}

func (d *destinationRepository) SearchByName(ctx context.Context, name string) ([]db_models.Destination, error) {
	var destinations []db_models.Destination
	err := d.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+name+"%").
		Order("rating desc").
		Find(&destinations).Error
	if err != nil {
		return nil, err
	}
	return destinations, nil
}

func (d *destinationRepository) ListByIds(ctx context.Context, ids []string) ([]db_models.Destination, error) {
	var destinations []db_models.Destination
	if len(ids) == 0 {
		return destinations, nil
	}
	err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&destinations).Error
	if err != nil {
		return nil, err
	}
	return destinations, nil
}

func (d *destinationRepository) Create(ctx context.Context, destination *db_models.Destination) error {
	return d.db.WithContext(ctx).Create(destination).Error
}
