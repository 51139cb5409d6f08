package repositories

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"tripchat/internal/models/db_models"
)

type IDestinationEmbeddingRepository interface {
	GetNearestByVector(vector pgvector.Vector, limit int) ([]db_models.DestinationEmbedding, error)
	CreateEmbedding(embedding db_models.DestinationEmbedding) error
}

type DestinationEmbeddingRepository struct {
	db *gorm.DB
}

func NewDestinationEmbeddingRepository(db *gorm.DB) IDestinationEmbeddingRepository {
	return &DestinationEmbeddingRepository{
		db: db,
	}
}

func (d *DestinationEmbeddingRepository) GetNearestByVector(vector pgvector.Vector, limit int) ([]db_models.DestinationEmbedding, error) {
	var results []db_models.DestinationEmbedding

	if limit <= 0 {
		limit = 15
	}

	vecStr := vector.String()

	query := `
        SELECT *
        FROM destination_embeddings
        ORDER BY embedding <=> $1
        LIMIT $2
    `

	if err := d.db.Raw(query, vecStr, limit).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (d *DestinationEmbeddingRepository) CreateEmbedding(embedding db_models.DestinationEmbedding) error {
	return d.db.Create(&embedding).Error
}
