package db_models

import (
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/google/uuid"
)

// Destination is a catalog entry the chat pipeline recommends from.
type Destination struct {
	BaseModel
	Name        string
	Location    string
	Description string
	Price       float64
	Rating      float64
	Categories  pq.StringArray `gorm:"type:text[]"`
	ImageURL    string

	Embedding DestinationEmbedding `gorm:"foreignKey:DestinationID"`
}

// DestinationEmbedding holds the vector used for relevance search when
// building the model prompt.
type DestinationEmbedding struct {
	BaseModel
	DestinationID uuid.UUID       `gorm:"type:uuid;index"`
	Embedding     pgvector.Vector `gorm:"type:vector(1536)"`
}
