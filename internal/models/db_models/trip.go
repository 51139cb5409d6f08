package db_models

import "github.com/google/uuid"

// Trip is a saved itinerary. The recommendation payload is stored as an
// opaque JSON blob; callers go through TripService and never touch the format.
type Trip struct {
	BaseModel
	AccountID uuid.UUID `gorm:"type:uuid;index"`
	Title     string
	Summary   string
	Itinerary string `gorm:"type:text"`
	Payload   string `gorm:"type:text"`
}
