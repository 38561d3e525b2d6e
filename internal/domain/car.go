package domain

import (
	"time"

	"github.com/google/uuid"
)

type RentalCar struct {
	ID               uuid.UUID
	Make             string
	Model            string
	Class            string
	Year             int
	PricePerDayCents int64
	IsAvailable      bool
	Location         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
