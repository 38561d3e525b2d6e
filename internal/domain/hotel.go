package domain

import (
	"time"

	"github.com/google/uuid"
)

type Hotel struct {
	ID                 uuid.UUID
	Name               string
	City               string
	Address            string
	StarRating         int
	PricePerNightCents int64
	AvailableRooms     int
	Amenities          []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
