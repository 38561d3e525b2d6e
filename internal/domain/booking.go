package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type ItemType string

const (
	ItemTypeFlight ItemType = "flight"
	ItemTypeHotel  ItemType = "hotel"
	ItemTypeCar    ItemType = "car"
)

type Booking struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ItemType        ItemType
	ItemID          uuid.UUID
	BookedAt        time.Time
	StartDate       time.Time
	EndDate         *time.Time
	TotalPriceCents int64
	Status          BookingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WholeDaysBetween counts elapsed whole 24-hour periods, truncating any
// fraction. A range shorter than a day counts as zero.
func WholeDaysBetween(start, end time.Time) int {
	return int(end.Sub(start) / (24 * time.Hour))
}
