package domain

import (
	"time"

	"github.com/google/uuid"
)

type Flight struct {
	ID             uuid.UUID
	FlightNumber   string
	Airline        string
	DepartureCity  string
	ArrivalCity    string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	PriceCents     int64
	AvailableSeats int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
