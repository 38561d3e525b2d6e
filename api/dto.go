package api

import (
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type flightResponse struct {
	ID             string `json:"id"`
	FlightNumber   string `json:"flight_number"`
	Airline        string `json:"airline"`
	DepartureCity  string `json:"departure_city"`
	ArrivalCity    string `json:"arrival_city"`
	DepartureTime  string `json:"departure_time"`
	ArrivalTime    string `json:"arrival_time"`
	PriceCents     int64  `json:"price_cents"`
	AvailableSeats int    `json:"available_seats"`
}

func toFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{
		ID:             f.ID.String(),
		FlightNumber:   f.FlightNumber,
		Airline:        f.Airline,
		DepartureCity:  f.DepartureCity,
		ArrivalCity:    f.ArrivalCity,
		DepartureTime:  f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:    f.ArrivalTime.Format(time.RFC3339),
		PriceCents:     f.PriceCents,
		AvailableSeats: f.AvailableSeats,
	}
}

type hotelResponse struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	City               string   `json:"city"`
	Address            string   `json:"address"`
	StarRating         int      `json:"star_rating"`
	PricePerNightCents int64    `json:"price_per_night_cents"`
	AvailableRooms     int      `json:"available_rooms"`
	Amenities          []string `json:"amenities"`
}

func toHotelResponse(h domain.Hotel) hotelResponse {
	return hotelResponse{
		ID:                 h.ID.String(),
		Name:               h.Name,
		City:               h.City,
		Address:            h.Address,
		StarRating:         h.StarRating,
		PricePerNightCents: h.PricePerNightCents,
		AvailableRooms:     h.AvailableRooms,
		Amenities:          h.Amenities,
	}
}

type carResponse struct {
	ID               string `json:"id"`
	Make             string `json:"make"`
	Model            string `json:"model"`
	Class            string `json:"class"`
	Year             int    `json:"year"`
	PricePerDayCents int64  `json:"price_per_day_cents"`
	IsAvailable      bool   `json:"is_available"`
	Location         string `json:"location"`
}

func toCarResponse(c domain.RentalCar) carResponse {
	return carResponse{
		ID:               c.ID.String(),
		Make:             c.Make,
		Model:            c.Model,
		Class:            c.Class,
		Year:             c.Year,
		PricePerDayCents: c.PricePerDayCents,
		IsAvailable:      c.IsAvailable,
		Location:         c.Location,
	}
}

type bookingResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	ItemType        string  `json:"item_type"`
	ItemID          string  `json:"item_id"`
	BookedAt        string  `json:"booked_at"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date,omitempty"`
	TotalPriceCents int64   `json:"total_price_cents"`
	Status          string  `json:"status"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:              b.ID.String(),
		UserID:          b.UserID.String(),
		ItemType:        string(b.ItemType),
		ItemID:          b.ItemID.String(),
		BookedAt:        b.BookedAt.Format(time.RFC3339),
		StartDate:       b.StartDate.Format(time.RFC3339),
		TotalPriceCents: b.TotalPriceCents,
		Status:          string(b.Status),
	}
	if b.EndDate != nil {
		end := b.EndDate.Format(time.RFC3339)
		resp.EndDate = &end
	}
	return resp
}
