package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/metrics"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultCASRetries = 3

type BookingUseCase interface {
	BookItem(ctx context.Context, input BookItemInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error
	GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookItemInput struct {
	ItemType  domain.ItemType
	ItemID    uuid.UUID
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   *time.Time
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	hotels             repository.HotelRepository
	cars               repository.CarRepository
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	casRetries         int
	logger             zerolog.Logger
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCASRetries(retries int) BookingServiceOption {
	return func(s *BookingService) {
		if retries > 0 {
			s.casRetries = retries
		}
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	hotels repository.HotelRepository,
	cars repository.CarRepository,
	producer Producer,
	eventsTopic string,
	logger zerolog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		flights:     flights,
		hotels:      hotels,
		cars:        cars,
		producer:    producer,
		eventsTopic: eventsTopic,
		casRetries:  defaultCASRetries,
		logger:      logger.With().Str("component", "booking").Logger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// BookItem validates availability, writes the ledger record, then decrements
// the item's availability with a conditional update. The ledger write comes
// first; a lost availability race removes the record again and surfaces as a
// conflict, so one unit never backs two confirmed bookings.
func (s *BookingService) BookItem(ctx context.Context, input BookItemInput) (*domain.Booking, error) {
	booking, err := s.prepareBooking(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Insert(ctx, booking); err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := s.decrementAvailability(ctx, input.ItemType, input.ItemID); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			if delErr := s.bookings.Delete(ctx, booking.ID); delErr != nil {
				s.logger.Error().Err(delErr).Str("booking_id", booking.ID.String()).Msg("failed to remove booking after lost availability race")
			}
			metrics.BookingConflicts.WithLabelValues(string(input.ItemType)).Inc()
			return nil, err
		}
		// Storage failure after the ledger write: the record stays confirmed
		// against un-decremented inventory. Known degraded state, surfaced.
		s.logger.Error().Err(err).
			Str("booking_id", booking.ID.String()).
			Str("item_id", input.ItemID.String()).
			Msg("availability decrement failed after ledger write")
		return nil, fmt.Errorf("update availability: %w", err)
	}

	metrics.BookingsCreated.WithLabelValues(string(input.ItemType)).Inc()
	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) prepareBooking(ctx context.Context, input BookItemInput) (*domain.Booking, error) {
	booking := &domain.Booking{
		ID:       uuid.New(),
		UserID:   input.UserID,
		ItemType: input.ItemType,
		ItemID:   input.ItemID,
		BookedAt: time.Now().UTC(),
		Status:   domain.BookingStatusConfirmed,
	}

	switch input.ItemType {
	case domain.ItemTypeFlight:
		flight, err := s.flights.GetByID(ctx, input.ItemID)
		if err != nil {
			return nil, err
		}
		if flight.AvailableSeats <= 0 {
			return nil, fmt.Errorf("no seats left on flight %s: %w", input.ItemID, domain.ErrConflict)
		}
		// Flight dates are the flight's own schedule; caller dates are ignored.
		booking.StartDate = flight.DepartureTime
		arrival := flight.ArrivalTime
		booking.EndDate = &arrival
		booking.TotalPriceCents = flight.PriceCents

	case domain.ItemTypeHotel:
		hotel, err := s.hotels.GetByID(ctx, input.ItemID)
		if err != nil {
			return nil, err
		}
		if hotel.AvailableRooms <= 0 {
			return nil, fmt.Errorf("no rooms left in hotel %s: %w", input.ItemID, domain.ErrConflict)
		}
		if input.EndDate == nil || !input.EndDate.After(input.StartDate) {
			return nil, fmt.Errorf("check-out must be after check-in: %w", domain.ErrInvalidArgument)
		}
		nights := domain.WholeDaysBetween(input.StartDate, *input.EndDate)
		booking.StartDate = input.StartDate
		booking.EndDate = input.EndDate
		booking.TotalPriceCents = hotel.PricePerNightCents * int64(nights)

	case domain.ItemTypeCar:
		car, err := s.cars.GetByID(ctx, input.ItemID)
		if err != nil {
			return nil, err
		}
		if !car.IsAvailable {
			return nil, fmt.Errorf("rental car %s is not available: %w", input.ItemID, domain.ErrConflict)
		}
		if input.EndDate == nil || !input.EndDate.After(input.StartDate) {
			return nil, fmt.Errorf("return date must be after pickup date: %w", domain.ErrInvalidArgument)
		}
		days := domain.WholeDaysBetween(input.StartDate, *input.EndDate)
		booking.StartDate = input.StartDate
		booking.EndDate = input.EndDate
		booking.TotalPriceCents = car.PricePerDayCents * int64(days)

	default:
		return nil, fmt.Errorf("unknown item type %q: %w", input.ItemType, domain.ErrInvalidArgument)
	}

	return booking, nil
}

func (s *BookingService) decrementAvailability(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) error {
	for attempt := 0; attempt < s.casRetries; attempt++ {
		var err error
		switch itemType {
		case domain.ItemTypeFlight:
			var flight *domain.Flight
			flight, err = s.flights.GetByID(ctx, itemID)
			if err != nil {
				return err
			}
			if flight.AvailableSeats <= 0 {
				return fmt.Errorf("no seats left on flight %s: %w", itemID, domain.ErrConflict)
			}
			err = s.flights.CompareAndSetSeats(ctx, itemID, flight.AvailableSeats, flight.AvailableSeats-1)

		case domain.ItemTypeHotel:
			var hotel *domain.Hotel
			hotel, err = s.hotels.GetByID(ctx, itemID)
			if err != nil {
				return err
			}
			if hotel.AvailableRooms <= 0 {
				return fmt.Errorf("no rooms left in hotel %s: %w", itemID, domain.ErrConflict)
			}
			err = s.hotels.CompareAndSetRooms(ctx, itemID, hotel.AvailableRooms, hotel.AvailableRooms-1)

		case domain.ItemTypeCar:
			var car *domain.RentalCar
			car, err = s.cars.GetByID(ctx, itemID)
			if err != nil {
				return err
			}
			if !car.IsAvailable {
				return fmt.Errorf("rental car %s is not available: %w", itemID, domain.ErrConflict)
			}
			err = s.cars.CompareAndSetAvailability(ctx, itemID, true, false)
		}

		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		// Lost the conditional update; re-read and try again while units remain.
	}
	return fmt.Errorf("lost availability race on %s %s: %w", itemType, itemID, domain.ErrConflict)
}

// CancelBooking flips a confirmed booking to cancelled and returns exactly one
// unit to the referenced item. Cancelling twice is a conflict, not a no-op.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return fmt.Errorf("booking %s belongs to another user: %w", bookingID, domain.ErrForbidden)
	}
	if booking.Status == domain.BookingStatusCancelled {
		return fmt.Errorf("booking %s is already cancelled: %w", bookingID, domain.ErrConflict)
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, booking.Status, domain.BookingStatusCancelled)
	if err != nil {
		// Conflict here means a concurrent cancel won; only the winner releases
		// the unit back.
		return fmt.Errorf("update booking status: %w", err)
	}

	if err := s.restoreAvailability(ctx, booking.ItemType, booking.ItemID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The item is gone; the cancellation stands on its own.
			s.logger.Info().
				Str("booking_id", bookingID.String()).
				Str("item_id", booking.ItemID.String()).
				Msg("skipping availability restore for removed item")
		} else {
			s.logger.Error().Err(err).
				Str("booking_id", bookingID.String()).
				Str("item_id", booking.ItemID.String()).
				Msg("availability restore failed after cancellation")
			return fmt.Errorf("restore availability: %w", err)
		}
	}

	metrics.BookingsCancelled.WithLabelValues(string(booking.ItemType)).Inc()
	s.publish(ctx, "booking_cancelled", updated)
	return nil
}

func (s *BookingService) restoreAvailability(ctx context.Context, itemType domain.ItemType, itemID uuid.UUID) error {
	switch itemType {
	case domain.ItemTypeFlight:
		return s.flights.ReleaseSeat(ctx, itemID)
	case domain.ItemTypeHotel:
		return s.hotels.ReleaseRoom(ctx, itemID)
	case domain.ItemTypeCar:
		return s.cars.MarkAvailable(ctx, itemID)
	}
	return fmt.Errorf("unknown item type %q: %w", itemType, domain.ErrInvalidArgument)
}

func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID.String(),
		UserID:          booking.UserID.String(),
		ItemType:        string(booking.ItemType),
		ItemID:          booking.ItemID.String(),
		StartDate:       booking.StartDate,
		EndDate:         booking.EndDate,
		TotalPriceCents: booking.TotalPriceCents,
		Status:          string(booking.Status),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.ID.String(), event); err != nil {
		s.logger.Warn().Err(err).Str("booking_id", booking.ID.String()).Msgf("failed to publish %s event", eventType)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID.String(), event); err != nil {
			s.logger.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
