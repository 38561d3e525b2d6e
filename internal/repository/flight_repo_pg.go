package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type FlightSearch struct {
	DepartureCity string
	ArrivalCity   string
	Date          time.Time
}

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	Search(ctx context.Context, criteria FlightSearch) ([]domain.Flight, error)
	CompareAndSetSeats(ctx context.Context, id uuid.UUID, expected, next int) error
	ReleaseSeat(ctx context.Context, id uuid.UUID) error
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, departure_city, arrival_city, departure_time, arrival_time, price_cents, available_seats, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.DepartureTime, &f.ArrivalTime, &f.PriceCents, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	f, err := scanFlight(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("flight %s: %w", id, domain.ErrNotFound)
	}
	return f, err
}

func (r *PGFlightRepository) Search(ctx context.Context, criteria FlightSearch) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE lower(departure_city)=lower($1)
		  AND lower(arrival_city)=lower($2)
		  AND departure_time::date=$3::date
		  AND available_seats > 0
		ORDER BY departure_time`, criteria.DepartureCity, criteria.ArrivalCity, criteria.Date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

// CompareAndSetSeats succeeds only when the stored seat count still equals
// expected, so a concurrent decrement makes the caller lose with ErrConflict.
func (r *PGFlightRepository) CompareAndSetSeats(ctx context.Context, id uuid.UUID, expected, next int) error {
	if next < 0 {
		return fmt.Errorf("seat count must not go negative: %w", domain.ErrConflict)
	}
	res, err := r.db.Exec(ctx, `UPDATE flights SET available_seats=$3, updated_at=now() WHERE id=$1 AND available_seats=$2`, id, expected, next)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("flight %s seats changed concurrently: %w", id, domain.ErrConflict)
	}
	return nil
}

func (r *PGFlightRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET available_seats = available_seats + 1, updated_at = now() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("flight %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
