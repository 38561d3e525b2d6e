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

type HotelSearch struct {
	City     string
	CheckIn  time.Time
	CheckOut time.Time
}

type HotelRepository interface {
	List(ctx context.Context) ([]domain.Hotel, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Hotel, error)
	Search(ctx context.Context, criteria HotelSearch) ([]domain.Hotel, error)
	CompareAndSetRooms(ctx context.Context, id uuid.UUID, expected, next int) error
	ReleaseRoom(ctx context.Context, id uuid.UUID) error
}

type PGHotelRepository struct {
	db DB
}

func NewHotelRepository(db DB) HotelRepository {
	return &PGHotelRepository{db: db}
}

const hotelColumns = `id, name, city, address, star_rating, price_per_night_cents, available_rooms, amenities, created_at, updated_at`

func scanHotel(row pgx.Row) (*domain.Hotel, error) {
	var h domain.Hotel
	err := row.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.StarRating, &h.PricePerNightCents, &h.AvailableRooms, &h.Amenities, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PGHotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.Query(ctx, `SELECT `+hotelColumns+` FROM hotels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hotels := make([]domain.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, *h)
	}
	return hotels, rows.Err()
}

func (r *PGHotelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Hotel, error) {
	row := r.db.QueryRow(ctx, `SELECT `+hotelColumns+` FROM hotels WHERE id=$1`, id)
	h, err := scanHotel(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
	}
	return h, err
}

func (r *PGHotelRepository) Search(ctx context.Context, criteria HotelSearch) ([]domain.Hotel, error) {
	rows, err := r.db.Query(ctx, `SELECT `+hotelColumns+` FROM hotels
		WHERE lower(city)=lower($1)
		  AND available_rooms > 0
		ORDER BY star_rating DESC, name`, criteria.City)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hotels := make([]domain.Hotel, 0)
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		hotels = append(hotels, *h)
	}
	return hotels, rows.Err()
}

func (r *PGHotelRepository) CompareAndSetRooms(ctx context.Context, id uuid.UUID, expected, next int) error {
	if next < 0 {
		return fmt.Errorf("room count must not go negative: %w", domain.ErrConflict)
	}
	res, err := r.db.Exec(ctx, `UPDATE hotels SET available_rooms=$3, updated_at=now() WHERE id=$1 AND available_rooms=$2`, id, expected, next)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("hotel %s rooms changed concurrently: %w", id, domain.ErrConflict)
	}
	return nil
}

func (r *PGHotelRepository) ReleaseRoom(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.Exec(ctx, `UPDATE hotels SET available_rooms = available_rooms + 1, updated_at = now() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("hotel %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

var _ HotelRepository = (*PGHotelRepository)(nil)
