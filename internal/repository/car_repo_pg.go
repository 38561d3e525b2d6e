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

type CarSearch struct {
	Location   string
	PickupDate time.Time
	ReturnDate time.Time
}

type CarRepository interface {
	List(ctx context.Context) ([]domain.RentalCar, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RentalCar, error)
	Search(ctx context.Context, criteria CarSearch) ([]domain.RentalCar, error)
	CompareAndSetAvailability(ctx context.Context, id uuid.UUID, expected, next bool) error
	MarkAvailable(ctx context.Context, id uuid.UUID) error
}

type PGCarRepository struct {
	db DB
}

func NewCarRepository(db DB) CarRepository {
	return &PGCarRepository{db: db}
}

const carColumns = `id, make, model, class, year, price_per_day_cents, is_available, location, created_at, updated_at`

func scanCar(row pgx.Row) (*domain.RentalCar, error) {
	var c domain.RentalCar
	err := row.Scan(&c.ID, &c.Make, &c.Model, &c.Class, &c.Year, &c.PricePerDayCents, &c.IsAvailable, &c.Location, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGCarRepository) List(ctx context.Context) ([]domain.RentalCar, error) {
	rows, err := r.db.Query(ctx, `SELECT `+carColumns+` FROM rental_cars ORDER BY make, model`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]domain.RentalCar, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}

func (r *PGCarRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RentalCar, error) {
	row := r.db.QueryRow(ctx, `SELECT `+carColumns+` FROM rental_cars WHERE id=$1`, id)
	c, err := scanCar(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("rental car %s: %w", id, domain.ErrNotFound)
	}
	return c, err
}

func (r *PGCarRepository) Search(ctx context.Context, criteria CarSearch) ([]domain.RentalCar, error) {
	rows, err := r.db.Query(ctx, `SELECT `+carColumns+` FROM rental_cars
		WHERE lower(location)=lower($1)
		  AND is_available
		ORDER BY make, model`, criteria.Location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]domain.RentalCar, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}

func (r *PGCarRepository) CompareAndSetAvailability(ctx context.Context, id uuid.UUID, expected, next bool) error {
	res, err := r.db.Exec(ctx, `UPDATE rental_cars SET is_available=$3, updated_at=now() WHERE id=$1 AND is_available=$2`, id, expected, next)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("rental car %s availability changed concurrently: %w", id, domain.ErrConflict)
	}
	return nil
}

func (r *PGCarRepository) MarkAvailable(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.Exec(ctx, `UPDATE rental_cars SET is_available=true, updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("rental car %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

var _ CarRepository = (*PGCarRepository)(nil)
