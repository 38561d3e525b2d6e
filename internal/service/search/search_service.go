package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/provider"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type SearchUseCase interface {
	SearchFlights(ctx context.Context, criteria repository.FlightSearch) ([]domain.Flight, error)
	SearchHotels(ctx context.Context, criteria repository.HotelSearch) ([]domain.Hotel, error)
	SearchCars(ctx context.Context, criteria repository.CarSearch) ([]domain.RentalCar, error)
	ListFlights(ctx context.Context) ([]domain.Flight, error)
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	ListCars(ctx context.Context) ([]domain.RentalCar, error)
	GetFlight(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	GetHotel(ctx context.Context, id uuid.UUID) (*domain.Hotel, error)
	GetCar(ctx context.Context, id uuid.UUID) (*domain.RentalCar, error)
}

type Cache interface {
	GetSearch(ctx context.Context, kind, key string, dest interface{}) (bool, error)
	SetSearch(ctx context.Context, kind, key string, value interface{}) error
}

type SearchService struct {
	flights  repository.FlightRepository
	hotels   repository.HotelRepository
	cars     repository.CarRepository
	provider provider.TravelProvider
	cache    Cache
	logger   zerolog.Logger
}

func NewSearchService(
	flights repository.FlightRepository,
	hotels repository.HotelRepository,
	cars repository.CarRepository,
	travelProvider provider.TravelProvider,
	cache Cache,
	logger zerolog.Logger,
) *SearchService {
	return &SearchService{
		flights:  flights,
		hotels:   hotels,
		cars:     cars,
		provider: travelProvider,
		cache:    cache,
		logger:   logger.With().Str("component", "search").Logger(),
	}
}

// SearchFlights merges locally held flights with provider results, local
// first, external after, each source keeping its own order. No
// de-duplication across sources.
func (s *SearchService) SearchFlights(ctx context.Context, criteria repository.FlightSearch) ([]domain.Flight, error) {
	key := cacheKey(criteria.DepartureCity, criteria.ArrivalCity, criteria.Date.Format("2006-01-02"))
	if s.cache != nil {
		var cached []domain.Flight
		if ok, err := s.cache.GetSearch(ctx, "flights", key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	var local, external []domain.Flight
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = s.flights.Search(gctx, criteria)
		return err
	})
	g.Go(func() error {
		external = s.provider.SearchFlights(gctx, criteria.DepartureCity, criteria.ArrivalCity, criteria.Date)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}

	merged := append(local, external...)
	s.storeInCache(ctx, "flights", key, merged)
	return merged, nil
}

func (s *SearchService) SearchHotels(ctx context.Context, criteria repository.HotelSearch) ([]domain.Hotel, error) {
	key := cacheKey(criteria.City, criteria.CheckIn.Format("2006-01-02"), criteria.CheckOut.Format("2006-01-02"))
	if s.cache != nil {
		var cached []domain.Hotel
		if ok, err := s.cache.GetSearch(ctx, "hotels", key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	var local, external []domain.Hotel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = s.hotels.Search(gctx, criteria)
		return err
	})
	g.Go(func() error {
		external = s.provider.SearchHotels(gctx, criteria.City, criteria.CheckIn, criteria.CheckOut)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search hotels: %w", err)
	}

	merged := append(local, external...)
	s.storeInCache(ctx, "hotels", key, merged)
	return merged, nil
}

func (s *SearchService) SearchCars(ctx context.Context, criteria repository.CarSearch) ([]domain.RentalCar, error) {
	key := cacheKey(criteria.Location, criteria.PickupDate.Format("2006-01-02"), criteria.ReturnDate.Format("2006-01-02"))
	if s.cache != nil {
		var cached []domain.RentalCar
		if ok, err := s.cache.GetSearch(ctx, "cars", key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	var local, external []domain.RentalCar
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = s.cars.Search(gctx, criteria)
		return err
	})
	g.Go(func() error {
		external = s.provider.SearchCars(gctx, criteria.Location, criteria.PickupDate, criteria.ReturnDate)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search cars: %w", err)
	}

	merged := append(local, external...)
	s.storeInCache(ctx, "cars", key, merged)
	return merged, nil
}

// List* read the local inventory only; the provider is queried per search
// criteria, not for full listings.
func (s *SearchService) ListFlights(ctx context.Context) ([]domain.Flight, error) {
	return s.flights.List(ctx)
}

func (s *SearchService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.hotels.List(ctx)
}

func (s *SearchService) ListCars(ctx context.Context) ([]domain.RentalCar, error) {
	return s.cars.List(ctx)
}

func (s *SearchService) GetFlight(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func (s *SearchService) GetHotel(ctx context.Context, id uuid.UUID) (*domain.Hotel, error) {
	return s.hotels.GetByID(ctx, id)
}

func (s *SearchService) GetCar(ctx context.Context, id uuid.UUID) (*domain.RentalCar, error) {
	return s.cars.GetByID(ctx, id)
}

func (s *SearchService) storeInCache(ctx context.Context, kind, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSearch(ctx, kind, key, value); err != nil {
		s.logger.Warn().Err(err).Str("kind", kind).Msg("failed to cache search results")
	}
}

func cacheKey(parts ...string) string {
	return strings.ToLower(strings.Join(parts, "|"))
}

var _ SearchUseCase = (*SearchService)(nil)
