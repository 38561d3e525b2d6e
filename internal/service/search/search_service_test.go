package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock структуры

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Search(ctx context.Context, criteria repository.FlightSearch) ([]domain.Flight, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) CompareAndSetSeats(ctx context.Context, id uuid.UUID, expected, next int) error {
	args := m.Called(ctx, id, expected, next)
	return args.Error(0)
}

func (m *MockFlightRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockHotelRepository struct {
	mock.Mock
}

func (m *MockHotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockHotelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockHotelRepository) Search(ctx context.Context, criteria repository.HotelSearch) ([]domain.Hotel, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockHotelRepository) CompareAndSetRooms(ctx context.Context, id uuid.UUID, expected, next int) error {
	args := m.Called(ctx, id, expected, next)
	return args.Error(0)
}

func (m *MockHotelRepository) ReleaseRoom(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCarRepository struct {
	mock.Mock
}

func (m *MockCarRepository) List(ctx context.Context) ([]domain.RentalCar, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RentalCar), args.Error(1)
}

func (m *MockCarRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RentalCar, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalCar), args.Error(1)
}

func (m *MockCarRepository) Search(ctx context.Context, criteria repository.CarSearch) ([]domain.RentalCar, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalCar), args.Error(1)
}

func (m *MockCarRepository) CompareAndSetAvailability(ctx context.Context, id uuid.UUID, expected, next bool) error {
	args := m.Called(ctx, id, expected, next)
	return args.Error(0)
}

func (m *MockCarRepository) MarkAvailable(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProvider - внешний поставщик, никогда не возвращает ошибку
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) SearchFlights(ctx context.Context, departureCity, arrivalCity string, date time.Time) []domain.Flight {
	args := m.Called(ctx, departureCity, arrivalCity, date)
	return args.Get(0).([]domain.Flight)
}

func (m *MockProvider) SearchHotels(ctx context.Context, city string, checkIn, checkOut time.Time) []domain.Hotel {
	args := m.Called(ctx, city, checkIn, checkOut)
	return args.Get(0).([]domain.Hotel)
}

func (m *MockProvider) SearchCars(ctx context.Context, location string, pickupDate, returnDate time.Time) []domain.RentalCar {
	args := m.Called(ctx, location, pickupDate, returnDate)
	return args.Get(0).([]domain.RentalCar)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSearch(ctx context.Context, kind, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, kind, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetSearch(ctx context.Context, kind, key string, value interface{}) error {
	args := m.Called(ctx, kind, key, value)
	return args.Error(0)
}

func newTestSearchService(
	flights *MockFlightRepository,
	hotels *MockHotelRepository,
	cars *MockCarRepository,
	provider *MockProvider,
) *SearchService {
	return NewSearchService(flights, hotels, cars, provider, nil, zerolog.Nop())
}

// Тест 1: Результаты сливаются - сначала локальные, потом внешние, без дедупликации
func TestSearchService_SearchFlights_MergeOrder(t *testing.T) {
	mockFlights := &MockFlightRepository{}
	mockHotels := &MockHotelRepository{}
	mockCars := &MockCarRepository{}
	mockProvider := &MockProvider{}

	service := newTestSearchService(mockFlights, mockHotels, mockCars, mockProvider)

	ctx := context.Background()
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	criteria := repository.FlightSearch{DepartureCity: "Moscow", ArrivalCity: "Sochi", Date: date}

	localA := domain.Flight{ID: uuid.New(), FlightNumber: "SU100"}
	localB := domain.Flight{ID: uuid.New(), FlightNumber: "SU100"}
	externalC := domain.Flight{ID: uuid.New(), FlightNumber: "SU100"}

	mockFlights.On("Search", mock.Anything, criteria).Return([]domain.Flight{localA, localB}, nil).Once()
	mockProvider.On("SearchFlights", mock.Anything, "Moscow", "Sochi", date).Return([]domain.Flight{externalC}).Once()

	results, err := service.SearchFlights(ctx, criteria)

	assert.NoError(t, err)
	// Одинаковый номер рейса из двух источников - обе записи остаются
	assert.Len(t, results, 3)
	assert.Equal(t, localA.ID, results[0].ID)
	assert.Equal(t, localB.ID, results[1].ID)
	assert.Equal(t, externalC.ID, results[2].ID)
}

// Тест 2: Пустой ответ поставщика не считается ошибкой
func TestSearchService_SearchHotels_EmptyProvider(t *testing.T) {
	mockFlights := &MockFlightRepository{}
	mockHotels := &MockHotelRepository{}
	mockCars := &MockCarRepository{}
	mockProvider := &MockProvider{}

	service := newTestSearchService(mockFlights, mockHotels, mockCars, mockProvider)

	ctx := context.Background()
	checkIn := time.Date(2026, 11, 10, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(48 * time.Hour)
	criteria := repository.HotelSearch{City: "Kazan", CheckIn: checkIn, CheckOut: checkOut}

	local := domain.Hotel{ID: uuid.New(), Name: "Volga Plaza"}
	mockHotels.On("Search", mock.Anything, criteria).Return([]domain.Hotel{local}, nil).Once()
	mockProvider.On("SearchHotels", mock.Anything, "Kazan", checkIn, checkOut).Return([]domain.Hotel{}).Once()

	results, err := service.SearchHotels(ctx, criteria)

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, local.ID, results[0].ID)
}

// Тест 3: Ошибка локального хранилища прерывает поиск
func TestSearchService_SearchCars_StoreError(t *testing.T) {
	mockFlights := &MockFlightRepository{}
	mockHotels := &MockHotelRepository{}
	mockCars := &MockCarRepository{}
	mockProvider := &MockProvider{}

	service := newTestSearchService(mockFlights, mockHotels, mockCars, mockProvider)

	ctx := context.Background()
	pickup := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	ret := pickup.Add(72 * time.Hour)
	criteria := repository.CarSearch{Location: "Sochi", PickupDate: pickup, ReturnDate: ret}

	storeErr := errors.New("connection refused")
	mockCars.On("Search", mock.Anything, criteria).Return(nil, storeErr).Once()
	mockProvider.On("SearchCars", mock.Anything, "Sochi", pickup, ret).Return([]domain.RentalCar{}).Maybe()

	results, err := service.SearchCars(ctx, criteria)

	assert.Nil(t, results)
	assert.ErrorIs(t, err, storeErr)
}

// Тест 4: Попадание в кэш - хранилище и поставщик не вызываются
func TestSearchService_SearchFlights_CacheHit(t *testing.T) {
	mockFlights := &MockFlightRepository{}
	mockHotels := &MockHotelRepository{}
	mockCars := &MockCarRepository{}
	mockProvider := &MockProvider{}
	mockCache := &MockCache{}

	service := NewSearchService(mockFlights, mockHotels, mockCars, mockProvider, mockCache, zerolog.Nop())

	ctx := context.Background()
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	criteria := repository.FlightSearch{DepartureCity: "Moscow", ArrivalCity: "Sochi", Date: date}

	cachedID := uuid.New()
	mockCache.On("GetSearch", ctx, "flights", "moscow|sochi|2026-10-01", mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(3).(*[]domain.Flight)
			*dest = []domain.Flight{{ID: cachedID}}
		}).
		Return(true, nil).Once()

	results, err := service.SearchFlights(ctx, criteria)

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, cachedID, results[0].ID)
	mockFlights.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	mockProvider.AssertNotCalled(t, "SearchFlights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
