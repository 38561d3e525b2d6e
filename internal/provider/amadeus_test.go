package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*AmadeusClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewAmadeusClient(config.ProviderConfig{
		BaseURL:        srv.URL,
		TokenURL:       srv.URL + "/oauth2/token",
		APIKey:         "key",
		APISecret:      "secret",
		TimeoutSeconds: 2,
		MaxRetries:     1,
	}, zerolog.Nop())
	return client, srv
}

// Тест 1: Предложения рейсов преобразуются в доменные структуры
func TestAmadeusClient_SearchFlights(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			w.Write([]byte(`{"access_token":"tok","expires_in":1799}`))
		case "/shopping/flight-offers":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Write([]byte(`{
				"data": [{
					"price": {"total": "123.45", "currency": "EUR"},
					"itineraries": [{
						"segments": [{
							"number": "4011",
							"carrierCode": "AF",
							"departure": {"iataCode": "CDG", "at": "2026-10-01T08:00:00"},
							"arrival": {"iataCode": "JFK", "at": "2026-10-01T11:30:00"}
						}]
					}]
				}]
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	flights := client.SearchFlights(context.Background(), "Paris", "New York", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))

	assert.Len(t, flights, 1)
	assert.Equal(t, "4011", flights[0].FlightNumber)
	assert.Equal(t, "AF", flights[0].Airline)
	assert.Equal(t, "CDG", flights[0].DepartureCity)
	assert.Equal(t, "JFK", flights[0].ArrivalCity)
	assert.Equal(t, int64(12345), flights[0].PriceCents)
	assert.Equal(t, 10, flights[0].AvailableSeats)
}

// Тест 2: Любой сбой поставщика превращается в пустой результат
func TestAmadeusClient_SearchFlights_UpstreamFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth2/token" {
			w.Write([]byte(`{"access_token":"tok","expires_in":1799}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	flights := client.SearchFlights(context.Background(), "Paris", "New York", time.Now())
	assert.Empty(t, flights)
}

// Тест 3: Недоступный token endpoint тоже не ошибка для вызывающего
func TestAmadeusClient_SearchHotels_TokenFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	hotels := client.SearchHotels(context.Background(), "Paris", time.Now(), time.Now().Add(48*time.Hour))
	assert.Empty(t, hotels)
}

// Тест 4: Токен кэшируется между запросами
func TestAmadeusClient_TokenReuse(t *testing.T) {
	tokenCalls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth2/token":
			tokenCalls++
			w.Write([]byte(`{"access_token":"tok","expires_in":1799}`))
		default:
			w.Write([]byte(`{"data": []}`))
		}
	})

	ctx := context.Background()
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	client.SearchFlights(ctx, "Paris", "Rome", date)
	client.SearchFlights(ctx, "Paris", "Rome", date)

	assert.Equal(t, 1, tokenCalls)
}

// Тест 5: Цены с дробными центами не теряют копейку на округлении
func TestParseCents(t *testing.T) {
	testCases := []struct {
		total    string
		expected int64
	}{
		{total: "149.99", expected: 14999},
		{total: "123.45", expected: 12345},
		{total: "0.10", expected: 10},
		{total: "1000", expected: 100000},
	}
	for _, tc := range testCases {
		cents, err := parseCents(tc.total)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, cents, "total %s", tc.total)
	}

	_, err := parseCents("abc")
	assert.Error(t, err)
}

// Тест 6: Автопарк синтезируется локально для запрошенной локации
func TestAmadeusClient_SearchCars(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("car search must not call upstream")
	})

	cars := client.SearchCars(context.Background(), "Sochi", time.Now(), time.Now().Add(72*time.Hour))

	assert.Len(t, cars, 10)
	for _, car := range cars {
		assert.Equal(t, "Sochi", car.Location)
		assert.True(t, car.IsAvailable)
		assert.Greater(t, car.PricePerDayCents, int64(0))
	}
}
