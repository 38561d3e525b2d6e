package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TravelProvider is the external search source. Implementations absorb their
// own failures: every method returns what it found, possibly nothing, and
// never an error.
type TravelProvider interface {
	SearchFlights(ctx context.Context, departureCity, arrivalCity string, date time.Time) []domain.Flight
	SearchHotels(ctx context.Context, city string, checkIn, checkOut time.Time) []domain.Hotel
	SearchCars(ctx context.Context, location string, pickupDate, returnDate time.Time) []domain.RentalCar
}

type AmadeusClient struct {
	http       *http.Client
	baseURL    string
	tokenURL   string
	apiKey     string
	apiSecret  string
	maxRetries int
	logger     zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewAmadeusClient(cfg config.ProviderConfig, logger zerolog.Logger) *AmadeusClient {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 2
	}
	return &AmadeusClient{
		http:       &http.Client{Timeout: cfg.Timeout()},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokenURL:   cfg.TokenURL,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		maxRetries: retries,
		logger:     logger.With().Str("component", "provider").Logger(),
	}
}

func (c *AmadeusClient) SearchFlights(ctx context.Context, departureCity, arrivalCity string, date time.Time) []domain.Flight {
	endpoint := fmt.Sprintf("%s/shopping/flight-offers?originLocationCode=%s&destinationLocationCode=%s&departureDate=%s&adults=1",
		c.baseURL, url.QueryEscape(departureCity), url.QueryEscape(arrivalCity), date.Format("2006-01-02"))

	var resp flightOffersResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		c.degrade("flight search failed", err)
		return nil
	}

	flights := make([]domain.Flight, 0)
	for _, offer := range resp.Data {
		priceCents, err := parseCents(offer.Price.Total)
		if err != nil {
			c.logger.Warn().Err(err).Msg("skipping offer with unparsable price")
			continue
		}
		for _, it := range offer.Itineraries {
			if len(it.Segments) == 0 {
				continue
			}
			seg := it.Segments[0]
			dep, err1 := time.Parse("2006-01-02T15:04:05", seg.Departure.At)
			arr, err2 := time.Parse("2006-01-02T15:04:05", seg.Arrival.At)
			if err1 != nil || err2 != nil {
				continue
			}
			flights = append(flights, domain.Flight{
				ID:             uuid.New(),
				FlightNumber:   seg.Number,
				Airline:        seg.CarrierCode,
				DepartureCity:  seg.Departure.IataCode,
				ArrivalCity:    seg.Arrival.IataCode,
				DepartureTime:  dep,
				ArrivalTime:    arr,
				PriceCents:     priceCents,
				AvailableSeats: 10,
			})
		}
	}
	return flights
}

func (c *AmadeusClient) SearchHotels(ctx context.Context, city string, checkIn, checkOut time.Time) []domain.Hotel {
	cityCode := c.cityCode(ctx, city)

	endpoint := fmt.Sprintf("%s/reference-data/locations/hotels/by-city?cityCode=%s", c.baseURL, url.QueryEscape(cityCode))

	var resp hotelOffersResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		c.degrade("hotel search failed", err)
		return nil
	}

	hotels := make([]domain.Hotel, 0)
	for _, data := range resp.Data {
		priceCents := int64(10000)
		if len(data.Offers) > 0 {
			if cents, err := parseCents(data.Offers[0].Price.Total); err == nil {
				priceCents = cents
			}
		}
		rating := 3
		if data.Hotel.Rating != "" {
			if parsed, err := strconv.Atoi(data.Hotel.Rating); err == nil {
				rating = parsed
			}
		}
		addrLine := ""
		if len(data.Hotel.Address.Lines) > 0 {
			addrLine = data.Hotel.Address.Lines[0]
		}
		hotels = append(hotels, domain.Hotel{
			ID:                 uuid.New(),
			Name:               data.Hotel.Name,
			City:               data.Hotel.CityCode,
			Address:            fmt.Sprintf("%s, %s, %s", addrLine, data.Hotel.Address.CityName, data.Hotel.Address.CountryCode),
			StarRating:         rating,
			PricePerNightCents: priceCents,
			AvailableRooms:     5,
			Amenities:          data.Hotel.Amenities,
		})
	}
	return hotels
}

// SearchCars synthesizes a small fleet for the requested location. The
// upstream API has no car rental endpoint.
func (c *AmadeusClient) SearchCars(ctx context.Context, location string, pickupDate, returnDate time.Time) []domain.RentalCar {
	makes := []string{"Toyota", "Honda", "Ford", "Chevrolet", "Nissan", "BMW", "Mercedes", "Audi"}
	models := []string{"Corolla", "Civic", "Focus", "Cruze", "Sentra", "3 Series", "C-Class", "A4"}
	classes := []string{"Economy", "Compact", "Mid-size", "Full-size", "SUV", "Luxury"}

	cars := make([]domain.RentalCar, 0, 10)
	for i := 0; i < 10; i++ {
		cars = append(cars, domain.RentalCar{
			ID:               uuid.New(),
			Make:             makes[rand.Intn(len(makes))],
			Model:            models[rand.Intn(len(models))],
			Class:            classes[rand.Intn(len(classes))],
			Year:             2018 + rand.Intn(6),
			PricePerDayCents: int64(3000+rand.Intn(10000)) + 1000,
			IsAvailable:      true,
			Location:         location,
		})
	}
	return cars
}

func (c *AmadeusClient) cityCode(ctx context.Context, city string) string {
	endpoint := fmt.Sprintf("%s/reference-data/locations?keyword=%s&subType=CITY", c.baseURL, url.QueryEscape(city))

	var resp locationResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil || len(resp.Data) == 0 {
		return city
	}
	return resp.Data[0].IataCode
}

func (c *AmadeusClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.apiKey},
		"client_secret": {c.apiSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}

	c.accessToken = tok.AccessToken
	// Renew a little early so in-flight requests never carry a stale token.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - 30*time.Second)
	return c.accessToken, nil
}

func (c *AmadeusClient) getJSON(ctx context.Context, endpoint string, dest interface{}) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		body, err := c.get(ctx, endpoint)
		if err != nil {
			lastErr = err
			continue
		}
		return json.Unmarshal(body, dest)
	}
	return fmt.Errorf("failed after %d attempts: %w", c.maxRetries, lastErr)
}

func (c *AmadeusClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *AmadeusClient) degrade(msg string, err error) {
	metrics.ProviderDegradations.Inc()
	c.logger.Warn().Err(err).Msg(msg + ", returning empty results")
}

func parseCents(total string) (int64, error) {
	value, err := strconv.ParseFloat(total, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", total, err)
	}
	// Round, don't truncate: 149.99 parses to 149.98999... in binary.
	return int64(math.Round(value * 100)), nil
}

var _ TravelProvider = (*AmadeusClient)(nil)
