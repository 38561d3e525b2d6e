package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/Domenick1991/travelbooking/internal/service/search"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FlightHandler struct {
	search  search.SearchUseCase
	booking booking.BookingUseCase
}

func NewFlightHandler(searchSvc search.SearchUseCase, bookingSvc booking.BookingUseCase) *FlightHandler {
	return &FlightHandler{search: searchSvc, booking: bookingSvc}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/search", h.searchFlights)
	router.GET("/:id", h.get)
	router.POST("/:id/book", h.book)
}

func (h *FlightHandler) list(c *gin.Context) {
	flights, err := h.search.ListFlights(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]flightResponse, 0, len(flights))
	for _, f := range flights {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) searchFlights(c *gin.Context) {
	departureCity := c.Query("departure_city")
	arrivalCity := c.Query("arrival_city")
	if departureCity == "" || arrivalCity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departure_city and arrival_city are required"})
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	flights, err := h.search.SearchFlights(c.Request.Context(), repository.FlightSearch{
		DepartureCity: departureCity,
		ArrivalCity:   arrivalCity,
		Date:          date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]flightResponse, 0, len(flights))
	for _, f := range flights {
		resp = append(resp, toFlightResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	flight, err := h.search.GetFlight(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

type bookFlightRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *FlightHandler) book(c *gin.Context) {
	flightID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req bookFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	created, err := h.booking.BookItem(c.Request.Context(), booking.BookItemInput{
		ItemType: domain.ItemTypeFlight,
		ItemID:   flightID,
		UserID:   userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(*created))
}
