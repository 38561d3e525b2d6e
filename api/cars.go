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

type CarHandler struct {
	search  search.SearchUseCase
	booking booking.BookingUseCase
}

func NewCarHandler(searchSvc search.SearchUseCase, bookingSvc booking.BookingUseCase) *CarHandler {
	return &CarHandler{search: searchSvc, booking: bookingSvc}
}

func (h *CarHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/search", h.searchCars)
	router.GET("/:id", h.get)
	router.POST("/:id/book", h.book)
}

func (h *CarHandler) list(c *gin.Context) {
	cars, err := h.search.ListCars(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]carResponse, 0, len(cars))
	for _, car := range cars {
		resp = append(resp, toCarResponse(car))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarHandler) searchCars(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location is required"})
		return
	}
	pickup, err := time.Parse("2006-01-02", c.Query("pickup_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pickup_date must be YYYY-MM-DD"})
		return
	}
	ret, err := time.Parse("2006-01-02", c.Query("return_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "return_date must be YYYY-MM-DD"})
		return
	}
	if !ret.After(pickup) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "return_date must be after pickup_date"})
		return
	}

	cars, err := h.search.SearchCars(c.Request.Context(), repository.CarSearch{
		Location:   location,
		PickupDate: pickup,
		ReturnDate: ret,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]carResponse, 0, len(cars))
	for _, car := range cars {
		resp = append(resp, toCarResponse(car))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	car, err := h.search.GetCar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCarResponse(*car))
}

func (h *CarHandler) book(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req bookStayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	start, end, ok := req.dates()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date must be RFC3339 timestamps"})
		return
	}

	created, err := h.booking.BookItem(c.Request.Context(), booking.BookItemInput{
		ItemType:  domain.ItemTypeCar,
		ItemID:    carID,
		UserID:    userID,
		StartDate: start,
		EndDate:   &end,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(*created))
}
