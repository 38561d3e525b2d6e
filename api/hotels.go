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

type HotelHandler struct {
	search  search.SearchUseCase
	booking booking.BookingUseCase
}

func NewHotelHandler(searchSvc search.SearchUseCase, bookingSvc booking.BookingUseCase) *HotelHandler {
	return &HotelHandler{search: searchSvc, booking: bookingSvc}
}

func (h *HotelHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/search", h.searchHotels)
	router.GET("/:id", h.get)
	router.POST("/:id/book", h.book)
}

func (h *HotelHandler) list(c *gin.Context) {
	hotels, err := h.search.ListHotels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]hotelResponse, 0, len(hotels))
	for _, hotel := range hotels {
		resp = append(resp, toHotelResponse(hotel))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HotelHandler) searchHotels(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}
	checkIn, err := time.Parse("2006-01-02", c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, err := time.Parse("2006-01-02", c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return
	}
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be after check_in"})
		return
	}

	hotels, err := h.search.SearchHotels(c.Request.Context(), repository.HotelSearch{
		City:     city,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]hotelResponse, 0, len(hotels))
	for _, hotel := range hotels {
		resp = append(resp, toHotelResponse(hotel))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HotelHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	hotel, err := h.search.GetHotel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHotelResponse(*hotel))
}

type bookStayRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (r bookStayRequest) dates() (time.Time, time.Time, bool) {
	start, err := time.Parse(time.RFC3339, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(time.RFC3339, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *HotelHandler) book(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
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
		ItemType:  domain.ItemTypeHotel,
		ItemID:    hotelID,
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
