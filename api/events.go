package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/evgall/ticketline/internal/domain"
	"github.com/evgall/ticketline/internal/service/booking"
	"github.com/evgall/ticketline/internal/service/events"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	bookings booking.BookingUseCase
	events   events.EventUseCase
}

type initializeRequest struct {
	Name         string `json:"name" binding:"required"`
	TotalTickets int    `json:"total_tickets" binding:"required,gt=0"`
}

type bookRequest struct {
	EventID string `json:"event_id" binding:"required"`
}

type cancelRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

type eventResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	TotalTickets     int    `json:"total_tickets"`
	AvailableTickets int    `json:"available_tickets"`
	CreatedAt        string `json:"created_at"`
}

type bookingResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	EventID   string `json:"event_id"`
	Status    string `json:"status"`
	Replacing bool   `json:"replacing"`
	CreatedAt string `json:"created_at"`
}

type waitlistResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	EventID   string `json:"event_id"`
	CreatedAt string `json:"created_at"`
}

func NewEventHandler(bookings booking.BookingUseCase, events events.EventUseCase) *EventHandler {
	return &EventHandler{bookings: bookings, events: events}
}

func (h *EventHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/events", h.list)
	router.GET("/status/:eventId", h.status)
	router.POST("/initialize", auth, h.initialize)
	router.POST("/book", auth, h.book)
	router.POST("/cancel", auth, h.cancel)
	router.GET("/events/:eventId/bookings", auth, h.listBookings)
	router.GET("/events/:eventId/waitlists", auth, h.listWaitlists)
}

func (h *EventHandler) initialize(c *gin.Context) {
	var req initializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.bookings.InitializeEvent(c.Request.Context(), req.Name, req.TotalTickets)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, eventResponse{
		ID:               event.ID,
		Name:             event.Name,
		TotalTickets:     event.TotalTickets,
		AvailableTickets: event.AvailableTickets,
		CreatedAt:        event.CreatedAt.Format(time.RFC3339),
	})
}

func (h *EventHandler) book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.bookings.Book(c.Request.Context(), c.GetString(userIDKey), req.EventID)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Outcome == booking.OutcomeBooked {
		c.JSON(http.StatusCreated, gin.H{
			"outcome": result.Outcome,
			"booking": toBookingResponse(result.Booking),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"outcome": result.Outcome,
		"waitlist": waitlistResponse{
			ID:        result.Waitlist.ID,
			UserID:    result.Waitlist.UserID,
			EventID:   result.Waitlist.EventID,
			CreatedAt: result.Waitlist.CreatedAt.Format(time.RFC3339),
		},
	})
}

func (h *EventHandler) cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.bookings.Cancel(c.Request.Context(), c.GetString(userIDKey), req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"outcome": "cancelled", "promoted": result.Promoted}
	if result.Replacement != nil {
		resp["replacement"] = toBookingResponse(result.Replacement)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) status(c *gin.Context) {
	status, err := h.bookings.Status(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *EventHandler) listBookings(c *gin.Context) {
	page, limit := pageParams(c)
	items, pagination, err := h.bookings.Bookings(c.Request.Context(), c.Param("eventId"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]bookingResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toBookingResponse(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": responses, "pagination": pagination})
}

func (h *EventHandler) listWaitlists(c *gin.Context) {
	page, limit := pageParams(c)
	items, pagination, err := h.bookings.Waitlists(c.Request.Context(), c.Param("eventId"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]waitlistResponse, 0, len(items))
	for _, e := range items {
		responses = append(responses, waitlistResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			EventID:   e.EventID,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": responses, "pagination": pagination})
}

func (h *EventHandler) list(c *gin.Context) {
	items, err := h.events.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]eventResponse, 0, len(items))
	for _, e := range items {
		responses = append(responses, eventResponse{
			ID:               e.ID,
			Name:             e.Name,
			TotalTickets:     e.TotalTickets,
			AvailableTickets: e.AvailableTickets,
			CreatedAt:        e.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": responses})
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		EventID:   b.EventID,
		Status:    string(b.Status),
		Replacing: b.Replacing,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
