package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"lodgebooking/internal/domain"
	"lodgebooking/internal/pkg/response"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// RegisterPublicRoutes mounts the endpoints that need no member session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/calendar", h.Calendar)
	rg.GET("/calendar/ws", h.CalendarWS)
	rg.GET("/availability", h.Availability)
	rg.GET("/rooms", h.Rooms)
	rg.GET("/seasons", h.Seasons)
}

// RegisterRoutes mounts the member-session endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/quote", h.Quote)
	rg.GET("/bookings/mine", h.MyBookings)
	rg.POST("/bookings", h.CreateBooking)
	rg.POST("/bookings/:id/submit", h.Submit)
	rg.POST("/bookings/:id/cancel", h.Cancel)
}

func (h *Handler) Availability(c *gin.Context) {
	arrival, departure, ok := h.dateRangeQuery(c, "arrival", "departure")
	if !ok {
		return
	}
	rooms, err := h.service.AvailableRooms(c.Request.Context(), arrival, departure)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if rooms == nil {
		rooms = []int{}
	}
	response.Success(c, http.StatusOK, AvailabilityResponse{
		ArrivalDate:    arrival.Format(dateLayout),
		DepartureDate:  departure.Format(dateLayout),
		AvailableRooms: rooms,
	})
}

func (h *Handler) Quote(c *gin.Context) {
	arrival, departure, ok := h.dateRangeQuery(c, "arrival", "departure")
	if !ok {
		return
	}
	rooms, err := parseRoomList(c.Query("rooms"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid rooms parameter")
		return
	}
	cost, periods, err := h.service.Quote(c.Request.Context(), arrival, departure, rooms)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, QuoteResponse{
		ArrivalDate:   arrival.Format(dateLayout),
		DepartureDate: departure.Format(dateLayout),
		Rooms:         rooms,
		Cost:          cost,
		Periods:       periods,
	})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	arrival, err1 := time.Parse(dateLayout, req.Arrival)
	departure, err2 := time.Parse(dateLayout, req.Departure)
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Dates must be YYYY-MM-DD")
		return
	}

	share := c.GetInt("share_number")
	record, err := h.service.CreateBooking(c.Request.Context(), share, arrival, departure, req.Rooms, req.InAttendance)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"booking": BookingSummary{
			ID:            record.ID,
			ArrivalDate:   record.ArrivalDate.Format(dateLayout),
			DepartureDate: record.DepartureDate.Format(dateLayout),
			Rooms:         record.RoomNumbers(),
			Status:        string(record.Status),
			PaymentStatus: string(record.PaymentStatus),
			Cost:          record.Cost,
		},
	})
}

func (h *Handler) Submit(c *gin.Context) {
	h.transition(c, h.service.Submit)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id int64, share int) (*domain.BookingRecord, error)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	record, err := fn(c.Request.Context(), id, c.GetInt("share_number"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"booking": gin.H{
			"id":     record.ID,
			"status": record.Status,
		},
	})
}

func (h *Handler) MyBookings(c *gin.Context) {
	limit, offset := paginationQuery(c)
	out, err := h.service.MyBookings(c.Request.Context(), c.GetInt("share_number"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *Handler) Rooms(c *gin.Context) {
	rooms, err := h.service.Rooms(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) Seasons(c *gin.Context) {
	from, to, ok := h.dateRangeQuery(c, "from", "to")
	if !ok {
		return
	}
	if !to.After(from) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be after from")
		return
	}
	seasons, err := h.service.SeasonsForRange(c.Request.Context(), from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"seasons": seasons})
}

func (h *Handler) Calendar(c *gin.Context) {
	from, to, ok := h.dateRangeQuery(c, "from", "to")
	if !ok {
		return
	}
	blocks, err := h.service.CalendarBlocks(c.Request.Context(), from, to)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blocks": blocks})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// CalendarWS upgrades the connection and keeps it subscribed until the
// client goes away. Reads are discarded; the hub only pushes.
func (h *Handler) CalendarWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	h.hub.Subscribe(conn)
	go func() {
		defer h.hub.Unsubscribe(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Handler) dateRangeQuery(c *gin.Context, startKey, endKey string) (time.Time, time.Time, bool) {
	start, err1 := time.Parse(dateLayout, c.Query(startKey))
	end, err2 := time.Parse(dateLayout, c.Query(endKey))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Dates must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var dre *DateRangeError
	var qv *QuotaViolation
	switch {
	case errors.As(err, &dre):
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_DATE_RANGE", "Requested dates are not bookable", dre.Fields)
	case errors.As(err, &qv):
		response.Error(c, http.StatusBadRequest, "QUOTA_EXCEEDED", qv.Error())
	case errors.Is(err, ErrRoomUnavailable):
		response.Error(c, http.StatusConflict, "ROOM_UNAVAILABLE", "One or more selected rooms are not available")
	case errors.Is(err, ErrBookingConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Rooms were booked by someone else, please start again")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS", "Booking cannot change to that status")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your booking")
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case IsConfigFault(err):
		// Admin data is inconsistent; never blame the member's input.
		response.Error(c, http.StatusInternalServerError, "CONFIG_INVARIANT", "Booking configuration is inconsistent")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func parseRoomList(raw string) ([]int, error) {
	if raw == "" {
		return nil, ErrValidation
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, ErrValidation
		}
		out = append(out, n)
	}
	return out, nil
}

func paginationQuery(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
