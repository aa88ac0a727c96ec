package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	Arrival      string `json:"arrival_date" binding:"required"`
	Departure    string `json:"departure_date" binding:"required"`
	Rooms        []int  `json:"rooms" binding:"required"`
	InAttendance *int64 `json:"member_in_attendance"`
}

type QuoteResponse struct {
	ArrivalDate   string          `json:"arrival_date"`
	DepartureDate string          `json:"departure_date"`
	Rooms         []int           `json:"rooms"`
	Cost          decimal.Decimal `json:"cost"`
	Periods       []PeriodCost    `json:"periods"`
}

type AvailabilityResponse struct {
	ArrivalDate    string `json:"arrival_date"`
	DepartureDate  string `json:"departure_date"`
	AvailableRooms []int  `json:"available_rooms"`
}

// RoomInfo describes one configured room for the public lodge views.
type RoomInfo struct {
	RoomNumber   int    `json:"room_number"`
	Description  string `json:"description"`
	RoomType     string `json:"room_type,omitempty"`
	MaxOccupants int    `json:"max_occupants,omitempty"`
}

// SeasonInfo summarizes a season governing part of a date range, so the
// calendar can surface which booking rules apply.
type SeasonInfo struct {
	Name                        string `json:"name"`
	IsPeak                      bool   `json:"is_peak"`
	RequiresStrictWeeks         bool   `json:"requires_strict_weeks"`
	MaxMonthlyRoomWeeks         *int   `json:"max_monthly_room_weeks,omitempty"`
	MaxMonthlySimultaneousRooms *int   `json:"max_monthly_simultaneous_rooms,omitempty"`
}

type BookingSummary struct {
	ID            int64            `json:"id"`
	ArrivalDate   string           `json:"arrival_date"`
	DepartureDate string           `json:"departure_date"`
	Rooms         []int            `json:"rooms"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"payment_status"`
	Cost          *decimal.Decimal `json:"cost,omitempty"`
}

// CalendarEvent is pushed over the websocket hub whenever a booking changes,
// so open calendar views can refresh without polling.
type CalendarEvent struct {
	Type          string    `json:"type"` // "booking_created", "booking_cancelled", "booking_submitted"
	BookingID     int64     `json:"booking_id"`
	ArrivalDate   time.Time `json:"arrival_date"`
	DepartureDate time.Time `json:"departure_date"`
	Rooms         []int     `json:"rooms"`
}
