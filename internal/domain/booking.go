package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingInProgress BookingStatus = "in_progress"
	BookingSubmitted  BookingStatus = "submitted"
	BookingFinalised  BookingStatus = "finalised"
	BookingCancelled  BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentIssued   PaymentStatus = "issued"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Unconfirmed bookings go stale: in-progress carts are held briefly while the
// member picks rooms, submitted bookings wait longer for payment.
const (
	InProgressExpiry = 30 * time.Minute
	SubmittedExpiry  = 24 * time.Hour
)

// BookingRecord is the one mutable entity the core produces. Dates are civil
// dates stored at midnight UTC; DepartureDate is exclusive (checkout day).
type BookingRecord struct {
	ID            int64            `json:"id" gorm:"primaryKey"`
	MemberShare   int              `json:"member_share" gorm:"column:member_share"`
	ArrivalDate   time.Time        `json:"arrival_date"`
	DepartureDate time.Time        `json:"departure_date"`
	Cost          *decimal.Decimal `json:"cost,omitempty" gorm:"type:decimal(8,2)"`
	Status        BookingStatus    `json:"status"`
	PaymentStatus PaymentStatus    `json:"payment_status"`
	TransactionID string           `json:"transaction_id,omitempty"`
	InAttendance  *int64           `json:"member_in_attendance,omitempty" gorm:"column:member_in_attendance"`
	LastUpdated   time.Time        `json:"last_updated" gorm:"autoUpdateTime"`

	Rooms  []Room  `json:"rooms,omitempty" gorm:"many2many:booking_record_rooms;joinForeignKey:BookingRecordID;joinReferences:RoomNumber"`
	Member *Member `json:"member,omitempty" gorm:"foreignKey:MemberShare"`
}

func (BookingRecord) TableName() string { return "booking_records" }

// RoomNumbers returns the booked room numbers in slice order.
func (b *BookingRecord) RoomNumbers() []int {
	nums := make([]int, 0, len(b.Rooms))
	for _, r := range b.Rooms {
		nums = append(nums, r.RoomNumber)
	}
	return nums
}

// Overlaps reports whether the stay intersects [arrival, departure) under
// half-open interval semantics: a departure day is free for a new arrival.
func (b *BookingRecord) Overlaps(arrival, departure time.Time) bool {
	return b.ArrivalDate.Before(departure) && b.DepartureDate.After(arrival)
}

// IsLive reports whether a booking still holds its rooms. Cancelled bookings
// never do; unconfirmed ones lapse after their expiry window. Liveness is a
// derived predicate, not a stored flag, so the sweep job and the availability
// queries can never disagree.
func IsLive(status BookingStatus, lastUpdated, now time.Time) bool {
	switch status {
	case BookingCancelled:
		return false
	case BookingInProgress:
		return now.Sub(lastUpdated) < InProgressExpiry
	case BookingSubmitted:
		return now.Sub(lastUpdated) < SubmittedExpiry
	default:
		return true
	}
}

// Live applies IsLive to the record itself.
func (b *BookingRecord) Live(now time.Time) bool {
	return IsLive(b.Status, b.LastUpdated, now)
}
