package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"lodgebooking/internal/domain"
)

// ErrBookingConflict is returned when an insert races with another booking
// for the same rooms and overlapping dates.
var ErrBookingConflict = errors.New("room already booked for overlapping dates")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// liveScope narrows a query to bookings that still hold their rooms: not
// cancelled, and not expired-but-unconfirmed. The same cutoffs drive the
// expiry sweep, so the two can never disagree.
func liveScope(db *gorm.DB, now time.Time) *gorm.DB {
	return db.
		Where("status <> ?", domain.BookingCancelled).
		Where("NOT (status = ? AND last_updated < ?)", domain.BookingInProgress, now.Add(-domain.InProgressExpiry)).
		Where("NOT (status = ? AND last_updated < ?)", domain.BookingSubmitted, now.Add(-domain.SubmittedExpiry))
}

// Create inserts the booking inside a transaction that re-checks room/date
// overlap against live bookings first, with the caller's clock governing
// which competitors count as live. Two members racing for the same rooms
// see at most one winner; on postgres the partial unique index
// idx_no_double_booking backs this up and its violation maps to
// ErrBookingConflict as well.
func (r *BookingRepository) Create(ctx context.Context, b *domain.BookingRecord, now time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms := make([]int, 0, len(b.Rooms))
		for _, room := range b.Rooms {
			rooms = append(rooms, room.RoomNumber)
		}
		var cnt int64
		q := liveScope(tx.Table("booking_records"), now).
			Joins("JOIN booking_record_rooms brr ON brr.booking_record_id = booking_records.id").
			Where("brr.room_number IN ?", rooms).
			Where("arrival_date < ? AND departure_date > ?", b.DepartureDate, b.ArrivalDate)
		if err := q.Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrBookingConflict
		}
		return tx.Create(b).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_no_double_booking" {
			return ErrBookingConflict
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.BookingRecord, error) {
	var b domain.BookingRecord
	tx := r.db.WithContext(ctx).Preload("Rooms").First(&b, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

// LiveInRange returns every live booking, any member's, whose stay overlaps
// [arrival, departure) under half-open semantics.
func (r *BookingRepository) LiveInRange(ctx context.Context, arrival, departure, now time.Time) ([]domain.BookingRecord, error) {
	var out []domain.BookingRecord
	tx := liveScope(r.db.WithContext(ctx), now).
		Where("arrival_date < ? AND departure_date > ?", departure, arrival).
		Preload("Rooms").
		Find(&out)
	return out, tx.Error
}

// LiveForMemberInRange is LiveInRange narrowed to one member's bookings.
func (r *BookingRepository) LiveForMemberInRange(ctx context.Context, share int, start, end, now time.Time) ([]domain.BookingRecord, error) {
	var out []domain.BookingRecord
	tx := liveScope(r.db.WithContext(ctx), now).
		Where("member_share = ?", share).
		Where("arrival_date < ? AND departure_date > ?", end, start).
		Preload("Rooms").
		Find(&out)
	return out, tx.Error
}

func (r *BookingRepository) ListForMember(ctx context.Context, share int, limit, offset int) ([]domain.BookingRecord, error) {
	var out []domain.BookingRecord
	tx := r.db.WithContext(ctx).
		Where("member_share = ?", share).
		Order("arrival_date DESC").
		Limit(limit).Offset(offset).
		Preload("Rooms").
		Find(&out)
	return out, tx.Error
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).Model(&domain.BookingRecord{}).
		Where("id = ?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePayment records a payment outcome against a booking.
func (r *BookingRepository) UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, transactionID string) error {
	tx := r.db.WithContext(ctx).Model(&domain.BookingRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": status,
			"transaction_id": transactionID,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BookedBlock is one room held for one stay, as shown on the calendar.
type BookedBlock struct {
	BookingID     int64     `json:"booking_id"`
	RoomNumber    int       `json:"room_number"`
	ArrivalDate   time.Time `json:"arrival_date"`
	DepartureDate time.Time `json:"departure_date"`
}

// BookedBlocks lists the room/date blocks of live bookings inside a window.
func (r *BookingRepository) BookedBlocks(ctx context.Context, from, to, now time.Time) ([]BookedBlock, error) {
	var out []BookedBlock
	tx := liveScope(r.db.WithContext(ctx).Table("booking_records"), now).
		Select("booking_records.id AS booking_id, brr.room_number, booking_records.arrival_date, booking_records.departure_date").
		Joins("JOIN booking_record_rooms brr ON brr.booking_record_id = booking_records.id").
		Where("arrival_date < ? AND departure_date > ?", to, from).
		Order("booking_records.arrival_date, brr.room_number").
		Scan(&out)
	return out, tx.Error
}

// StaleBookings lists unconfirmed bookings past their expiry window.
func (r *BookingRepository) StaleBookings(ctx context.Context, now time.Time) ([]domain.BookingRecord, error) {
	var out []domain.BookingRecord
	tx := r.db.WithContext(ctx).
		Where("(status = ? AND last_updated < ?) OR (status = ? AND last_updated < ?)",
			domain.BookingInProgress, now.Add(-domain.InProgressExpiry),
			domain.BookingSubmitted, now.Add(-domain.SubmittedExpiry)).
		Find(&out)
	return out, tx.Error
}

// ExpireStale cancels every stale unconfirmed booking and reports how many
// of each kind were swept.
func (r *BookingRepository) ExpireStale(ctx context.Context, now time.Time) (inProgress, submitted int64, err error) {
	tx := r.db.WithContext(ctx).Model(&domain.BookingRecord{}).
		Where("status = ? AND last_updated < ?", domain.BookingInProgress, now.Add(-domain.InProgressExpiry)).
		Update("status", domain.BookingCancelled)
	if tx.Error != nil {
		return 0, 0, tx.Error
	}
	inProgress = tx.RowsAffected

	tx = r.db.WithContext(ctx).Model(&domain.BookingRecord{}).
		Where("status = ? AND last_updated < ?", domain.BookingSubmitted, now.Add(-domain.SubmittedExpiry)).
		Update("status", domain.BookingCancelled)
	if tx.Error != nil {
		return inProgress, 0, tx.Error
	}
	return inProgress, tx.RowsAffected, nil
}
