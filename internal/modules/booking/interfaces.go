package booking

import (
	"context"
	"time"

	"lodgebooking/internal/domain"
	"lodgebooking/internal/repository"
)

// ConfigSource loads the read-consistent configuration snapshot (config row,
// seasons with booking types and banned rooms, rooms) used for one request.
type ConfigSource interface {
	Snapshot(ctx context.Context) (*domain.Config, error)
}

// BookingRepository defines the persistence operations the booking service needs.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.BookingRecord, now time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.BookingRecord, error)
	LiveInRange(ctx context.Context, arrival, departure, now time.Time) ([]domain.BookingRecord, error)
	LiveForMemberInRange(ctx context.Context, share int, start, end, now time.Time) ([]domain.BookingRecord, error)
	ListForMember(ctx context.Context, share int, limit, offset int) ([]domain.BookingRecord, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	BookedBlocks(ctx context.Context, from, to, now time.Time) ([]repository.BookedBlock, error)
}

// MemberRepository resolves share numbers to members.
type MemberRepository interface {
	GetByShareNumber(ctx context.Context, share int) (*domain.Member, error)
}
