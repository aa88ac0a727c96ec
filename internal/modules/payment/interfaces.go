package payment

import (
	"context"

	"lodgebooking/internal/domain"
)

// BookingStore is the slice of booking persistence the webhook needs.
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingRecord, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, transactionID string) error
}
