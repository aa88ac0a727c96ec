package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"lodgebooking/internal/domain"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrAmountMismatch   = errors.New("amount mismatch")
	ErrNotPayable       = errors.New("booking is not awaiting payment")
)

// Service finalises bookings when the payment gateway reports a captured
// order. The gateway itself is an external collaborator; this side only
// verifies the callback and flips statuses.
type Service struct {
	bookings BookingStore
	secret   string
	loggerf  func(format string, args ...interface{})
}

func NewService(bookings BookingStore, secret string, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{bookings: bookings, secret: secret, loggerf: loggerf}
}

// signature covers the booking id, amount, and transaction id with the
// shared webhook secret.
func (s *Service) signature(bookingID int64, amount, transactionID string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	fmt.Fprintf(mac, "%d:%s:%s", bookingID, amount, transactionID)
	return hex.EncodeToString(mac.Sum(nil))
}

// HandleCapture processes a capture notification. A submitted booking whose
// cost matches the captured amount becomes finalised and paid; repeated
// deliveries of the same capture are acknowledged without effect.
func (s *Service) HandleCapture(ctx context.Context, req CaptureNotification) error {
	if !strings.EqualFold(req.Signature, s.signature(req.BookingID, req.Amount, req.TransactionID)) {
		s.loggerf("level=warn msg=webhook signature rejected booking_id=%d", req.BookingID)
		return ErrInvalidSignature
	}

	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return err
	}

	// Idempotent redelivery.
	if booking.Status == domain.BookingFinalised && booking.PaymentStatus == domain.PaymentPaid {
		s.loggerf("level=info msg=capture already processed booking_id=%d", req.BookingID)
		return nil
	}
	if booking.Status != domain.BookingSubmitted {
		return ErrNotPayable
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ErrAmountMismatch
	}
	if booking.Cost == nil || !booking.Cost.Equal(amount) {
		s.loggerf("level=warn msg=capture amount mismatch booking_id=%d got=%s want=%v",
			req.BookingID, req.Amount, booking.Cost)
		if uerr := s.bookings.UpdatePayment(ctx, req.BookingID, domain.PaymentFailed, req.TransactionID); uerr != nil {
			s.loggerf("level=error msg=failed to record payment failure booking_id=%d err=%v", req.BookingID, uerr)
		}
		return ErrAmountMismatch
	}

	if err := s.bookings.UpdatePayment(ctx, req.BookingID, domain.PaymentPaid, req.TransactionID); err != nil {
		return err
	}
	if err := s.bookings.UpdateStatus(ctx, req.BookingID, domain.BookingFinalised); err != nil {
		return err
	}
	s.loggerf("level=info msg=booking finalised booking_id=%d transaction_id=%s", req.BookingID, req.TransactionID)
	return nil
}
