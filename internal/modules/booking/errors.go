package booking

import (
	"errors"
	"fmt"
	"time"

	"lodgebooking/internal/repository"
)

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrForbidden               = errors.New("forbidden")
	ErrRoomUnavailable         = errors.New("selected room is not available")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")

	// The repository detects the write-write race, so its sentinel is the
	// canonical one.
	ErrBookingConflict = repository.ErrBookingConflict
)

// ConfigFault reports an inconsistency in the admin-maintained configuration
// (overlapping seasons, no selectable booking type, duplicate priorities).
// It is an internal error, never a user-input problem, and handlers must map
// it to a 5xx rather than a validation response.
type ConfigFault struct {
	Reason string
}

func (e *ConfigFault) Error() string { return "configuration fault: " + e.Reason }

func configFaultf(format string, args ...any) *ConfigFault {
	return &ConfigFault{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigFault reports whether err stems from inconsistent configuration.
func IsConfigFault(err error) bool {
	var cf *ConfigFault
	return errors.As(err, &cf)
}

// QuotaViolation is the user-facing rejection when a proposed booking would
// push the member past a season's monthly cap. Exactly one of Date or Month
// is set: the simultaneous-rooms check names the offending day, the
// room-weeks check names the month.
type QuotaViolation struct {
	Season string
	Limit  int
	Date   *time.Time // simultaneous-rooms breach
	Month  *time.Time // room-weeks breach, first day of the month
}

func (e *QuotaViolation) Error() string {
	if e.Date != nil {
		return fmt.Sprintf("this booking exceeds the %d simultaneous rooms limit for %s on %s",
			e.Limit, e.Season, e.Date.Format("2006-01-02"))
	}
	return fmt.Sprintf("this booking exceeds the %d room-weeks limit for %s during %s",
		e.Limit, e.Season, e.Month.Format("January"))
}

// DateRangeError collects per-field problems with a requested stay so the
// caller can surface all of them at once.
type DateRangeError struct {
	Fields map[string]string
}

func (e *DateRangeError) Error() string {
	for f, msg := range e.Fields {
		return fmt.Sprintf("invalid date range: %s: %s", f, msg)
	}
	return "invalid date range"
}

func (e *DateRangeError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}
