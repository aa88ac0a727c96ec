package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lodgebooking/internal/domain"
	"lodgebooking/internal/repository"
)

type Service struct {
	config   ConfigSource
	bookings BookingRepository
	members  MemberRepository
	events   *Hub
	loc      *time.Location
	nowFn    func() time.Time
}

func NewService(config ConfigSource, bookings BookingRepository, members MemberRepository, events *Hub, loc *time.Location) *Service {
	return &Service{
		config:   config,
		bookings: bookings,
		members:  members,
		events:   events,
		loc:      loc,
		nowFn:    time.Now,
	}
}

// validateDateRange applies the booking-horizon rules, collecting every
// failing field rather than stopping at the first.
func (s *Service) validateDateRange(cfg *domain.Config, arrival, departure, today time.Time) error {
	weekAnchor := LastWeekdayOnOrBefore(today, cfg.WeekStart())
	horizon := weekAnchor.AddDate(0, 0, 7*cfg.MaxWeeksTillBooking)

	e := &DateRangeError{}
	if arrival.Before(today) {
		e.add("arrival_date", "must not be in the past")
	}
	if arrival.After(horizon) {
		e.add("arrival_date", "is beyond the booking horizon")
	}
	if !departure.After(arrival) {
		e.add("departure_date", "must be after the arrival date")
	}
	if departure.After(horizon.AddDate(0, 0, 7)) {
		e.add("departure_date", "is beyond the booking horizon")
	}
	if len(e.Fields) > 0 {
		return e
	}
	return nil
}

// AvailableRooms returns the room numbers bookable over [arrival, departure).
func (s *Service) AvailableRooms(ctx context.Context, arrival, departure time.Time) ([]int, error) {
	cfg, err := s.config.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowFn()
	if err := s.validateDateRange(cfg, arrival, departure, BookingDay(cfg, now, s.loc)); err != nil {
		return nil, err
	}
	others, err := s.bookings.LiveInRange(ctx, arrival, departure, now)
	if err != nil {
		return nil, err
	}
	return AvailableRooms(cfg, arrival, departure, others, now, s.loc)
}

// Quote prices a stay for a room selection without persisting anything.
func (s *Service) Quote(ctx context.Context, arrival, departure time.Time, rooms []int) (decimal.Decimal, []PeriodCost, error) {
	cfg, err := s.config.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, nil, err
	}
	now := s.nowFn()
	if err := s.validateDateRange(cfg, arrival, departure, BookingDay(cfg, now, s.loc)); err != nil {
		return decimal.Zero, nil, err
	}
	if len(rooms) == 0 {
		return decimal.Zero, nil, ErrValidation
	}
	return PriceStay(cfg, arrival, departure, rooms, now, s.loc)
}

// CreateBooking runs the full pipeline: date validation, room availability,
// season quota, pricing, then persists an in-progress booking. The repository
// re-checks room conflicts inside the insert transaction, so two racing
// members cannot both win the same room.
func (s *Service) CreateBooking(ctx context.Context, share int, arrival, departure time.Time, rooms []int, inAttendance *int64) (*domain.BookingRecord, error) {
	cfg, err := s.config.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowFn()
	if err := s.validateDateRange(cfg, arrival, departure, BookingDay(cfg, now, s.loc)); err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, ErrValidation
	}

	member, err := s.members.GetByShareNumber(ctx, share)
	if err != nil {
		return nil, err
	}
	if inAttendance != nil && !memberHasFamily(member, *inAttendance) {
		return nil, ErrValidation
	}

	others, err := s.bookings.LiveInRange(ctx, arrival, departure, now)
	if err != nil {
		return nil, err
	}
	available, err := AvailableRooms(cfg, arrival, departure, others, now, s.loc)
	if err != nil {
		return nil, err
	}
	for _, n := range rooms {
		if !containsInt(available, n) {
			return nil, ErrRoomUnavailable
		}
	}

	monthStart, monthEnd := monthSpan(arrival, departure)
	mine, err := s.bookings.LiveForMemberInRange(ctx, share, monthStart, monthEnd, now)
	if err != nil {
		return nil, err
	}
	if err := ValidateSeasonRules(cfg, member, arrival, departure, rooms, mine, now, s.loc); err != nil {
		return nil, err
	}

	cost, _, err := PriceStay(cfg, arrival, departure, rooms, now, s.loc)
	if err != nil {
		return nil, err
	}

	record := &domain.BookingRecord{
		MemberShare:   share,
		ArrivalDate:   arrival,
		DepartureDate: departure,
		Cost:          &cost,
		Status:        domain.BookingInProgress,
		PaymentStatus: domain.PaymentIssued,
		InAttendance:  inAttendance,
	}
	for _, n := range rooms {
		record.Rooms = append(record.Rooms, domain.Room{RoomNumber: n})
	}
	if err := s.bookings.Create(ctx, record, now); err != nil {
		return nil, err
	}

	s.broadcast("booking_created", record)
	return record, nil
}

// Submit moves an in-progress booking to submitted, holding its rooms for
// the longer payment window.
func (s *Service) Submit(ctx context.Context, id int64, share int) (*domain.BookingRecord, error) {
	return s.transition(ctx, id, share, domain.BookingSubmitted, "booking_submitted",
		domain.BookingInProgress)
}

// Cancel releases a booking's rooms. Finalised bookings cannot be cancelled
// through this path.
func (s *Service) Cancel(ctx context.Context, id int64, share int) (*domain.BookingRecord, error) {
	return s.transition(ctx, id, share, domain.BookingCancelled, "booking_cancelled",
		domain.BookingInProgress, domain.BookingSubmitted)
}

func (s *Service) transition(ctx context.Context, id int64, share int, to domain.BookingStatus, event string, from ...domain.BookingStatus) (*domain.BookingRecord, error) {
	record, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.MemberShare != share {
		return nil, ErrForbidden
	}
	allowed := false
	for _, st := range from {
		if record.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidStatusTransition
	}
	if err := s.bookings.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	record.Status = to
	s.broadcast(event, record)
	return record, nil
}

func (s *Service) MyBookings(ctx context.Context, share int, limit, offset int) ([]BookingSummary, error) {
	records, err := s.bookings.ListForMember(ctx, share, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]BookingSummary, 0, len(records))
	for i := range records {
		r := &records[i]
		out = append(out, BookingSummary{
			ID:            r.ID,
			ArrivalDate:   r.ArrivalDate.Format(dateLayout),
			DepartureDate: r.DepartureDate.Format(dateLayout),
			Rooms:         r.RoomNumbers(),
			Status:        string(r.Status),
			PaymentStatus: string(r.PaymentStatus),
			Cost:          r.Cost,
		})
	}
	return out, nil
}

// Rooms lists the configured rooms with their type and sleeping capacity.
func (s *Service) Rooms(ctx context.Context) ([]RoomInfo, error) {
	cfg, err := s.config.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RoomInfo, 0, len(cfg.Rooms))
	for i := range cfg.Rooms {
		r := &cfg.Rooms[i]
		info := RoomInfo{RoomNumber: r.RoomNumber, Description: r.Description}
		if r.RoomType != nil {
			info.RoomType = r.RoomType.Name
			info.MaxOccupants = r.RoomType.MaxOccupants()
		}
		out = append(out, info)
	}
	return out, nil
}

// SeasonsForRange lists the seasons active during any part of [from, to), so
// callers can show which booking rules govern a stay.
func (s *Service) SeasonsForRange(ctx context.Context, from, to time.Time) ([]SeasonInfo, error) {
	cfg, err := s.config.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	seasons := SeasonsInRange(cfg, from, to)
	out := make([]SeasonInfo, 0, len(seasons))
	for _, season := range seasons {
		out = append(out, SeasonInfo{
			Name:                        season.Name,
			IsPeak:                      season.IsPeak,
			RequiresStrictWeeks:         season.RequiresStrictWeeks,
			MaxMonthlyRoomWeeks:         season.MaxMonthlyRoomWeeks,
			MaxMonthlySimultaneousRooms: season.MaxMonthlySimultaneousRooms,
		})
	}
	return out, nil
}

// CalendarBlocks returns the booked room/date blocks inside a window, for
// the public calendar view.
func (s *Service) CalendarBlocks(ctx context.Context, from, to time.Time) ([]repository.BookedBlock, error) {
	return s.bookings.BookedBlocks(ctx, from, to, s.nowFn())
}

func (s *Service) broadcast(event string, record *domain.BookingRecord) {
	if s.events == nil {
		return
	}
	s.events.Broadcast(CalendarEvent{
		Type:          event,
		BookingID:     record.ID,
		ArrivalDate:   record.ArrivalDate,
		DepartureDate: record.DepartureDate,
		Rooms:         record.RoomNumbers(),
	})
}

// monthSpan widens a stay to whole calendar months: quota checks need the
// member's other bookings for every month the stay touches, not just the
// overlap with the stay itself.
func monthSpan(arrival, departure time.Time) (time.Time, time.Time) {
	start := Date(arrival.Year(), arrival.Month(), 1)
	lastNight := departure.AddDate(0, 0, -1)
	end := Date(lastNight.Year(), lastNight.Month(), 1).AddDate(0, 1, 0)
	return start, end
}

func memberHasFamily(m *domain.Member, familyID int64) bool {
	for _, f := range m.Family {
		if f.ID == familyID {
			return true
		}
	}
	return false
}

func containsInt(s []int, n int) bool {
	for _, v := range s {
		if v == n {
			return true
		}
	}
	return false
}
