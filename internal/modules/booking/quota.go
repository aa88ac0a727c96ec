package booking

import (
	"time"

	"lodgebooking/internal/domain"
)

// occupancyProfile builds the day-indexed room counts one booking contributes
// to a month range, zero outside its clipped overlap. Day counting is
// half-open throughout: a range [s, e) spans e-s days.
func occupancyProfile(month MonthRange, arrival, departure time.Time, roomCount int) []int {
	length := DaysBetween(month.Start, month.End)
	profile := make([]int, length)
	start := arrival
	if start.Before(month.Start) {
		start = month.Start
	}
	end := departure
	if end.After(month.End) {
		end = month.End
	}
	for d := DaysBetween(month.Start, start); d < DaysBetween(month.Start, end); d++ {
		profile[d] = roomCount
	}
	return profile
}

// ValidateSeasonRules rejects a proposed stay that would push the member's
// total room consumption, summed with their other live bookings, over the
// governing season's monthly caps. Maintenance (share 0) is unrestricted,
// and stays ending inside the last-minute window are exempt: last-minute
// slack is not rationed.
func ValidateSeasonRules(cfg *domain.Config, member *domain.Member, arrival, departure time.Time, rooms []int, others []domain.BookingRecord, now time.Time, loc *time.Location) error {
	if member.IsMaintenance() {
		return nil
	}
	today := BookingDay(cfg, now, loc)
	if !departure.After(today.AddDate(0, 0, 7*cfg.LastMinuteBookingWeeks)) {
		return nil
	}

	for _, month := range SplitMonthRanges(arrival, departure) {
		totals := occupancyProfile(month, arrival, departure, len(rooms))
		for _, b := range others {
			if !b.Live(now) || !b.Overlaps(month.Start, month.End) {
				continue
			}
			for d, n := range occupancyProfile(month, b.ArrivalDate, b.DepartureDate, len(b.Rooms)) {
				totals[d] += n
			}
		}

		season, err := EffectiveSeason(cfg, month.Start)
		if err != nil {
			return err
		}

		if season.MaxMonthlySimultaneousRooms != nil {
			limit := *season.MaxMonthlySimultaneousRooms
			for d, n := range totals {
				if n > limit {
					when := month.Start.AddDate(0, 0, d)
					return &QuotaViolation{Season: season.Name, Limit: limit, Date: &when}
				}
			}
		}
		if season.MaxMonthlyRoomWeeks != nil {
			limit := *season.MaxMonthlyRoomWeeks
			roomDays := 0
			for _, n := range totals {
				roomDays += n
			}
			// Compare in room-days to avoid fractional weeks.
			if roomDays > limit*7 {
				monthStart := Date(month.Start.Year(), month.Start.Month(), 1)
				return &QuotaViolation{Season: season.Name, Limit: limit, Month: &monthStart}
			}
		}
	}
	return nil
}
