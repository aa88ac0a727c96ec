package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"lodgebooking/internal/domain"
)

// CartPeriod is one contiguous slice of a stay priced as a unit. Periods are
// transient: they are rebuilt from the date range and room selection on every
// pricing pass, never persisted.
type CartPeriod struct {
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `json:"end_date"` // exclusive
	StartSeason  *domain.Season      `json:"-"`
	EndSeason    *domain.Season      `json:"-"`
	IsFullWeek   bool                `json:"is_full_week"`
	IsFlexible   bool                `json:"is_flexible_period"`
	IsLastMinute bool                `json:"is_last_minute_period"`
	BookingType  *domain.BookingType `json:"-"`
	Cost         decimal.Decimal     `json:"cost"`
}

// Nights in the period.
func (p *CartPeriod) Nights() int { return DaysBetween(p.StartDate, p.EndDate) }

// BookingDay returns the civil date that anchors booking-horizon math: the
// current date in the lodge's timezone, rolled back one day before the
// configured cutover time. Bookings for the furthest-out week open at the
// cutover, not at midnight.
func BookingDay(cfg *domain.Config, now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	day := Midnight(local)
	h, m := cfg.RolloverTime()
	if local.Hour()*60+local.Minute() < h*60+m {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// BuildCartPeriods decomposes [arrival, departure) into ordered,
// non-overlapping cart periods. Boundaries land on aligned week starts in
// strict-week seasons, except inside the last-minute window where any 7-day
// block is allowed; the final period is clipped to the departure date.
func BuildCartPeriods(cfg *domain.Config, arrival, departure time.Time, now time.Time, loc *time.Location) ([]CartPeriod, error) {
	compareDate := BookingDay(cfg, now, loc)
	lastMinuteEnd := compareDate.AddDate(0, 0, 7*(cfg.LastMinuteBookingWeeks+1))
	flexibleEnd := LastWeekdayOnOrBefore(compareDate, cfg.WeekStart()).AddDate(0, 0, 7*(cfg.FlexibleBookingWeeks+1))

	var periods []CartPeriod
	for cur := arrival; cur.Before(departure); {
		weekLater := cur.AddDate(0, 0, 7)

		var end time.Time
		switch {
		case !weekLater.After(lastMinuteEnd):
			// Inside the last-minute window alignment is relaxed: any
			// 7-day block prices as a week.
			end = weekLater
		default:
			season, err := EffectiveSeason(cfg, cur)
			if err != nil {
				return nil, err
			}
			if season.RequiresStrictWeeks {
				end = LastWeekdayOnOrBefore(cur, cfg.WeekStart()).AddDate(0, 0, 7)
			} else {
				end = weekLater
			}
		}
		if end.After(departure) {
			end = departure
		}

		p := CartPeriod{
			StartDate:    cur,
			EndDate:      end,
			IsFullWeek:   DaysBetween(cur, end) == 7,
			IsFlexible:   !end.After(flexibleEnd),
			IsLastMinute: !end.After(lastMinuteEnd),
		}
		start, err := EffectiveSeason(cfg, cur)
		if err != nil {
			return nil, err
		}
		p.StartSeason = start
		if cur.Month() == end.Month() {
			p.EndSeason = start
		} else {
			endSeason, err := EffectiveSeason(cfg, end)
			if err != nil {
				return nil, err
			}
			p.EndSeason = endSeason
		}

		periods = append(periods, p)
		cur = end
	}
	return periods, nil
}
