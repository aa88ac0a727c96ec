package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"lodgebooking/internal/domain"
)

// candidateTypes filters a season's booking types by the period's
// classification flags alone, independent of any room selection. A full-week
// flag is supplied by the caller because "full week" can differ between the
// start and end season of a straddling period.
func candidateTypes(season *domain.Season, isFullWeek, isFlexible, isLastMinute bool) []*domain.BookingType {
	var out []*domain.BookingType
	for i := range season.BookingTypes {
		bt := &season.BookingTypes[i]
		if bt.IsFullWeekOnly && !isFullWeek {
			continue
		}
		if bt.RequiresFlexiblePeriod && !isFlexible {
			continue
		}
		if bt.RequiresLastMinutePeriod && !isLastMinute {
			continue
		}
		out = append(out, bt)
	}
	return out
}

// fullWeekUnder evaluates the period's full-week flag under a season's own
// alignment rules: seven nights, and week-aligned when the season demands
// strict weeks.
func (p *CartPeriod) fullWeekUnder(season *domain.Season, weekStart time.Weekday) bool {
	if p.Nights() != 7 {
		return false
	}
	if season.RequiresStrictWeeks {
		return p.StartDate.Equal(LastWeekdayOnOrBefore(p.StartDate, weekStart))
	}
	return true
}

// periodCandidates resolves the candidate booking types for a period. When
// the period straddles into a different season, the end season must also
// offer at least one candidate under its own rules, otherwise the
// configuration has a gap and no type is valid.
func periodCandidates(cfg *domain.Config, p *CartPeriod) ([]*domain.BookingType, error) {
	cands := candidateTypes(p.StartSeason, p.IsFullWeek, p.IsFlexible, p.IsLastMinute)
	if p.StartSeason.ID != p.EndSeason.ID {
		endFull := p.fullWeekUnder(p.EndSeason, cfg.WeekStart())
		endCands := candidateTypes(p.EndSeason, endFull, p.IsFlexible, p.IsLastMinute)
		if len(cands) == 0 || len(endCands) == 0 {
			return nil, configFaultf("no booking type covers %s to %s across seasons %q and %q",
				p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"),
				p.StartSeason.Name, p.EndSeason.Name)
		}
	}
	if len(cands) == 0 {
		return nil, configFaultf("no booking type covers %s to %s in season %q",
			p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"), p.StartSeason.Name)
	}
	return cands, nil
}

// selectBookingType narrows candidates by the caller's room selection and
// picks the highest-priority survivor. Two survivors sharing a rank violate
// the one-type-per-rank-per-season invariant and fail loudly.
func selectBookingType(cands []*domain.BookingType, rooms []int) (*domain.BookingType, error) {
	var best *domain.BookingType
	for _, bt := range cands {
		if bt.MinimumRooms > len(rooms) {
			continue
		}
		if bansAny(bt, rooms) {
			continue
		}
		switch {
		case best == nil:
			best = bt
		case bt.PriorityRank == best.PriorityRank:
			return nil, configFaultf("booking types %q and %q share priority rank %d in season %d",
				best.Name, bt.Name, bt.PriorityRank, bt.SeasonID)
		case bt.PriorityRank < best.PriorityRank:
			best = bt
		}
	}
	if best == nil {
		return nil, configFaultf("no selectable booking type for %d room(s)", len(rooms))
	}
	return best, nil
}

func bansAny(bt *domain.BookingType, rooms []int) bool {
	for _, n := range rooms {
		if bt.BansRoom(n) {
			return true
		}
	}
	return false
}

// weeklyRateCap returns the capping rate of the season, if it declares one.
func weeklyRateCap(season *domain.Season) (decimal.Decimal, bool) {
	for i := range season.BookingTypes {
		if season.BookingTypes[i].SetsWeeklyRateCap {
			return season.BookingTypes[i].Rate, true
		}
	}
	return decimal.Zero, false
}

// PricePeriod resolves the period's booking type against the selected rooms
// and fills in its cost. Full-week-only types charge their flat weekly rate;
// everything else charges per night, capped at the season's weekly rate when
// one is configured. Flat-rate types ignore the room count.
func PricePeriod(cfg *domain.Config, p *CartPeriod, rooms []int) error {
	cands, err := periodCandidates(cfg, p)
	if err != nil {
		return err
	}
	bt, err := selectBookingType(cands, rooms)
	if err != nil {
		return err
	}
	p.BookingType = bt

	var perRoom decimal.Decimal
	if bt.IsFullWeekOnly {
		perRoom = bt.Rate
	} else {
		perRoom = bt.Rate.Mul(decimal.NewFromInt(int64(p.Nights())))
		if capRate, ok := weeklyRateCap(p.StartSeason); ok && perRoom.GreaterThan(capRate) {
			perRoom = capRate
		}
	}
	if bt.IsFlatRate {
		p.Cost = perRoom
	} else {
		p.Cost = perRoom.Mul(decimal.NewFromInt(int64(len(rooms))))
	}
	return nil
}

// PeriodCost is one line of a price breakdown.
type PeriodCost struct {
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	BookingType string          `json:"booking_type"`
	Nights      int             `json:"nights"`
	IsFullWeek  bool            `json:"is_full_week"`
	Cost        decimal.Decimal `json:"cost"`
}

// PriceStay segments the stay, prices every period, and totals the result.
// The computation is pure: pricing the same inputs twice yields the same
// cost.
func PriceStay(cfg *domain.Config, arrival, departure time.Time, rooms []int, now time.Time, loc *time.Location) (decimal.Decimal, []PeriodCost, error) {
	periods, err := BuildCartPeriods(cfg, arrival, departure, now, loc)
	if err != nil {
		return decimal.Zero, nil, err
	}
	total := decimal.Zero
	breakdown := make([]PeriodCost, 0, len(periods))
	for i := range periods {
		if err := PricePeriod(cfg, &periods[i], rooms); err != nil {
			return decimal.Zero, nil, err
		}
		total = total.Add(periods[i].Cost)
		breakdown = append(breakdown, PeriodCost{
			StartDate:   periods[i].StartDate,
			EndDate:     periods[i].EndDate,
			BookingType: periods[i].BookingType.Name,
			Nights:      periods[i].Nights(),
			IsFullWeek:  periods[i].IsFullWeek,
			Cost:        periods[i].Cost,
		})
	}
	return total, breakdown, nil
}
