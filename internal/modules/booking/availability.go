package booking

import (
	"sort"
	"time"

	"lodgebooking/internal/domain"
)

// commonBannedRooms returns the rooms banned by every candidate type: a room
// is only truly unbookable when no selectable type allows it. Zero candidates
// means the period is fully blocked, so every configured room is banned. Both
// the availability and pricing paths go through here so they cannot disagree.
func commonBannedRooms(cfg *domain.Config, cands []*domain.BookingType) map[int]bool {
	banned := map[int]bool{}
	if len(cands) == 0 {
		for _, r := range cfg.Rooms {
			banned[r.RoomNumber] = true
		}
		return banned
	}
	for _, r := range cands[0].BannedRooms {
		banned[r.RoomNumber] = true
	}
	for _, bt := range cands[1:] {
		for n := range banned {
			if !bt.BansRoom(n) {
				delete(banned, n)
			}
		}
	}
	return banned
}

// BannedRooms computes the business-rule exclusions for one cart period:
// the per-season intersections of banned rooms, unioned across the period's
// start and end seasons.
func (p *CartPeriod) BannedRooms(cfg *domain.Config) map[int]bool {
	banned := commonBannedRooms(cfg, candidateTypes(p.StartSeason, p.IsFullWeek, p.IsFlexible, p.IsLastMinute))
	if p.StartSeason.ID != p.EndSeason.ID {
		endFull := p.fullWeekUnder(p.EndSeason, cfg.WeekStart())
		for n := range commonBannedRooms(cfg, candidateTypes(p.EndSeason, endFull, p.IsFlexible, p.IsLastMinute)) {
			banned[n] = true
		}
	}
	return banned
}

// AvailableRooms computes the bookable room numbers for a stay: all
// configured rooms, minus rooms held by other live bookings overlapping the
// range, minus rooms banned for any cart period of the stay. The result is
// sorted by room number.
func AvailableRooms(cfg *domain.Config, arrival, departure time.Time, others []domain.BookingRecord, now time.Time, loc *time.Location) ([]int, error) {
	periods, err := BuildCartPeriods(cfg, arrival, departure, now, loc)
	if err != nil {
		return nil, err
	}

	excluded := map[int]bool{}
	for _, b := range others {
		if !b.Live(now) || !b.Overlaps(arrival, departure) {
			continue
		}
		for _, n := range b.RoomNumbers() {
			excluded[n] = true
		}
	}
	for i := range periods {
		for n := range periods[i].BannedRooms(cfg) {
			excluded[n] = true
		}
	}

	var out []int
	for _, r := range cfg.Rooms {
		if !excluded[r.RoomNumber] {
			out = append(out, r.RoomNumber)
		}
	}
	sort.Ints(out)
	return out, nil
}
