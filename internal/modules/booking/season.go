package booking

import (
	"time"

	"lodgebooking/internal/domain"
)

// SeasonMatchKind tags how many configured seasons cover a day.
type SeasonMatchKind int

const (
	MatchNone SeasonMatchKind = iota
	MatchSingle
	MatchPeakOverlay
	MatchInvalid
)

// SeasonMatch is the resolved coverage for one civil day: either a single
// season, or a peak season overlaying a base season. Anything else means the
// admin-maintained season table violates its no-overlap invariant.
type SeasonMatch struct {
	Kind SeasonMatchKind
	Peak *domain.Season
	Base *domain.Season
}

// MatchSeasons classifies the seasons covering day's month. A well-formed
// configuration yields exactly one season, or one peak over one non-peak.
func MatchSeasons(seasons []domain.Season, day time.Time) SeasonMatch {
	var matched []*domain.Season
	for i := range seasons {
		if seasons[i].ContainsMonth(day.Month()) {
			matched = append(matched, &seasons[i])
		}
	}
	switch len(matched) {
	case 1:
		return SeasonMatch{Kind: MatchSingle, Base: matched[0]}
	case 2:
		if matched[0].IsPeak != matched[1].IsPeak {
			m := SeasonMatch{Kind: MatchPeakOverlay}
			if matched[0].IsPeak {
				m.Peak, m.Base = matched[0], matched[1]
			} else {
				m.Peak, m.Base = matched[1], matched[0]
			}
			return m
		}
		return SeasonMatch{Kind: MatchInvalid}
	case 0:
		return SeasonMatch{Kind: MatchNone}
	default:
		return SeasonMatch{Kind: MatchInvalid}
	}
}

// EffectiveSeason resolves the single governing season for a day: the only
// match, or the peak season when a peak overlays a base. A day covered by
// zero seasons, or by two of the same peakness, is a configuration fault and
// fails loudly rather than guessing.
func EffectiveSeason(cfg *domain.Config, day time.Time) (*domain.Season, error) {
	switch m := MatchSeasons(cfg.Seasons, day); m.Kind {
	case MatchSingle:
		return m.Base, nil
	case MatchPeakOverlay:
		return m.Peak, nil
	case MatchNone:
		return nil, configFaultf("no season covers %s", day.Format("2006-01-02"))
	default:
		return nil, configFaultf("conflicting seasons cover %s", day.Format("2006-01-02"))
	}
}

// SeasonsInRange returns the seasons active during any part of [start, end).
// Month ranges wrap, so both the stay months and season months are compared
// cyclically.
func SeasonsInRange(cfg *domain.Config, start, end time.Time) []domain.Season {
	last := end.AddDate(0, 0, -1)
	months := map[time.Month]bool{}
	for cur := Date(start.Year(), start.Month(), 1); !cur.After(last); cur = cur.AddDate(0, 1, 0) {
		months[cur.Month()] = true
	}
	var out []domain.Season
	for _, s := range cfg.Seasons {
		for m := range months {
			if s.ContainsMonth(m) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
