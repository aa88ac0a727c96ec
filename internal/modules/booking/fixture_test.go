package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"lodgebooking/internal/domain"
)

func intPtr(n int) *int { return &n }

// testConfig mirrors the seeded lodge setup: Saturday changeover, a year-round
// off-peak season, and a strict-week winter peak overlay with monthly quotas.
func testConfig() *domain.Config {
	cfg := &domain.Config{
		ID:                     1,
		WeekStartDay:           int(time.Saturday),
		MaxWeeksTillBooking:    26,
		LastMinuteBookingWeeks: 2,
		FlexibleBookingWeeks:   4,
		TimeOfDayRollover:      "13:00",
	}

	for n := 1; n <= 9; n++ {
		cfg.Rooms = append(cfg.Rooms, domain.Room{RoomNumber: n, ConfigID: 1})
	}

	base := domain.Season{
		ID:         1,
		ConfigID:   1,
		Name:       "Off Peak",
		StartMonth: 1,
		EndMonth:   12,
		BookingTypes: []domain.BookingType{
			{
				ID: 10, SeasonID: 1, Name: "Standard Week",
				Rate:           decimal.NewFromInt(700),
				IsFullWeekOnly: true, SetsWeeklyRateCap: true,
				MinimumRooms: 1, PriorityRank: domain.PriorityHigh,
			},
			{
				ID: 11, SeasonID: 1, Name: "Flexible Stay",
				Rate:                   decimal.NewFromInt(90),
				RequiresFlexiblePeriod: true,
				MinimumRooms:           1, PriorityRank: domain.PriorityMedium,
				BannedRooms: []domain.Room{{RoomNumber: 8}, {RoomNumber: 9}},
			},
			{
				ID: 12, SeasonID: 1, Name: "Standard Nightly",
				Rate:         decimal.NewFromInt(120),
				MinimumRooms: 1, PriorityRank: domain.PriorityLow,
			},
		},
	}

	peak := domain.Season{
		ID:                          2,
		ConfigID:                    1,
		Name:                        "Winter Peak",
		StartMonth:                  6,
		EndMonth:                    9,
		IsPeak:                      true,
		RequiresStrictWeeks:         true,
		MaxMonthlyRoomWeeks:         intPtr(3),
		MaxMonthlySimultaneousRooms: intPtr(2),
		BookingTypes: []domain.BookingType{
			{
				ID: 20, SeasonID: 2, Name: "Winter Week",
				Rate:           decimal.NewFromInt(1200),
				IsFullWeekOnly: true, SetsWeeklyRateCap: true,
				MinimumRooms: 1, PriorityRank: domain.PriorityHigh,
			},
			{
				ID: 21, SeasonID: 2, Name: "Winter Last Minute",
				Rate:                     decimal.NewFromInt(150),
				RequiresLastMinutePeriod: true,
				MinimumRooms:             1, PriorityRank: domain.PriorityMedium,
			},
			{
				ID: 22, SeasonID: 2, Name: "Winter Nightly",
				Rate:         decimal.NewFromInt(220),
				MinimumRooms: 1, PriorityRank: domain.PriorityLow,
			},
		},
	}

	cfg.Seasons = []domain.Season{base, peak}
	return cfg
}
