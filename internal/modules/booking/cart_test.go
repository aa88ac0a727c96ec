package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingDay(t *testing.T) {
	cfg := testConfig() // rollover at 13:00

	t.Run("before the cutover counts as yesterday", func(t *testing.T) {
		now := time.Date(2026, 6, 20, 12, 59, 0, 0, time.UTC)
		assert.Equal(t, Date(2026, 6, 19), BookingDay(cfg, now, time.UTC))
	})

	t.Run("at the cutover counts as today", func(t *testing.T) {
		now := time.Date(2026, 6, 20, 13, 0, 0, 0, time.UTC)
		assert.Equal(t, Date(2026, 6, 20), BookingDay(cfg, now, time.UTC))
	})

	t.Run("cutover is evaluated in the lodge timezone", func(t *testing.T) {
		aest := time.FixedZone("AEST", 10*3600)
		// 04:00 UTC is 14:00 in the lodge zone, past the cutover.
		now := time.Date(2026, 6, 20, 4, 0, 0, 0, time.UTC)
		assert.Equal(t, Date(2026, 6, 20), BookingDay(cfg, now, aest))
		// 02:00 UTC is only 12:00 lodge time.
		now = time.Date(2026, 6, 20, 2, 0, 0, 0, time.UTC)
		assert.Equal(t, Date(2026, 6, 19), BookingDay(cfg, now, aest))
	})
}

func TestBuildCartPeriods_StrictSeasonAlignsToChangeover(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2026, 6, 20, 20, 0, 0, 0, time.UTC) // booking day Sat 2026-06-20

	// A Monday arrival in the strict winter season breaks at the next
	// Saturday changeover, then runs in aligned weeks.
	periods, err := BuildCartPeriods(cfg, Date(2026, 7, 20), Date(2026, 8, 1), now, time.UTC)
	assert.NoError(t, err)
	assert.Len(t, periods, 2)

	assert.Equal(t, Date(2026, 7, 20), periods[0].StartDate)
	assert.Equal(t, Date(2026, 7, 25), periods[0].EndDate)
	assert.Equal(t, 5, periods[0].Nights())
	assert.False(t, periods[0].IsFullWeek)

	assert.Equal(t, Date(2026, 7, 25), periods[1].StartDate)
	assert.Equal(t, Date(2026, 8, 1), periods[1].EndDate)
	assert.True(t, periods[1].IsFullWeek)

	assert.Equal(t, "Winter Peak", periods[0].StartSeason.Name)
	assert.Equal(t, "Winter Peak", periods[1].EndSeason.Name)
}

func TestBuildCartPeriods_RelaxedSeasonKeepsArrivalWeeks(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)

	// Off peak does not require strict weeks, so a Monday arrival still
	// prices in arrival-anchored 7-night blocks.
	periods, err := BuildCartPeriods(cfg, Date(2026, 11, 9), Date(2026, 11, 19), now, time.UTC)
	assert.NoError(t, err)
	assert.Len(t, periods, 2)

	assert.Equal(t, Date(2026, 11, 16), periods[0].EndDate)
	assert.True(t, periods[0].IsFullWeek)
	assert.Equal(t, 3, periods[1].Nights())
	assert.False(t, periods[1].IsFullWeek)
}

func TestBuildCartPeriods_LastMinuteRelaxesStrictAlignment(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2026, 6, 20, 20, 0, 0, 0, time.UTC) // last-minute window ends 2026-07-11

	// Seven unaligned nights in the strict season, but entirely inside the
	// last-minute window: they price as one full week.
	periods, err := BuildCartPeriods(cfg, Date(2026, 6, 22), Date(2026, 6, 29), now, time.UTC)
	assert.NoError(t, err)
	assert.Len(t, periods, 1)
	assert.True(t, periods[0].IsFullWeek)
	assert.True(t, periods[0].IsLastMinute)
	assert.True(t, periods[0].IsFlexible)
}

func TestBuildCartPeriods_WindowFlags(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2026, 6, 20, 20, 0, 0, 0, time.UTC)

	// Flexible window runs to 2026-07-25; a stay ending past it gets neither flag.
	periods, err := BuildCartPeriods(cfg, Date(2026, 7, 25), Date(2026, 8, 1), now, time.UTC)
	assert.NoError(t, err)
	assert.Len(t, periods, 1)
	assert.False(t, periods[0].IsLastMinute)
	assert.False(t, periods[0].IsFlexible)

	// A week ending exactly on the flexible boundary still qualifies.
	periods, err = BuildCartPeriods(cfg, Date(2026, 7, 18), Date(2026, 7, 25), now, time.UTC)
	assert.NoError(t, err)
	assert.Len(t, periods, 1)
	assert.False(t, periods[0].IsLastMinute)
	assert.True(t, periods[0].IsFlexible)
}

func TestBuildCartPeriods_ClipsToDeparture(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2026, 6, 20, 20, 0, 0, 0, time.UTC)

	periods, err := BuildCartPeriods(cfg, Date(2026, 7, 25), Date(2026, 7, 28), now, time.UTC)
	assert.NoError(t, err)
	assert.Len(t, periods, 1)
	assert.Equal(t, 3, periods[0].Nights())
	assert.False(t, periods[0].IsFullWeek)
}

func TestBuildCartPeriods_CoversStayExactly(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2026, 6, 20, 20, 0, 0, 0, time.UTC)

	for _, arrival := range []time.Time{
		Date(2026, 6, 21), Date(2026, 7, 20), Date(2026, 8, 29), Date(2026, 11, 3),
	} {
		for nights := 1; nights <= 21; nights++ {
			departure := arrival.AddDate(0, 0, nights)
			periods, err := BuildCartPeriods(cfg, arrival, departure, now, time.UTC)
			assert.NoError(t, err)
			assert.NotEmpty(t, periods)

			assert.Equal(t, arrival, periods[0].StartDate)
			assert.Equal(t, departure, periods[len(periods)-1].EndDate)
			for i, p := range periods {
				assert.GreaterOrEqual(t, p.Nights(), 1)
				assert.LessOrEqual(t, p.Nights(), 7)
				if i > 0 {
					assert.Equal(t, periods[i-1].EndDate, p.StartDate)
				}
			}
		}
	}
}
