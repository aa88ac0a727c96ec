package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config is the single lodge-wide booking configuration. Exactly one row
// exists; callers load it once per request and pass it down explicitly.
type Config struct {
	ID                     int64  `json:"id" gorm:"primaryKey"`
	WeekStartDay           int    `json:"week_start_day"` // time.Weekday value, Sunday=0
	MaxWeeksTillBooking    int    `json:"max_weeks_till_booking"`
	LastMinuteBookingWeeks int    `json:"last_minute_booking_weeks"`
	FlexibleBookingWeeks   int    `json:"flexible_booking_weeks"`
	TimeOfDayRollover      string `json:"time_of_day_rollover"` // "15:04", local to the booking timezone

	Seasons []Season `json:"seasons,omitempty" gorm:"foreignKey:ConfigID"`
	Rooms   []Room   `json:"rooms,omitempty" gorm:"foreignKey:ConfigID"`
}

func (Config) TableName() string { return "config" }

func (c *Config) WeekStart() time.Weekday { return time.Weekday(c.WeekStartDay) }

// RolloverTime parses TimeOfDayRollover, defaulting to midnight on bad data.
func (c *Config) RolloverTime() (hour, minute int) {
	t, err := time.Parse("15:04", c.TimeOfDayRollover)
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}

type Season struct {
	ID                          int64  `json:"id" gorm:"primaryKey"`
	ConfigID                    int64  `json:"config_id"`
	Name                        string `json:"name"`
	StartMonth                  int    `json:"start_month"` // 1-12, season opens on the 1st
	EndMonth                    int    `json:"end_month"`   // 1-12, season closes at the end of this month; may wrap past December
	IsPeak                      bool   `json:"is_peak" gorm:"column:season_is_peak"`
	MaxMonthlyRoomWeeks         *int   `json:"max_monthly_room_weeks,omitempty"`
	MaxMonthlySimultaneousRooms *int   `json:"max_monthly_simultaneous_rooms,omitempty"`
	RequiresStrictWeeks         bool   `json:"requires_strict_weeks"`

	BookingTypes []BookingType `json:"booking_types,omitempty" gorm:"foreignKey:SeasonID"`
}

// ContainsMonth reports whether the month falls inside the season's range,
// treating EndMonth < StartMonth as a wrap across the year boundary.
func (s *Season) ContainsMonth(month time.Month) bool {
	m := int(month)
	if s.StartMonth <= s.EndMonth {
		return s.StartMonth <= m && m <= s.EndMonth
	}
	return m >= s.StartMonth || m <= s.EndMonth
}

// Priority orders booking types within a season; the lowest value wins when
// several types are selectable for one cart period.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

type BookingType struct {
	ID                       int64           `json:"id" gorm:"primaryKey"`
	SeasonID                 int64           `json:"season_id"`
	Name                     string          `json:"name"`
	Rate                     decimal.Decimal `json:"rate" gorm:"type:decimal(8,2)"`
	IsFullWeekOnly           bool            `json:"is_full_week_only"`
	IsFlatRate               bool            `json:"is_flat_rate"`
	RequiresFlexiblePeriod   bool            `json:"requires_flexible_booking_period"`
	RequiresLastMinutePeriod bool            `json:"requires_last_minute_booking_period"`
	SetsWeeklyRateCap        bool            `json:"sets_weekly_rate_cap"`
	MinimumRooms             int             `json:"minimum_rooms"`
	PriorityRank             Priority        `json:"priority_rank"`

	BannedRooms []Room `json:"banned_rooms,omitempty" gorm:"many2many:booking_type_banned_rooms;joinForeignKey:BookingTypeID;joinReferences:RoomNumber"`
}

// BansRoom reports whether the given room number is on the type's banned list.
func (bt *BookingType) BansRoom(roomNumber int) bool {
	for _, r := range bt.BannedRooms {
		if r.RoomNumber == roomNumber {
			return true
		}
	}
	return false
}

type Room struct {
	RoomNumber  int    `json:"room_number" gorm:"primaryKey;autoIncrement:false"`
	ConfigID    int64  `json:"config_id"`
	Description string `json:"description"`
	RoomTypeID  int64  `json:"room_type_id"`

	RoomType *RoomType `json:"room_type,omitempty" gorm:"foreignKey:RoomTypeID"`
}

type RoomType struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	DoubleBeds int    `json:"double_beds"`
	BunkBeds   int    `json:"bunk_beds"`
}

// MaxOccupants derives sleeping capacity from the bed counts.
func (rt *RoomType) MaxOccupants() int {
	return rt.DoubleBeds*2 + rt.BunkBeds*2
}

// MaintenanceShareNumber is the pseudo-member used for work parties and
// repairs; it is exempt from all season quotas.
const MaintenanceShareNumber = 0

type Member struct {
	ShareNumber  int    `json:"share_number" gorm:"primaryKey;autoIncrement:false"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ContactEmail string `json:"contact_email"`
	PasswordHash string `json:"-"`

	Family []FamilyMember `json:"family,omitempty" gorm:"foreignKey:ShareNumber"`
}

func (m *Member) IsMaintenance() bool { return m.ShareNumber == MaintenanceShareNumber }

type FamilyMember struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	ShareNumber  int    `json:"share_number"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ContactEmail string `json:"contact_email"`
}
