package main

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"lodgebooking/internal/database"
	"lodgebooking/internal/domain"
)

func intPtr(n int) *int { return &n }

func main() {
	db, err := database.Connect("lodge.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.Config{},
		&domain.RoomType{},
		&domain.Room{},
		&domain.Season{},
		&domain.BookingType{},
		&domain.Member{},
		&domain.FamilyMember{},
		&domain.BookingRecord{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM booking_record_rooms")
	db.Exec("DELETE FROM booking_records")
	db.Exec("DELETE FROM booking_type_banned_rooms")
	db.Exec("DELETE FROM booking_types")
	db.Exec("DELETE FROM seasons")
	db.Exec("DELETE FROM family_members")
	db.Exec("DELETE FROM members")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM room_types")
	db.Exec("DELETE FROM config")

	// ================== CONFIG ==================
	cfg := domain.Config{
		WeekStartDay:           6, // Saturday changeover
		MaxWeeksTillBooking:    26,
		LastMinuteBookingWeeks: 2,
		FlexibleBookingWeeks:   4,
		TimeOfDayRollover:      "13:00",
	}
	db.Create(&cfg)

	// ================== ROOMS ==================
	double := domain.RoomType{Name: "Double", DoubleBeds: 1, BunkBeds: 0}
	family := domain.RoomType{Name: "Family", DoubleBeds: 1, BunkBeds: 2}
	bunkroom := domain.RoomType{Name: "Bunkroom", DoubleBeds: 0, BunkBeds: 3}
	db.Create(&double)
	db.Create(&family)
	db.Create(&bunkroom)

	rooms := make([]domain.Room, 0, 9)
	for n := 1; n <= 9; n++ {
		rt := double
		switch {
		case n >= 8:
			rt = bunkroom
		case n >= 5:
			rt = family
		}
		room := domain.Room{
			RoomNumber:  n,
			ConfigID:    cfg.ID,
			Description: fmt.Sprintf("Room %d (%s)", n, rt.Name),
			RoomTypeID:  rt.ID,
		}
		db.Create(&room)
		rooms = append(rooms, room)
	}

	// ================== SEASONS ==================
	// A year-round base season with a peak overlay for the snow months.
	base := domain.Season{
		ConfigID:            cfg.ID,
		Name:                "Off Peak",
		StartMonth:          1,
		EndMonth:            12,
		IsPeak:              false,
		RequiresStrictWeeks: false,
	}
	db.Create(&base)

	peak := domain.Season{
		ConfigID:                    cfg.ID,
		Name:                        "Winter Peak",
		StartMonth:                  6,
		EndMonth:                    9,
		IsPeak:                      true,
		RequiresStrictWeeks:         true,
		MaxMonthlyRoomWeeks:         intPtr(3),
		MaxMonthlySimultaneousRooms: intPtr(2),
	}
	db.Create(&peak)

	// ================== BOOKING TYPES ==================
	types := []domain.BookingType{
		{
			SeasonID:          peak.ID,
			Name:              "Winter Week",
			Rate:              decimal.NewFromInt(1200),
			IsFullWeekOnly:    true,
			SetsWeeklyRateCap: true,
			MinimumRooms:      1,
			PriorityRank:      domain.PriorityHigh,
		},
		{
			SeasonID:                 peak.ID,
			Name:                     "Winter Last Minute",
			Rate:                     decimal.NewFromInt(150),
			RequiresLastMinutePeriod: true,
			MinimumRooms:             1,
			PriorityRank:             domain.PriorityMedium,
		},
		{
			SeasonID:     peak.ID,
			Name:         "Winter Nightly",
			Rate:         decimal.NewFromInt(220),
			MinimumRooms: 1,
			PriorityRank: domain.PriorityLow,
		},
		{
			SeasonID:          base.ID,
			Name:              "Standard Week",
			Rate:              decimal.NewFromInt(700),
			IsFullWeekOnly:    true,
			SetsWeeklyRateCap: true,
			MinimumRooms:      1,
			PriorityRank:      domain.PriorityHigh,
		},
		{
			SeasonID:               base.ID,
			Name:                   "Flexible Stay",
			Rate:                   decimal.NewFromInt(90),
			RequiresFlexiblePeriod: true,
			MinimumRooms:           1,
			PriorityRank:           domain.PriorityMedium,
			// The bunkrooms are kept free for work parties outside fixed weeks.
			BannedRooms: []domain.Room{rooms[7], rooms[8]},
		},
		{
			SeasonID:     base.ID,
			Name:         "Standard Nightly",
			Rate:         decimal.NewFromInt(120),
			MinimumRooms: 1,
			PriorityRank: domain.PriorityLow,
		},
	}
	for i := range types {
		db.Create(&types[i])
	}

	// ================== MEMBERS ==================
	hash, _ := bcrypt.GenerateFromPassword([]byte("member123"), bcrypt.DefaultCost)

	maintenance := domain.Member{
		ShareNumber:  domain.MaintenanceShareNumber,
		FirstName:    "Lodge",
		LastName:     "Maintenance",
		ContactEmail: "maintenance@lodge.example.org",
		PasswordHash: string(hash),
	}
	db.Create(&maintenance)

	names := []struct {
		first, last string
	}{
		{"Alice", "Harker"},
		{"Bren", "Okafor"},
		{"Carol", "Nguyen"},
	}
	for i, n := range names {
		m := domain.Member{
			ShareNumber:  i + 1,
			FirstName:    n.first,
			LastName:     n.last,
			ContactEmail: fmt.Sprintf("%s.%s@lodge.example.org", n.first, n.last),
			PasswordHash: string(hash),
			Family: []domain.FamilyMember{
				{FirstName: n.first, LastName: n.last, ContactEmail: fmt.Sprintf("%s.%s@lodge.example.org", n.first, n.last)},
				{FirstName: "Jamie", LastName: n.last, ContactEmail: fmt.Sprintf("jamie.%s@lodge.example.org", n.last)},
			},
		}
		db.Create(&m)
	}

	log.Println("Seed complete: 1 config, 2 seasons, 6 booking types, 9 rooms, 4 members")
	log.Println("Member login: share 1-3 / member123")
}
