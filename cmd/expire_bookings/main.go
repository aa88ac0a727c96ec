package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"lodgebooking/internal/database"
	"lodgebooking/internal/repository"
)

// Sets expired in-progress or submitted bookings to cancelled. Run from cron;
// liveness queries already treat stale bookings as dead, this sweep just
// makes the stored status match.
func main() {
	dryRun := flag.Bool("dry-run", false, "list bookings that would be cancelled without saving changes")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := repository.NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()

	if *dryRun {
		stale, err := repo.StaleBookings(ctx, now)
		if err != nil {
			log.Fatalf("listing stale bookings failed: %v", err)
		}
		for _, b := range stale {
			log.Printf("would cancel booking id=%d member=%d status=%s arrival=%s last_updated=%s",
				b.ID, b.MemberShare, b.Status,
				b.ArrivalDate.Format("2006-01-02"), b.LastUpdated.Format(time.RFC3339))
		}
		log.Printf("expire dry run: %d bookings would be cancelled", len(stale))
		return
	}

	inProgress, submitted, err := repo.ExpireStale(ctx, now)
	if err != nil {
		log.Fatalf("expire failed: %v", err)
	}
	log.Printf("expire completed: in_progress=%d submitted=%d", inProgress, submitted)
}
