package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"lodgebooking/internal/database"
	"lodgebooking/internal/middleware"
	"lodgebooking/internal/modules/auth"
	"lodgebooking/internal/modules/booking"
	"lodgebooking/internal/modules/payment"
	jwtsvc "lodgebooking/internal/pkg/jwt"
	"lodgebooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	webhookSecret := os.Getenv("PAYMENT_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Fatal("PAYMENT_WEBHOOK_SECRET is empty")
	}

	// Horizon math runs on the lodge's civil time, not the server's.
	tzName := os.Getenv("BOOKING_TIMEZONE")
	if tzName == "" {
		tzName = "Australia/Sydney"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatalf("bad BOOKING_TIMEZONE %q: %v", tzName, err)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	configRepo := repository.NewConfigRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	hub := booking.NewHub()
	defer hub.Close()

	bookingService := booking.NewService(configRepo, bookingRepo, memberRepo, hub, loc)
	bookingHandler := booking.NewHandler(bookingService, hub)

	authService := auth.NewService(memberRepo, j)
	authHandler := auth.NewHandler(authService)

	paymentService := payment.NewService(bookingRepo, webhookSecret, log.Printf)
	paymentHandler := payment.NewHandler(paymentService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterRoutes(v1)

		// member session required
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
