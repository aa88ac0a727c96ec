package e2e

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lodgebooking/internal/database"
	"lodgebooking/internal/domain"
	"lodgebooking/internal/middleware"
	"lodgebooking/internal/modules/booking"
	"lodgebooking/internal/modules/payment"
	jwtsvc "lodgebooking/internal/pkg/jwt"
	"lodgebooking/internal/repository"
)

const webhookSecret = "e2e-webhook-secret"

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func intPtr(n int) *int { return &n }

func setupTestSuite(t *testing.T) *E2ETestSuite {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	models := []interface{}{
		&domain.Config{},
		&domain.RoomType{},
		&domain.Room{},
		&domain.Season{},
		&domain.BookingType{},
		&domain.Member{},
		&domain.FamilyMember{},
		&domain.BookingRecord{},
	}
	for _, model := range models {
		require.NoError(t, db.AutoMigrate(model), fmt.Sprintf("Failed to migrate %T", model))
	}

	seedLodge(t, db)

	configRepo := repository.NewConfigRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	hub := booking.NewHub()
	t.Cleanup(hub.Close)

	bookingService := booking.NewService(configRepo, bookingRepo, memberRepo, hub, time.UTC)
	bookingHandler := booking.NewHandler(bookingService, hub)

	paymentService := payment.NewService(bookingRepo, webhookSecret, nil)
	paymentHandler := payment.NewHandler(paymentService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	bookingHandler.RegisterPublicRoutes(v1)
	paymentHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtService))
	bookingHandler.RegisterRoutes(protected)

	return &E2ETestSuite{router: r, db: db, jwtService: jwtService}
}

func seedLodge(t *testing.T, db *gorm.DB) {
	cfg := domain.Config{
		WeekStartDay:           int(time.Saturday),
		MaxWeeksTillBooking:    26,
		LastMinuteBookingWeeks: 2,
		FlexibleBookingWeeks:   4,
		TimeOfDayRollover:      "13:00",
	}
	require.NoError(t, db.Create(&cfg).Error)

	rt := domain.RoomType{Name: "Double", DoubleBeds: 1}
	require.NoError(t, db.Create(&rt).Error)
	for n := 1; n <= 9; n++ {
		require.NoError(t, db.Create(&domain.Room{
			RoomNumber: n, ConfigID: cfg.ID, RoomTypeID: rt.ID,
			Description: fmt.Sprintf("Room %d", n),
		}).Error)
	}

	base := domain.Season{
		ConfigID: cfg.ID, Name: "Off Peak", StartMonth: 1, EndMonth: 12,
		BookingTypes: []domain.BookingType{
			{Name: "Standard Week", Rate: decimal.NewFromInt(700),
				IsFullWeekOnly: true, SetsWeeklyRateCap: true,
				MinimumRooms: 1, PriorityRank: domain.PriorityHigh},
			{Name: "Standard Nightly", Rate: decimal.NewFromInt(120),
				MinimumRooms: 1, PriorityRank: domain.PriorityLow},
		},
	}
	require.NoError(t, db.Create(&base).Error)

	peak := domain.Season{
		ConfigID: cfg.ID, Name: "Winter Peak", StartMonth: 6, EndMonth: 9,
		IsPeak: true, RequiresStrictWeeks: true,
		MaxMonthlyRoomWeeks:         intPtr(3),
		MaxMonthlySimultaneousRooms: intPtr(2),
		BookingTypes: []domain.BookingType{
			{Name: "Winter Week", Rate: decimal.NewFromInt(1200),
				IsFullWeekOnly: true, SetsWeeklyRateCap: true,
				MinimumRooms: 1, PriorityRank: domain.PriorityHigh},
			{Name: "Winter Nightly", Rate: decimal.NewFromInt(220),
				MinimumRooms: 1, PriorityRank: domain.PriorityLow},
		},
	}
	require.NoError(t, db.Create(&peak).Error)

	for _, share := range []int{7, 8} {
		require.NoError(t, db.Create(&domain.Member{
			ShareNumber:  share,
			FirstName:    "Member",
			LastName:     fmt.Sprintf("Share%d", share),
			ContactEmail: fmt.Sprintf("share%d@lodge.example.org", share),
			PasswordHash: "x",
		}).Error)
	}
}

func (s *E2ETestSuite) makeRequest(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp),
		"Status: %d, Body: %s", w.Code, w.Body.String())
	return &resp
}

func (s *E2ETestSuite) token(t *testing.T, share int) string {
	token, err := s.jwtService.GenerateToken(share, "member")
	require.NoError(t, err)
	return token
}

// testWeek picks an aligned changeover-to-changeover week a few weeks out, so
// it is inside the booking horizon and clear of the last-minute window.
func testWeek() (arrival, departure string) {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 35)
	for day.Weekday() != time.Saturday {
		day = day.AddDate(0, 0, 1)
	}
	return day.Format("2006-01-02"), day.AddDate(0, 0, 7).Format("2006-01-02")
}

func webhookSignature(bookingID int64, amount, txID string) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	fmt.Fprintf(mac, "%d:%s:%s", bookingID, amount, txID)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestAvailability_Public(t *testing.T) {
	s := setupTestSuite(t)
	arrival, departure := testWeek()

	w := s.makeRequest(t, "GET", "/api/v1/availability?arrival="+arrival+"&departure="+departure, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	resp := parseResponse(t, w)
	assert.True(t, resp.Success)
	rooms := resp.Data["available_rooms"].([]interface{})
	assert.Len(t, rooms, 9)
}

func TestCreateBooking_RequiresAuth(t *testing.T) {
	s := setupTestSuite(t)
	arrival, departure := testWeek()

	w := s.makeRequest(t, "POST", "/api/v1/bookings", gin.H{
		"arrival_date":   arrival,
		"departure_date": departure,
		"rooms":          []int{3},
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingLifecycle(t *testing.T) {
	s := setupTestSuite(t)
	arrival, departure := testWeek()
	token := s.token(t, 7)

	// Create.
	w := s.makeRequest(t, "POST", "/api/v1/bookings", gin.H{
		"arrival_date":   arrival,
		"departure_date": departure,
		"rooms":          []int{3},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := parseResponse(t, w)
	created := resp.Data["booking"].(map[string]interface{})
	bookingID := int64(created["id"].(float64))
	assert.Equal(t, "in_progress", created["status"])
	assert.Equal(t, "issued", created["payment_status"])
	cost := created["cost"].(string)

	// The held room is gone from availability.
	w = s.makeRequest(t, "GET", "/api/v1/availability?arrival="+arrival+"&departure="+departure, nil, "")
	resp = parseResponse(t, w)
	assert.Len(t, resp.Data["available_rooms"].([]interface{}), 8)

	// Another member cannot take the same room.
	w = s.makeRequest(t, "POST", "/api/v1/bookings", gin.H{
		"arrival_date":   arrival,
		"departure_date": departure,
		"rooms":          []int{3},
	}, s.token(t, 8))
	assert.Equal(t, http.StatusConflict, w.Code)
	resp = parseResponse(t, w)
	assert.Equal(t, "ROOM_UNAVAILABLE", resp.Error.Code)

	// Submit for payment.
	w = s.makeRequest(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/submit", bookingID), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Resubmitting is rejected.
	w = s.makeRequest(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/submit", bookingID), nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Gateway captures the payment.
	w = s.makeRequest(t, "POST", "/api/v1/payments/webhook", gin.H{
		"booking_id":     bookingID,
		"transaction_id": "tx-e2e-1",
		"amount":         cost,
		"signature":      webhookSignature(bookingID, cost, "tx-e2e-1"),
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var record domain.BookingRecord
	require.NoError(t, s.db.First(&record, bookingID).Error)
	assert.Equal(t, domain.BookingFinalised, record.Status)
	assert.Equal(t, domain.PaymentPaid, record.PaymentStatus)
	assert.Equal(t, "tx-e2e-1", record.TransactionID)

	// Finalised bookings cannot be cancelled through the member API.
	w = s.makeRequest(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The stay shows on the public calendar.
	w = s.makeRequest(t, "GET", "/api/v1/calendar?from="+arrival+"&to="+departure, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = parseResponse(t, w)
	blocks := resp.Data["blocks"].([]interface{})
	require.Len(t, blocks, 1)
	block := blocks[0].(map[string]interface{})
	assert.Equal(t, float64(3), block["room_number"])
}

func TestCreateBooking_PastDates(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(t, "POST", "/api/v1/bookings", gin.H{
		"arrival_date":   "2020-01-04",
		"departure_date": "2020-01-11",
		"rooms":          []int{3},
	}, s.token(t, 7))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseResponse(t, w)
	assert.Equal(t, "INVALID_DATE_RANGE", resp.Error.Code)
}

func TestCancel_OtherMembersBooking(t *testing.T) {
	s := setupTestSuite(t)
	arrival, departure := testWeek()

	w := s.makeRequest(t, "POST", "/api/v1/bookings", gin.H{
		"arrival_date":   arrival,
		"departure_date": departure,
		"rooms":          []int{5},
	}, s.token(t, 7))
	require.Equal(t, http.StatusCreated, w.Code)
	resp := parseResponse(t, w)
	bookingID := int64(resp.Data["booking"].(map[string]interface{})["id"].(float64))

	w = s.makeRequest(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID), nil, s.token(t, 8))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhook_BadSignature(t *testing.T) {
	s := setupTestSuite(t)
	arrival, departure := testWeek()

	w := s.makeRequest(t, "POST", "/api/v1/bookings", gin.H{
		"arrival_date":   arrival,
		"departure_date": departure,
		"rooms":          []int{1},
	}, s.token(t, 7))
	require.Equal(t, http.StatusCreated, w.Code)
	resp := parseResponse(t, w)
	booked := resp.Data["booking"].(map[string]interface{})
	bookingID := int64(booked["id"].(float64))

	w = s.makeRequest(t, "POST", "/api/v1/payments/webhook", gin.H{
		"booking_id":     bookingID,
		"transaction_id": "tx-bad",
		"amount":         booked["cost"].(string),
		"signature":      "deadbeef",
	}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INVALID_SIGNATURE", parseResponse(t, w).Error.Code)
}

func TestMyBookings(t *testing.T) {
	s := setupTestSuite(t)
	arrival, departure := testWeek()
	token := s.token(t, 7)

	w := s.makeRequest(t, "POST", "/api/v1/bookings", gin.H{
		"arrival_date":   arrival,
		"departure_date": departure,
		"rooms":          []int{2, 4},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.makeRequest(t, "GET", "/api/v1/bookings/mine", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := parseResponse(t, w)
	bookings := resp.Data["bookings"].([]interface{})
	require.Len(t, bookings, 1)
	mine := bookings[0].(map[string]interface{})
	assert.Equal(t, arrival, mine["arrival_date"])
	assert.Len(t, mine["rooms"].([]interface{}), 2)

	// Another member sees nothing.
	w = s.makeRequest(t, "GET", "/api/v1/bookings/mine", nil, s.token(t, 8))
	resp = parseResponse(t, w)
	assert.Empty(t, resp.Data["bookings"])
}
