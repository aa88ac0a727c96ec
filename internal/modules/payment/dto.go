package payment

// CaptureNotification is the gateway's capture callback payload.
type CaptureNotification struct {
	BookingID     int64  `json:"booking_id" binding:"required"`
	TransactionID string `json:"transaction_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}
