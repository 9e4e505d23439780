package models

import "time"

type Payment struct {
	ID             string        `json:"id"`
	BookingID      string        `json:"booking_id"`
	Amount         float64       `json:"amount"`
	Method         string        `json:"payment_method"`
	Status         PaymentStatus `json:"status"`
	TransactionRef string        `json:"transaction_id"`
	CreatedAt      time.Time     `json:"created_at"`
}
