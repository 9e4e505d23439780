package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

type Booking struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	Date          time.Time     `json:"date"`
	Nationality   string        `json:"nationality"`
	Adults        int           `json:"adults"`
	Children      int           `json:"children"`
	TicketType    string        `json:"ticket_type"`
	TimeSlot      string        `json:"time_slot"`
	TotalAmount   float64       `json:"total_amount"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (b Booking) PartySize() int {
	return b.Adults + b.Children
}

func (b Booking) SlotKey() SlotKey {
	return NewSlotKey(b.Date, b.TimeSlot, b.TicketType)
}
