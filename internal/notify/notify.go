// Package notify delivers booking confirmation notices.
package notify

import (
	"context"
	"log/slog"
)

// EventBookingConfirmed is the routing key of confirmation events.
const EventBookingConfirmed = "booking.confirmed"

type Confirmation struct {
	Recipient   string  `json:"recipient"`
	BookingID   string  `json:"booking_id"`
	Date        string  `json:"date"`
	TimeSlot    string  `json:"time_slot"`
	Adults      int     `json:"adults"`
	Children    int     `json:"children"`
	TotalAmount float64 `json:"total_amount"`
}

type Notifier interface {
	Notify(ctx context.Context, c Confirmation) error
	Close() error
}

// LogNotifier writes confirmations to the log instead of sending them.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, c Confirmation) error {
	n.log.Info("booking confirmation",
		slog.String("event", EventBookingConfirmed),
		slog.String("recipient", c.Recipient),
		slog.String("booking_id", c.BookingID),
		slog.String("date", c.Date),
		slog.String("time_slot", c.TimeSlot),
		slog.Int("adults", c.Adults),
		slog.Int("children", c.Children),
		slog.Float64("total_amount", c.TotalAmount),
	)
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
