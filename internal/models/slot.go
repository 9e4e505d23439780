package models

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// SlotKey identifies a bookable slot.
type SlotKey struct {
	Date       time.Time `json:"date"`
	TimeLabel  string    `json:"time"`
	TicketType string    `json:"ticket_type"`
}

func NewSlotKey(date time.Time, timeLabel, ticketType string) SlotKey {
	return SlotKey{
		Date:       DateOnly(date),
		TimeLabel:  timeLabel,
		TicketType: ticketType,
	}
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Date.Format(DateLayout), k.TimeLabel, k.TicketType)
}

type Slot struct {
	ID        int64   `json:"-"`
	Key       SlotKey `json:"key"`
	Capacity  int     `json:"capacity"`
	Booked    int     `json:"booked"`
	Confirmed int     `json:"confirmed"`
}

func (s Slot) Available() int {
	if s.Booked >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Booked
}

// ParseDate parses a YYYY-MM-DD visit date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
