// Package calendar reports slot availability per day and per month.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"museumBooker/internal/ledger"
	"museumBooker/internal/models"
)

var (
	// ErrNoSlots is returned for a past date that never had slots.
	ErrNoSlots      = errors.New("no time slots for date")
	ErrInvalidMonth = errors.New("invalid year or month")
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusLimited     Status = "limited"
	StatusFull        Status = "full"
	StatusUnavailable Status = "unavailable"
)

type SlotLedger interface {
	GetOrCreateSlot(ctx context.Context, key models.SlotKey) (models.Slot, error)
	Slots(ctx context.Context, from, to time.Time) ([]models.Slot, error)
}

var _ SlotLedger = (*ledger.Ledger)(nil)

type Service struct {
	log          *slog.Logger
	ledger       SlotLedger
	defaultTimes []string
	defaultType  string
	now          func() time.Time
}

func New(log *slog.Logger, l SlotLedger, defaultTimes []string, defaultType string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{
		log:          log,
		ledger:       l,
		defaultTimes: defaultTimes,
		defaultType:  defaultType,
		now:          now,
	}
}

type SlotAvailability struct {
	Time       string `json:"time"`
	Available  int    `json:"available"`
	TicketType string `json:"ticket_type"`
}

type DaySlot struct {
	Time       string `json:"time"`
	Available  int    `json:"available"`
	Capacity   int    `json:"capacity"`
	Booked     int    `json:"booked"`
	TicketType string `json:"ticket_type"`
}

type SlotSummary struct {
	Time      string `json:"time"`
	Available int    `json:"available"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Status    Status `json:"status"`
}

type Day struct {
	Status Status        `json:"status"`
	Slots  []SlotSummary `json:"slots"`
}

// Availability lists the slots of date, creating the default slots for a
// date that is today or later and has none yet.
func (s *Service) Availability(ctx context.Context, date time.Time) ([]SlotAvailability, error) {
	const op = "calendar.Availability"

	slots, err := s.daySlots(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		out = append(out, SlotAvailability{
			Time:       slot.Key.TimeLabel,
			Available:  slot.Available(),
			TicketType: slot.Key.TicketType,
		})
	}

	return out, nil
}

// DaySlots is Availability with the capacity and booked counts of each slot.
func (s *Service) DaySlots(ctx context.Context, date time.Time) ([]DaySlot, error) {
	const op = "calendar.DaySlots"

	slots, err := s.daySlots(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]DaySlot, 0, len(slots))
	for _, slot := range slots {
		out = append(out, DaySlot{
			Time:       slot.Key.TimeLabel,
			Available:  slot.Available(),
			Capacity:   slot.Capacity,
			Booked:     slot.Booked,
			TicketType: slot.Key.TicketType,
		})
	}

	return out, nil
}

func (s *Service) daySlots(ctx context.Context, date time.Time) ([]models.Slot, error) {
	date = models.DateOnly(date)

	slots, err := s.ledger.Slots(ctx, date, date)
	if err != nil {
		return nil, err
	}

	if len(slots) > 0 {
		return slots, nil
	}
	if s.isPast(date) {
		return nil, ErrNoSlots
	}

	return s.createDefaults(ctx, date)
}

// Month returns the status of every day of the month keyed by YYYY-MM-DD.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (map[string]Day, error) {
	const op = "calendar.Month"

	if year < 1 || year > 9999 || month < time.January || month > time.December {
		return nil, ErrInvalidMonth
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	slots, err := s.ledger.Slots(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byDay := make(map[string][]models.Slot)
	for _, slot := range slots {
		d := slot.Key.Date.Format(models.DateLayout)
		byDay[d] = append(byDay[d], slot)
	}

	out := make(map[string]Day, last.Day())
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		d := day.Format(models.DateLayout)

		daySlots := byDay[d]
		if len(daySlots) == 0 && !s.isPast(day) {
			daySlots, err = s.createDefaults(ctx, day)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}

		out[d] = summarize(daySlots)
	}

	return out, nil
}

func (s *Service) createDefaults(ctx context.Context, date time.Time) ([]models.Slot, error) {
	slots := make([]models.Slot, 0, len(s.defaultTimes))
	for _, t := range s.defaultTimes {
		slot, err := s.ledger.GetOrCreateSlot(ctx, models.NewSlotKey(date, t, s.defaultType))
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	s.log.Debug("default slots created",
		slog.String("date", date.Format(models.DateLayout)),
		slog.Int("count", len(slots)),
	)

	return slots, nil
}

func (s *Service) isPast(date time.Time) bool {
	return models.DateOnly(date).Before(models.DateOnly(s.now().UTC()))
}

func summarize(slots []models.Slot) Day {
	if len(slots) == 0 {
		return Day{Status: StatusUnavailable, Slots: []SlotSummary{}}
	}

	day := Day{Slots: make([]SlotSummary, 0, len(slots))}
	for _, slot := range slots {
		day.Slots = append(day.Slots, SlotSummary{
			Time:      slot.Key.TimeLabel,
			Available: slot.Available(),
			Capacity:  slot.Capacity,
			Booked:    slot.Booked,
			Status:    SlotStatus(slot),
		})
	}
	day.Status = DayStatus(slots)

	return day
}

// SlotStatus is full at capacity and limited once 80% of seats are booked.
func SlotStatus(slot models.Slot) Status {
	available := slot.Available()
	switch {
	case available == 0:
		return StatusFull
	case available*5 <= slot.Capacity:
		return StatusLimited
	}
	return StatusAvailable
}

// DayStatus is the most restrictive status among the day's slots.
func DayStatus(slots []models.Slot) Status {
	if len(slots) == 0 {
		return StatusUnavailable
	}

	status := StatusAvailable
	for _, slot := range slots {
		switch SlotStatus(slot) {
		case StatusFull:
			return StatusFull
		case StatusLimited:
			status = StatusLimited
		}
	}

	return status
}
