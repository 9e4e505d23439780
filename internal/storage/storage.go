package storage

import (
	"context"
	"errors"
	"time"

	"museumBooker/internal/models"
)

var (
	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotExists      = errors.New("slot already exists")
	ErrSlotFull        = errors.New("slot capacity exceeded")
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingExists   = errors.New("booking already exists")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentExists   = errors.New("payment already exists")
	// ErrLockTimeout is returned when a row lock could not be acquired in time.
	// The whole transaction should be rolled back; callers may retry it.
	ErrLockTimeout = errors.New("lock wait timed out")
)

type SlotQueries interface {
	GetSlot(ctx context.Context, key models.SlotKey) (models.Slot, error)
	// InsertSlot returns ErrSlotExists when the key is already taken.
	InsertSlot(ctx context.Context, key models.SlotKey, capacity int) (models.Slot, error)
	// ReserveSeats adds n to the booked count only if it stays within capacity,
	// otherwise it returns ErrSlotFull and changes nothing.
	ReserveSeats(ctx context.Context, key models.SlotKey, n int) (models.Slot, error)
	// ReleaseSeats subtracts n from the booked count, floored at zero.
	ReleaseSeats(ctx context.Context, key models.SlotKey, n int) (models.Slot, error)
	// CommitSeats adds n to the confirmed count only if it stays within capacity.
	CommitSeats(ctx context.Context, key models.SlotKey, n int) (models.Slot, error)
	// ListSlots returns slots with from <= date <= to ordered by date and time label.
	ListSlots(ctx context.Context, from, to time.Time) ([]models.Slot, error)
}

type BookingQueries interface {
	InsertBooking(ctx context.Context, b models.Booking) error
	GetBooking(ctx context.Context, id string) (models.Booking, error)
	// LockBooking reads a booking and holds its row lock until the transaction ends.
	LockBooking(ctx context.Context, id string) (models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, paymentStatus models.PaymentStatus) error
	// BookingsByDate returns the bookings for a visit date, oldest first.
	BookingsByDate(ctx context.Context, date time.Time) ([]models.Booking, error)
}

type PaymentQueries interface {
	InsertPayment(ctx context.Context, p models.Payment) error
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
	GetPayment(ctx context.Context, id string) (models.Payment, error)
	PaymentsByBooking(ctx context.Context, bookingID string) ([]models.Payment, error)
}

// Tx is one unit of work. Rollback after Commit is a no-op.
type Tx interface {
	SlotQueries
	BookingQueries
	PaymentQueries

	Commit() error
	Rollback() error
}

type Store interface {
	BeginTransaction(ctx context.Context) (Tx, error)
	Close() error
}

// WithTx runs fn in its own transaction, committing when fn returns nil.
func WithTx(ctx context.Context, s Store, fn func(tx Tx) error) error {
	tx, err := s.BeginTransaction(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
