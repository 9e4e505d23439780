// Package ledger is the only mutator of slot booked and confirmed counts.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"museumBooker/internal/models"
	"museumBooker/internal/storage"
)

var (
	// ErrCapacityExceeded is an expected outcome: the slot has no room for the party.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrSlotNotFound     = errors.New("slot not found")
	ErrInvalidPartySize = errors.New("party size must be positive")
)

const getOrCreateAttempts = 3

type Ledger struct {
	log             *slog.Logger
	store           storage.Store
	defaultCapacity int
}

func New(log *slog.Logger, store storage.Store, defaultCapacity int) *Ledger {
	return &Ledger{
		log:             log,
		store:           store,
		defaultCapacity: defaultCapacity,
	}
}

// GetOrCreateSlot returns the slot for key, inserting it with the default
// capacity when missing. A concurrent insert of the same key is resolved by
// fetching the winner's row.
func (l *Ledger) GetOrCreateSlot(ctx context.Context, key models.SlotKey) (models.Slot, error) {
	const op = "ledger.GetOrCreateSlot"

	key = models.NewSlotKey(key.Date, key.TimeLabel, key.TicketType)

	var lastErr error
	for attempt := 0; attempt < getOrCreateAttempts; attempt++ {
		var slot models.Slot

		err := storage.WithTx(ctx, l.store, func(tx storage.Tx) error {
			var err error
			slot, err = tx.GetSlot(ctx, key)
			if !errors.Is(err, storage.ErrSlotNotFound) {
				return err
			}

			slot, err = tx.InsertSlot(ctx, key, l.defaultCapacity)
			return err
		})
		if err == nil {
			return slot, nil
		}
		if !errors.Is(err, storage.ErrSlotExists) {
			return models.Slot{}, fmt.Errorf("%s: %w", op, err)
		}

		l.log.Debug("slot created concurrently, refetching",
			slog.String("op", op),
			slog.String("slot", key.String()),
			slog.Int("attempt", attempt+1),
		)
		lastErr = err
	}

	return models.Slot{}, fmt.Errorf("%s: %w", op, lastErr)
}

// TryReserve atomically adds partySize to the booked count of the slot if it
// fits. ErrCapacityExceeded leaves the slot unchanged.
func (l *Ledger) TryReserve(ctx context.Context, key models.SlotKey, partySize int) (models.Slot, error) {
	const op = "ledger.TryReserve"

	if partySize <= 0 {
		return models.Slot{}, fmt.Errorf("%s: %w", op, ErrInvalidPartySize)
	}

	var slot models.Slot
	err := storage.WithTx(ctx, l.store, func(tx storage.Tx) error {
		var err error
		slot, err = tx.ReserveSeats(ctx, key, partySize)
		return err
	})
	if err != nil {
		return models.Slot{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	l.log.Debug("seats reserved",
		slog.String("op", op),
		slog.String("slot", key.String()),
		slog.Int("party_size", partySize),
		slog.Int("booked", slot.Booked),
		slog.Int("capacity", slot.Capacity),
	)

	return slot, nil
}

// Release gives back partySize seats, never dropping the booked count below
// zero. It is the compensation for a reservation whose booking was not saved.
func (l *Ledger) Release(ctx context.Context, key models.SlotKey, partySize int) (models.Slot, error) {
	const op = "ledger.Release"

	if partySize <= 0 {
		return models.Slot{}, fmt.Errorf("%s: %w", op, ErrInvalidPartySize)
	}

	var slot models.Slot
	err := storage.WithTx(ctx, l.store, func(tx storage.Tx) error {
		var err error
		slot, err = tx.ReleaseSeats(ctx, key, partySize)
		return err
	})
	if err != nil {
		return models.Slot{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	return slot, nil
}

// Commit moves partySize seats into the confirmed count inside the caller's
// transaction, so it applies or rolls back together with the caller's writes.
func (l *Ledger) Commit(ctx context.Context, tx storage.Tx, key models.SlotKey, partySize int) (models.Slot, error) {
	const op = "ledger.Commit"

	if partySize <= 0 {
		return models.Slot{}, fmt.Errorf("%s: %w", op, ErrInvalidPartySize)
	}

	slot, err := tx.CommitSeats(ctx, key, partySize)
	if err != nil {
		return models.Slot{}, fmt.Errorf("%s: %w", op, translate(err))
	}

	return slot, nil
}

// Slots lists the slots whose date lies in [from, to].
func (l *Ledger) Slots(ctx context.Context, from, to time.Time) ([]models.Slot, error) {
	const op = "ledger.Slots"

	var slots []models.Slot
	err := storage.WithTx(ctx, l.store, func(tx storage.Tx) error {
		var err error
		slots, err = tx.ListSlots(ctx, from, to)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slots, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, storage.ErrSlotFull):
		return ErrCapacityExceeded
	case errors.Is(err, storage.ErrSlotNotFound):
		return ErrSlotNotFound
	}
	return err
}
