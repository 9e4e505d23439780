// Package memory is a process-local storage driver for local runs and tests.
//
// Writes take a per-row lock that is held until the transaction commits or
// rolls back, mirroring row-level locking in Postgres. Reads do not take
// locks and may observe uncommitted writes.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"museumBooker/internal/models"
	"museumBooker/internal/storage"
)

var errTxDone = errors.New("transaction has already been committed or rolled back")

type Storage struct {
	mu          sync.RWMutex
	lockTimeout time.Duration

	nextSlotID int64
	slots      map[string]*models.Slot
	bookings   map[string]models.Booking
	payments   map[string]models.Payment
	rowLocks   map[string]chan struct{}
}

// New creates an empty store. A non-positive lockTimeout waits for row locks
// until the caller's context is done.
func New(lockTimeout time.Duration) *Storage {
	return &Storage{
		lockTimeout: lockTimeout,
		slots:       make(map[string]*models.Slot),
		bookings:    make(map[string]models.Booking),
		payments:    make(map[string]models.Payment),
		rowLocks:    make(map[string]chan struct{}),
	}
}

func (s *Storage) BeginTransaction(ctx context.Context) (storage.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{
		s:    s,
		held: make(map[string]chan struct{}),
	}, nil
}

func (s *Storage) Close() error {
	return nil
}

type Tx struct {
	s    *Storage
	held map[string]chan struct{}
	undo []func()
	done bool
}

func (t *Tx) Commit() error {
	if t.done {
		return errTxDone
	}

	t.done = true
	t.undo = nil
	t.release()

	return nil
}

func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}

	t.s.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.s.mu.Unlock()

	t.done = true
	t.undo = nil
	t.release()

	return nil
}

func (t *Tx) release() {
	for row, ch := range t.held {
		<-ch
		delete(t.held, row)
	}
}

// lock acquires the row lock, waiting at most the store's lock timeout.
func (t *Tx) lock(ctx context.Context, row string) error {
	if t.done {
		return errTxDone
	}
	if _, ok := t.held[row]; ok {
		return nil
	}

	t.s.mu.Lock()
	ch, ok := t.s.rowLocks[row]
	if !ok {
		ch = make(chan struct{}, 1)
		t.s.rowLocks[row] = ch
	}
	t.s.mu.Unlock()

	waitCtx := ctx
	if t.s.lockTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, t.s.lockTimeout)
		defer cancel()
	}

	select {
	case ch <- struct{}{}:
		t.held[row] = ch
		return nil
	case <-waitCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return storage.ErrLockTimeout
	}
}

func slotRow(key models.SlotKey) string { return "slot:" + key.String() }
func bookingRow(id string) string       { return "booking:" + id }
func paymentRow(id string) string       { return "payment:" + id }

func (t *Tx) GetSlot(_ context.Context, key models.SlotKey) (models.Slot, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	slot, ok := t.s.slots[key.String()]
	if !ok {
		return models.Slot{}, storage.ErrSlotNotFound
	}

	return *slot, nil
}

func (t *Tx) InsertSlot(ctx context.Context, key models.SlotKey, capacity int) (models.Slot, error) {
	if err := t.lock(ctx, slotRow(key)); err != nil {
		return models.Slot{}, err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	id := key.String()
	if _, ok := t.s.slots[id]; ok {
		return models.Slot{}, storage.ErrSlotExists
	}

	t.s.nextSlotID++
	slot := &models.Slot{
		ID:       t.s.nextSlotID,
		Key:      models.NewSlotKey(key.Date, key.TimeLabel, key.TicketType),
		Capacity: capacity,
	}
	t.s.slots[id] = slot
	t.undo = append(t.undo, func() { delete(t.s.slots, id) })

	return *slot, nil
}

// updateSlot locks the slot row and applies fn to it under the store mutex.
// fn reports an error to leave the slot untouched.
func (t *Tx) updateSlot(ctx context.Context, key models.SlotKey, fn func(s *models.Slot) error) (models.Slot, error) {
	if err := t.lock(ctx, slotRow(key)); err != nil {
		return models.Slot{}, err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	slot, ok := t.s.slots[key.String()]
	if !ok {
		return models.Slot{}, storage.ErrSlotNotFound
	}

	prev := *slot
	if err := fn(slot); err != nil {
		return models.Slot{}, err
	}
	t.undo = append(t.undo, func() { *slot = prev })

	return *slot, nil
}

func (t *Tx) ReserveSeats(ctx context.Context, key models.SlotKey, n int) (models.Slot, error) {
	return t.updateSlot(ctx, key, func(s *models.Slot) error {
		if s.Booked+n > s.Capacity {
			return storage.ErrSlotFull
		}
		s.Booked += n
		return nil
	})
}

func (t *Tx) ReleaseSeats(ctx context.Context, key models.SlotKey, n int) (models.Slot, error) {
	return t.updateSlot(ctx, key, func(s *models.Slot) error {
		s.Booked = max(s.Booked-n, 0)
		return nil
	})
}

func (t *Tx) CommitSeats(ctx context.Context, key models.SlotKey, n int) (models.Slot, error) {
	return t.updateSlot(ctx, key, func(s *models.Slot) error {
		if s.Confirmed+n > s.Capacity {
			return storage.ErrSlotFull
		}
		s.Confirmed += n
		return nil
	})
}

func (t *Tx) ListSlots(_ context.Context, from, to time.Time) ([]models.Slot, error) {
	from, to = models.DateOnly(from), models.DateOnly(to)

	t.s.mu.RLock()
	out := make([]models.Slot, 0)
	for _, slot := range t.s.slots {
		if slot.Key.Date.Before(from) || slot.Key.Date.After(to) {
			continue
		}
		out = append(out, *slot)
	}
	t.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Key, out[j].Key
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.TimeLabel != b.TimeLabel {
			return a.TimeLabel < b.TimeLabel
		}
		return a.TicketType < b.TicketType
	})

	return out, nil
}

func (t *Tx) InsertBooking(ctx context.Context, b models.Booking) error {
	if err := t.lock(ctx, bookingRow(b.ID)); err != nil {
		return err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.bookings[b.ID]; ok {
		return storage.ErrBookingExists
	}

	b.Date = models.DateOnly(b.Date)
	t.s.bookings[b.ID] = b
	t.undo = append(t.undo, func() { delete(t.s.bookings, b.ID) })

	return nil
}

func (t *Tx) GetBooking(_ context.Context, id string) (models.Booking, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	b, ok := t.s.bookings[id]
	if !ok {
		return models.Booking{}, storage.ErrBookingNotFound
	}

	return b, nil
}

func (t *Tx) BookingsByDate(_ context.Context, date time.Time) ([]models.Booking, error) {
	date = models.DateOnly(date)

	t.s.mu.RLock()
	out := make([]models.Booking, 0)
	for _, b := range t.s.bookings {
		if b.Date.Equal(date) {
			out = append(out, b)
		}
	}
	t.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (t *Tx) LockBooking(ctx context.Context, id string) (models.Booking, error) {
	if err := t.lock(ctx, bookingRow(id)); err != nil {
		return models.Booking{}, err
	}

	return t.GetBooking(ctx, id)
}

func (t *Tx) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, paymentStatus models.PaymentStatus) error {
	if err := t.lock(ctx, bookingRow(id)); err != nil {
		return err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	prev, ok := t.s.bookings[id]
	if !ok {
		return storage.ErrBookingNotFound
	}

	next := prev
	next.Status = status
	next.PaymentStatus = paymentStatus
	next.UpdatedAt = time.Now().UTC()
	t.s.bookings[id] = next
	t.undo = append(t.undo, func() { t.s.bookings[id] = prev })

	return nil
}

func (t *Tx) InsertPayment(ctx context.Context, p models.Payment) error {
	if err := t.lock(ctx, paymentRow(p.ID)); err != nil {
		return err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.payments[p.ID]; ok {
		return storage.ErrPaymentExists
	}
	for _, other := range t.s.payments {
		if other.TransactionRef == p.TransactionRef {
			return storage.ErrPaymentExists
		}
	}

	t.s.payments[p.ID] = p
	t.undo = append(t.undo, func() { delete(t.s.payments, p.ID) })

	return nil
}

func (t *Tx) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	if err := t.lock(ctx, paymentRow(id)); err != nil {
		return err
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	prev, ok := t.s.payments[id]
	if !ok {
		return storage.ErrPaymentNotFound
	}

	next := prev
	next.Status = status
	t.s.payments[id] = next
	t.undo = append(t.undo, func() { t.s.payments[id] = prev })

	return nil
}

func (t *Tx) GetPayment(_ context.Context, id string) (models.Payment, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	p, ok := t.s.payments[id]
	if !ok {
		return models.Payment{}, storage.ErrPaymentNotFound
	}

	return p, nil
}

func (t *Tx) PaymentsByBooking(_ context.Context, bookingID string) ([]models.Payment, error) {
	t.s.mu.RLock()
	var out []models.Payment
	for _, p := range t.s.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	t.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
