package memory

import (
	"context"
	"testing"
	"time"

	"museumBooker/internal/models"
	"museumBooker/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = models.NewSlotKey(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), "10:00 AM", "Regular")

func seedSlot(t *testing.T, s *Storage, capacity int) {
	t.Helper()

	err := storage.WithTx(context.Background(), s, func(tx storage.Tx) error {
		_, err := tx.InsertSlot(context.Background(), testKey, capacity)
		return err
	})
	require.NoError(t, err)
}

func TestReserveSeats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(time.Second)
	seedSlot(t, s, 50)

	tx, err := s.BeginTransaction(ctx)
	require.NoError(t, err)

	slot, err := tx.ReserveSeats(ctx, testKey, 49)
	require.NoError(t, err)
	assert.Equal(t, 49, slot.Booked)

	_, err = tx.ReserveSeats(ctx, testKey, 2)
	assert.ErrorIs(t, err, storage.ErrSlotFull)

	slot, err = tx.ReserveSeats(ctx, testKey, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, slot.Booked)

	require.NoError(t, tx.Commit())
}

func TestRollbackRestoresState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(time.Second)
	seedSlot(t, s, 10)

	tx, err := s.BeginTransaction(ctx)
	require.NoError(t, err)

	_, err = tx.ReserveSeats(ctx, testKey, 4)
	require.NoError(t, err)
	_, err = tx.CommitSeats(ctx, testKey, 4)
	require.NoError(t, err)
	require.NoError(t, tx.InsertBooking(ctx, models.Booking{ID: "b1", Date: testKey.Date}))

	require.NoError(t, tx.Rollback())
	assert.NoError(t, tx.Rollback(), "second rollback is a no-op")

	check, err := s.BeginTransaction(ctx)
	require.NoError(t, err)
	defer check.Rollback()

	slot, err := check.GetSlot(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, 0, slot.Booked)
	assert.Equal(t, 0, slot.Confirmed)

	_, err = check.GetBooking(ctx, "b1")
	assert.ErrorIs(t, err, storage.ErrBookingNotFound)
}

func TestReleaseSeatsFloorsAtZero(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(time.Second)
	seedSlot(t, s, 10)

	err := storage.WithTx(ctx, s, func(tx storage.Tx) error {
		if _, err := tx.ReserveSeats(ctx, testKey, 3); err != nil {
			return err
		}
		slot, err := tx.ReleaseSeats(ctx, testKey, 5)
		if err != nil {
			return err
		}
		assert.Equal(t, 0, slot.Booked)
		return nil
	})
	require.NoError(t, err)
}

func TestInsertSlotDuplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(time.Second)
	seedSlot(t, s, 10)

	err := storage.WithTx(ctx, s, func(tx storage.Tx) error {
		_, err := tx.InsertSlot(ctx, testKey, 10)
		return err
	})
	assert.ErrorIs(t, err, storage.ErrSlotExists)
}

func TestRowLockTimeout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(50 * time.Millisecond)
	seedSlot(t, s, 10)

	holder, err := s.BeginTransaction(ctx)
	require.NoError(t, err)
	_, err = holder.ReserveSeats(ctx, testKey, 1)
	require.NoError(t, err)

	waiter, err := s.BeginTransaction(ctx)
	require.NoError(t, err)
	defer waiter.Rollback()

	_, err = waiter.ReserveSeats(ctx, testKey, 1)
	assert.ErrorIs(t, err, storage.ErrLockTimeout)

	require.NoError(t, holder.Commit())

	slot, err := waiter.ReserveSeats(ctx, testKey, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, slot.Booked)
}

func TestDifferentSlotsDoNotBlock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(50 * time.Millisecond)
	other := models.NewSlotKey(testKey.Date, "2:00 PM", "Regular")

	err := storage.WithTx(ctx, s, func(tx storage.Tx) error {
		if _, err := tx.InsertSlot(ctx, testKey, 10); err != nil {
			return err
		}
		_, err := tx.InsertSlot(ctx, other, 10)
		return err
	})
	require.NoError(t, err)

	holder, err := s.BeginTransaction(ctx)
	require.NoError(t, err)
	defer holder.Rollback()
	_, err = holder.ReserveSeats(ctx, testKey, 1)
	require.NoError(t, err)

	err = storage.WithTx(ctx, s, func(tx storage.Tx) error {
		_, err := tx.ReserveSeats(ctx, other, 1)
		return err
	})
	assert.NoError(t, err)
}

func TestListSlotsOrdered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(time.Second)
	day := testKey.Date

	keys := []models.SlotKey{
		models.NewSlotKey(day.AddDate(0, 0, 1), "10:00 AM", "Regular"),
		models.NewSlotKey(day, "2:00 PM", "Regular"),
		models.NewSlotKey(day, "10:00 AM", "Regular"),
		models.NewSlotKey(day.AddDate(0, 0, 5), "10:00 AM", "Regular"),
	}

	err := storage.WithTx(ctx, s, func(tx storage.Tx) error {
		for _, k := range keys {
			if _, err := tx.InsertSlot(ctx, k, 10); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	tx, err := s.BeginTransaction(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	slots, err := tx.ListSlots(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "10:00 AM", slots[0].Key.TimeLabel)
	assert.Equal(t, "2:00 PM", slots[1].Key.TimeLabel)
	assert.True(t, slots[2].Key.Date.Equal(day.AddDate(0, 0, 1)))
}

func TestPaymentsByBooking(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(time.Second)
	now := time.Now().UTC()

	err := storage.WithTx(ctx, s, func(tx storage.Tx) error {
		if err := tx.InsertPayment(ctx, models.Payment{ID: "p2", BookingID: "b1", TransactionRef: "t2", CreatedAt: now.Add(time.Second)}); err != nil {
			return err
		}
		if err := tx.InsertPayment(ctx, models.Payment{ID: "p1", BookingID: "b1", TransactionRef: "t1", CreatedAt: now}); err != nil {
			return err
		}
		return tx.InsertPayment(ctx, models.Payment{ID: "p3", BookingID: "b2", TransactionRef: "t3", CreatedAt: now})
	})
	require.NoError(t, err)

	err = storage.WithTx(ctx, s, func(tx storage.Tx) error {
		return tx.InsertPayment(ctx, models.Payment{ID: "p4", BookingID: "b1", TransactionRef: "t1"})
	})
	assert.ErrorIs(t, err, storage.ErrPaymentExists)

	tx, err := s.BeginTransaction(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	payments, err := tx.PaymentsByBooking(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "p1", payments[0].ID)
	assert.Equal(t, "p2", payments[1].ID)
}

func TestBookingsByDate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New(time.Second)
	day := testKey.Date
	now := time.Now().UTC()

	err := storage.WithTx(ctx, s, func(tx storage.Tx) error {
		for _, b := range []models.Booking{
			{ID: "late", Date: day, CreatedAt: now.Add(time.Minute)},
			{ID: "other-day", Date: day.AddDate(0, 0, 1), CreatedAt: now},
			{ID: "early", Date: day.Add(15 * time.Hour), CreatedAt: now},
		} {
			if err := tx.InsertBooking(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	tx, err := s.BeginTransaction(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	bookings, err := tx.BookingsByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "early", bookings[0].ID)
	assert.Equal(t, "late", bookings[1].ID)

	none, err := tx.BookingsByDate(ctx, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
