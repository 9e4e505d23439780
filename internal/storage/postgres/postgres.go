package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"museumBooker/internal/config"
	"museumBooker/internal/models"
	"museumBooker/internal/storage"

	"github.com/lib/pq"
)

var errUnknownStatus = errors.New("unknown status in row")

type Storage struct {
	DB          *sql.DB
	lockTimeout time.Duration
}

func InitDB(dbCfg *config.Database, lockTimeout time.Duration) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return New(db, lockTimeout), nil
}

func New(db *sql.DB, lockTimeout time.Duration) *Storage {
	return &Storage{DB: db, lockTimeout: lockTimeout}
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

// BeginTransaction opens a READ COMMITTED transaction whose lock waits are
// bounded by the storage lock timeout.
func (s *Storage) BeginTransaction(ctx context.Context) (storage.Tx, error) {
	const op = "storage.postgres.BeginTransaction"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, mapErr(err))
	}

	if s.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", s.lockTimeout.Milliseconds())
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("%s: failed to set lock timeout: %w", op, mapErr(err))
		}
	}

	return &Tx{tx: tx}, nil
}

// mapErr turns lock and cancellation failures into storage.ErrLockTimeout.
func mapErr(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "55P03", "40001", "40P01", "57014":
			return fmt.Errorf("%w: %s", storage.ErrLockTimeout, pqErr.Message)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", storage.ErrLockTimeout, err)
	}

	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit() error {
	return mapErr(t.tx.Commit())
}

func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

const slotColumns = `id, slot_date, slot_time, ticket_type, capacity, booked_count, confirmed_count`

func scanSlot(row scanner) (models.Slot, error) {
	var slot models.Slot
	var date time.Time

	err := row.Scan(
		&slot.ID,
		&date,
		&slot.Key.TimeLabel,
		&slot.Key.TicketType,
		&slot.Capacity,
		&slot.Booked,
		&slot.Confirmed,
	)
	if err != nil {
		return models.Slot{}, err
	}

	slot.Key.Date = models.DateOnly(date)

	return slot, nil
}

func dateArg(t time.Time) string {
	return t.Format(models.DateLayout)
}

func (t *Tx) GetSlot(ctx context.Context, key models.SlotKey) (models.Slot, error) {
	const op = "storage.postgres.GetSlot"

	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE slot_date = $1::date AND slot_time = $2 AND ticket_type = $3`

	slot, err := scanSlot(t.tx.QueryRowContext(ctx, query, dateArg(key.Date), key.TimeLabel, key.TicketType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Slot{}, storage.ErrSlotNotFound
		}
		return models.Slot{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return slot, nil
}

func (t *Tx) InsertSlot(ctx context.Context, key models.SlotKey, capacity int) (models.Slot, error) {
	const op = "storage.postgres.InsertSlot"

	query := `
		INSERT INTO time_slots (slot_date, slot_time, ticket_type, capacity)
		VALUES ($1::date, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT unique_timeslot DO NOTHING
		RETURNING ` + slotColumns

	slot, err := scanSlot(t.tx.QueryRowContext(ctx, query, dateArg(key.Date), key.TimeLabel, key.TicketType, capacity))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isUniqueViolation(err) {
			return models.Slot{}, storage.ErrSlotExists
		}
		return models.Slot{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return slot, nil
}

// updateSlot runs a conditional UPDATE ... RETURNING against one slot row.
// When no row qualifies, failed is returned if the slot exists.
func (t *Tx) updateSlot(ctx context.Context, op, set, cond string, key models.SlotKey, n int, failed error) (models.Slot, error) {
	query := `
		UPDATE time_slots
		SET ` + set + `
		WHERE slot_date = $1::date AND slot_time = $2 AND ticket_type = $3` + cond + `
		RETURNING ` + slotColumns

	slot, err := scanSlot(t.tx.QueryRowContext(ctx, query, dateArg(key.Date), key.TimeLabel, key.TicketType, n))
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Slot{}, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	if _, err = t.GetSlot(ctx, key); err != nil {
		return models.Slot{}, err
	}

	return models.Slot{}, failed
}

func (t *Tx) ReserveSeats(ctx context.Context, key models.SlotKey, n int) (models.Slot, error) {
	return t.updateSlot(ctx, "storage.postgres.ReserveSeats",
		`booked_count = booked_count + $4`,
		` AND booked_count + $4 <= capacity`,
		key, n, storage.ErrSlotFull)
}

func (t *Tx) ReleaseSeats(ctx context.Context, key models.SlotKey, n int) (models.Slot, error) {
	return t.updateSlot(ctx, "storage.postgres.ReleaseSeats",
		`booked_count = GREATEST(booked_count - $4, 0)`,
		``,
		key, n, storage.ErrSlotNotFound)
}

func (t *Tx) CommitSeats(ctx context.Context, key models.SlotKey, n int) (models.Slot, error) {
	return t.updateSlot(ctx, "storage.postgres.CommitSeats",
		`confirmed_count = confirmed_count + $4`,
		` AND confirmed_count + $4 <= capacity`,
		key, n, storage.ErrSlotFull)
}

func (t *Tx) ListSlots(ctx context.Context, from, to time.Time) ([]models.Slot, error) {
	const op = "storage.postgres.ListSlots"

	query := `
		SELECT ` + slotColumns + `
		FROM time_slots
		WHERE slot_date BETWEEN $1::date AND $2::date
		ORDER BY slot_date, slot_time, ticket_type`

	rows, err := t.tx.QueryContext(ctx, query, dateArg(from), dateArg(to))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get slots: %w", op, mapErr(err))
	}
	defer rows.Close()

	slots := make([]models.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan slot: %w", op, err)
		}
		slots = append(slots, slot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: error iterating slots: %w", op, err)
	}

	return slots, nil
}

const bookingColumns = `booking_id, email, visit_date, nationality, adults, children, ticket_type,
		time_slot, total_amount, status, payment_status, created_at, updated_at`

func scanBooking(row scanner) (models.Booking, error) {
	var b models.Booking

	err := row.Scan(
		&b.ID,
		&b.Email,
		&b.Date,
		&b.Nationality,
		&b.Adults,
		&b.Children,
		&b.TicketType,
		&b.TimeSlot,
		&b.TotalAmount,
		&b.Status,
		&b.PaymentStatus,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}

	if !b.Status.Valid() || !b.PaymentStatus.Valid() {
		return models.Booking{}, fmt.Errorf("%w: booking %s has status %q/%q", errUnknownStatus, b.ID, b.Status, b.PaymentStatus)
	}

	b.Date = models.DateOnly(b.Date)

	return b, nil
}

func (t *Tx) InsertBooking(ctx context.Context, b models.Booking) error {
	const op = "storage.postgres.InsertBooking"

	query := `
		INSERT INTO bookings (booking_id, email, visit_date, nationality, adults, children, ticket_type,
			time_slot, total_amount, status, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`

	_, err := t.tx.ExecContext(ctx, query,
		b.ID,
		b.Email,
		dateArg(b.Date),
		b.Nationality,
		b.Adults,
		b.Children,
		b.TicketType,
		b.TimeSlot,
		b.TotalAmount,
		string(b.Status),
		string(b.PaymentStatus),
		b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrBookingExists
		}
		return fmt.Errorf("%s: failed to create booking: %w", op, mapErr(err))
	}

	return nil
}

func (t *Tx) getBooking(ctx context.Context, op, suffix, id string) (models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_id = $1` + suffix

	b, err := scanBooking(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, storage.ErrBookingNotFound
		}
		return models.Booking{}, fmt.Errorf("%s: failed to get booking: %w", op, mapErr(err))
	}

	return b, nil
}

func (t *Tx) GetBooking(ctx context.Context, id string) (models.Booking, error) {
	return t.getBooking(ctx, "storage.postgres.GetBooking", "", id)
}

func (t *Tx) LockBooking(ctx context.Context, id string) (models.Booking, error) {
	return t.getBooking(ctx, "storage.postgres.LockBooking", " FOR UPDATE", id)
}

func (t *Tx) BookingsByDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	const op = "storage.postgres.BookingsByDate"

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE visit_date = $1::date
		ORDER BY created_at, booking_id`

	rows, err := t.tx.QueryContext(ctx, query, dateArg(date))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get bookings: %w", op, mapErr(err))
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan booking: %w", op, err)
		}
		bookings = append(bookings, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: error iterating bookings: %w", op, err)
	}

	return bookings, nil
}

func (t *Tx) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, paymentStatus models.PaymentStatus) error {
	const op = "storage.postgres.UpdateBookingStatus"

	query := `
		UPDATE bookings
		SET status = $2, payment_status = $3, updated_at = NOW()
		WHERE booking_id = $1`

	res, err := t.tx.ExecContext(ctx, query, id, string(status), string(paymentStatus))
	if err != nil {
		return fmt.Errorf("%s: failed to update booking: %w", op, mapErr(err))
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrBookingNotFound
	}

	return nil
}

const paymentColumns = `payment_id, booking_id, amount, payment_method, status, transaction_id, created_at`

func scanPayment(row scanner) (models.Payment, error) {
	var p models.Payment

	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.TransactionRef,
		&p.CreatedAt,
	)
	if err != nil {
		return models.Payment{}, err
	}

	if !p.Status.Valid() {
		return models.Payment{}, fmt.Errorf("%w: payment %s has status %q", errUnknownStatus, p.ID, p.Status)
	}

	return p, nil
}

func (t *Tx) InsertPayment(ctx context.Context, p models.Payment) error {
	const op = "storage.postgres.InsertPayment"

	query := `
		INSERT INTO payments (payment_id, booking_id, amount, payment_method, status, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := t.tx.ExecContext(ctx, query,
		p.ID,
		p.BookingID,
		p.Amount,
		p.Method,
		string(p.Status),
		p.TransactionRef,
		p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrPaymentExists
		}
		return fmt.Errorf("%s: failed to create payment: %w", op, mapErr(err))
	}

	return nil
}

func (t *Tx) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	const op = "storage.postgres.UpdatePaymentStatus"

	res, err := t.tx.ExecContext(ctx, `UPDATE payments SET status = $2 WHERE payment_id = $1`, id, string(status))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrPaymentExists
		}
		return fmt.Errorf("%s: failed to update payment: %w", op, mapErr(err))
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrPaymentNotFound
	}

	return nil
}

func (t *Tx) GetPayment(ctx context.Context, id string) (models.Payment, error) {
	const op = "storage.postgres.GetPayment"

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1`

	p, err := scanPayment(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, storage.ErrPaymentNotFound
		}
		return models.Payment{}, fmt.Errorf("%s: failed to get payment: %w", op, mapErr(err))
	}

	return p, nil
}

func (t *Tx) PaymentsByBooking(ctx context.Context, bookingID string) ([]models.Payment, error) {
	const op = "storage.postgres.PaymentsByBooking"

	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at, payment_id`

	rows, err := t.tx.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get payments: %w", op, mapErr(err))
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan payment: %w", op, err)
		}
		payments = append(payments, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: error iterating payments: %w", op, err)
	}

	return payments, nil
}
