// Package booking creates bookings against slot capacity and settles their payments.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"museumBooker/internal/ledger"
	"museumBooker/internal/lib/logger/sl"
	"museumBooker/internal/models"
	"museumBooker/internal/notify"
	"museumBooker/internal/pricing"
	"museumBooker/internal/storage"

	"github.com/google/uuid"
)

type PriceLookup interface {
	Lookup(nationality, ticketType string, date time.Time) (models.PricingRule, error)
}

// ConfirmationSender delivers confirmation notices without blocking the caller.
type ConfirmationSender interface {
	Dispatch(c notify.Confirmation)
}

type Workflow struct {
	log                 *slog.Logger
	store               storage.Store
	ledger              *ledger.Ledger
	prices              PriceLookup
	notifier            ConfirmationSender
	compensationTimeout time.Duration

	now   func() time.Time
	newID func() string
}

type Option func(*Workflow)

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

func WithCompensationTimeout(d time.Duration) Option {
	return func(w *Workflow) { w.compensationTimeout = d }
}

func New(
	log *slog.Logger,
	store storage.Store,
	l *ledger.Ledger,
	prices PriceLookup,
	notifier ConfirmationSender,
	opts ...Option,
) *Workflow {
	w := &Workflow{
		log:                 log,
		store:               store,
		ledger:              l,
		prices:              prices,
		notifier:            notifier,
		compensationTimeout: 5 * time.Second,
		now:                 time.Now,
		newID:               uuid.NewString,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

type CreateRequest struct {
	Date        string
	Nationality string
	Adults      int
	Children    int
	TicketType  string
	TimeSlot    string
	Email       string
}

type CreateResult struct {
	BookingID string
	Amount    float64
}

func (r CreateRequest) validate() (time.Time, error) {
	verr := &ValidationError{}

	var date time.Time
	if strings.TrimSpace(r.Date) == "" {
		verr.add("date", "is a required field")
	} else {
		d, err := models.ParseDate(r.Date)
		if err != nil {
			verr.add("date", "must be a date in YYYY-MM-DD format")
		}
		date = d
	}
	if strings.TrimSpace(r.Nationality) == "" {
		verr.add("nationality", "is a required field")
	}
	if r.Adults < 1 {
		verr.add("adults", "must be at least 1")
	}
	if r.Children < 0 {
		verr.add("children", "cannot be negative")
	}
	if strings.TrimSpace(r.TicketType) == "" {
		verr.add("ticketType", "is a required field")
	}
	if strings.TrimSpace(r.TimeSlot) == "" {
		verr.add("timeSlot", "is a required field")
	}
	if strings.TrimSpace(r.Email) == "" {
		verr.add("email", "is a required field")
	}

	return date, verr.orNil()
}

// CreateBooking reserves the party's seats and records a pending booking.
// If the booking cannot be saved the reservation is released again.
func (w *Workflow) CreateBooking(ctx context.Context, req CreateRequest) (CreateResult, error) {
	const op = "booking.CreateBooking"

	log := w.log.With(slog.String("op", op))

	date, err := req.validate()
	if err != nil {
		return CreateResult{}, err
	}

	rule, err := w.prices.Lookup(req.Nationality, req.TicketType, date)
	if err != nil {
		if errors.Is(err, pricing.ErrNotFound) {
			return CreateResult{}, ErrPricingNotFound
		}
		return CreateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	key := models.NewSlotKey(date, req.TimeSlot, req.TicketType)
	partySize := req.Adults + req.Children

	if _, err = w.ledger.GetOrCreateSlot(ctx, key); err != nil {
		return CreateResult{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}

	if _, err = w.ledger.TryReserve(ctx, key, partySize); err != nil {
		if errors.Is(err, ledger.ErrCapacityExceeded) {
			log.Info("slot has no room for party",
				slog.String("slot", key.String()),
				slog.Int("party_size", partySize),
			)
			return CreateResult{}, ErrCapacityExceeded
		}
		return CreateResult{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}

	now := w.now().UTC()
	b := models.Booking{
		ID:            w.newID(),
		Email:         req.Email,
		Date:          date,
		Nationality:   req.Nationality,
		Adults:        req.Adults,
		Children:      req.Children,
		TicketType:    req.TicketType,
		TimeSlot:      req.TimeSlot,
		TotalAmount:   rule.Total(req.Adults, req.Children),
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = storage.WithTx(ctx, w.store, func(tx storage.Tx) error {
		return tx.InsertBooking(ctx, b)
	})
	if err != nil {
		log.Error("failed to save booking, releasing reservation",
			slog.String("slot", key.String()),
			sl.Err(err),
		)
		w.compensate(ctx, key, partySize)

		return CreateResult{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}

	log.Info("booking created",
		slog.String("booking_id", b.ID),
		slog.String("slot", key.String()),
		slog.Int("party_size", partySize),
		slog.Float64("amount", b.TotalAmount),
	)

	return CreateResult{BookingID: b.ID, Amount: b.TotalAmount}, nil
}

// compensate releases seats with a context detached from the request, so a
// cancelled request still gives its reservation back.
func (w *Workflow) compensate(ctx context.Context, key models.SlotKey, partySize int) {
	const op = "booking.compensate"

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.compensationTimeout)
	defer cancel()

	if _, err := w.ledger.Release(ctx, key, partySize); err != nil {
		w.log.Error("compensation failed, seats remain reserved",
			slog.String("op", op),
			slog.String("slot", key.String()),
			slog.Int("party_size", partySize),
			sl.Err(err),
		)
	}
}

type ConfirmRequest struct {
	BookingID     string
	Amount        float64
	PaymentMethod string
}

// ConfirmPayment records a completed payment and confirms the booking in a
// single transaction. The booking row stays locked for the whole transaction,
// so concurrent confirmations of one booking are serialized and only the
// first one succeeds.
func (w *Workflow) ConfirmPayment(ctx context.Context, req ConfirmRequest) (models.Payment, error) {
	const op = "booking.ConfirmPayment"

	log := w.log.With(
		slog.String("op", op),
		slog.String("booking_id", req.BookingID),
	)

	verr := &ValidationError{}
	if strings.TrimSpace(req.BookingID) == "" {
		verr.add("booking_id", "is a required field")
	}
	if req.Amount < 0 {
		verr.add("amount", "cannot be negative")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		verr.add("payment_method", "is a required field")
	}
	if err := verr.orNil(); err != nil {
		return models.Payment{}, err
	}

	tx, err := w.store.BeginTransaction(ctx)
	if err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}
	defer tx.Rollback()

	b, err := tx.LockBooking(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return models.Payment{}, ErrNotFound
		}
		return models.Payment{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}

	if b.PaymentStatus == models.PaymentCompleted {
		return models.Payment{}, ErrAlreadyCompleted
	}
	if !models.SameAmount(b.TotalAmount, req.Amount) {
		log.Info("payment amount mismatch",
			slog.Float64("expected", b.TotalAmount),
			slog.Float64("got", req.Amount),
		)
		return models.Payment{}, ErrAmountMismatch
	}

	p := models.Payment{
		ID:             w.newID(),
		BookingID:      b.ID,
		Amount:         b.TotalAmount,
		Method:         req.PaymentMethod,
		Status:         models.PaymentPending,
		TransactionRef: w.newID(),
		CreatedAt:      w.now().UTC(),
	}
	if err = tx.InsertPayment(ctx, p); err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}

	key := b.SlotKey()

	_, err = tx.GetSlot(ctx, key)
	if err == nil {
		_, err = w.ledger.Commit(ctx, tx, key, b.PartySize())
	}
	if err != nil {
		var outcome error
		switch {
		case errors.Is(err, storage.ErrSlotNotFound), errors.Is(err, ledger.ErrSlotNotFound):
			outcome = ErrSlotMissing
		case errors.Is(err, ledger.ErrCapacityExceeded):
			outcome = ErrCapacityExceeded
		default:
			return models.Payment{}, fmt.Errorf("%s: %w", op, storeErr(err))
		}

		_ = tx.Rollback()
		log.Warn("payment cannot be completed",
			slog.String("slot", key.String()),
			sl.Err(outcome),
		)
		w.recordFailedPayment(ctx, p)

		return models.Payment{}, outcome
	}

	if err = tx.UpdatePaymentStatus(ctx, p.ID, models.PaymentCompleted); err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}
	if err = tx.UpdateBookingStatus(ctx, b.ID, models.BookingConfirmed, models.PaymentCompleted); err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}
	if err = tx.Commit(); err != nil {
		return models.Payment{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}

	p.Status = models.PaymentCompleted

	log.Info("payment completed",
		slog.String("payment_id", p.ID),
		slog.String("transaction_id", p.TransactionRef),
	)

	w.notifier.Dispatch(notify.Confirmation{
		Recipient:   b.Email,
		BookingID:   b.ID,
		Date:        b.Date.Format(models.DateLayout),
		TimeSlot:    b.TimeSlot,
		Adults:      b.Adults,
		Children:    b.Children,
		TotalAmount: b.TotalAmount,
	})

	return p, nil
}

// recordFailedPayment keeps a trace of a rejected confirmation. The booking
// itself is left untouched.
func (w *Workflow) recordFailedPayment(ctx context.Context, p models.Payment) {
	const op = "booking.recordFailedPayment"

	p.Status = models.PaymentFailed

	err := storage.WithTx(ctx, w.store, func(tx storage.Tx) error {
		return tx.InsertPayment(ctx, p)
	})
	if err != nil {
		w.log.Error("failed to record failed payment",
			slog.String("op", op),
			slog.String("booking_id", p.BookingID),
			sl.Err(err),
		)
	}
}

// Detail is a booking with its completed payment, if any.
type Detail struct {
	models.Booking
	Payment *models.Payment `json:"payment,omitempty"`
}

func (w *Workflow) GetBooking(ctx context.Context, id string) (Detail, error) {
	const op = "booking.GetBooking"

	var d Detail
	err := storage.WithTx(ctx, w.store, func(tx storage.Tx) error {
		b, err := tx.GetBooking(ctx, id)
		if err != nil {
			return err
		}
		d.Booking = b

		payments, err := tx.PaymentsByBooking(ctx, id)
		if err != nil {
			return err
		}
		for i := range payments {
			if payments[i].Status == models.PaymentCompleted {
				d.Payment = &payments[i]
				break
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}

	return d, nil
}

// BookingsByDate lists every booking for a visit date, oldest first.
func (w *Workflow) BookingsByDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	const op = "booking.BookingsByDate"

	var bookings []models.Booking
	err := storage.WithTx(ctx, w.store, func(tx storage.Tx) error {
		var err error
		bookings, err = tx.BookingsByDate(ctx, models.DateOnly(date))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storeErr(err))
	}

	return bookings, nil
}

func (w *Workflow) GetPayment(ctx context.Context, id string) (models.Payment, error) {
	const op = "booking.GetPayment"

	var p models.Payment
	err := storage.WithTx(ctx, w.store, func(tx storage.Tx) error {
		var err error
		p, err = tx.GetPayment(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrPaymentNotFound) {
			return models.Payment{}, ErrNotFound
		}
		return models.Payment{}, fmt.Errorf("%s: %w", op, storeErr(err))
	}

	return p, nil
}

func storeErr(err error) error {
	if errors.Is(err, storage.ErrLockTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}
