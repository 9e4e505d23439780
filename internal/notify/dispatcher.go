package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"museumBooker/internal/lib/logger/sl"
)

// Dispatcher sends confirmations in the background. A failed delivery is
// logged at error level and never reported to the caller.
type Dispatcher struct {
	log      *slog.Logger
	notifier Notifier
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(log *slog.Logger, n Notifier, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		log:      log,
		notifier: n,
		timeout:  timeout,
	}
}

func (d *Dispatcher) Dispatch(c Confirmation) {
	const op = "notify.Dispatch"

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx := context.Background()
		if d.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}

		if err := d.notifier.Notify(ctx, c); err != nil {
			d.log.Error("failed to send booking confirmation",
				slog.String("op", op),
				slog.String("booking_id", c.BookingID),
				slog.String("recipient", c.Recipient),
				sl.Err(err),
			)
		}
	}()
}

// Wait blocks until in-flight dispatches finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
