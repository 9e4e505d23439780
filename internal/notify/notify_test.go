package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"museumBooker/internal/lib/logger/handlers/slogdiscard"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfirmation = Confirmation{
	Recipient:   "visitor@example.com",
	BookingID:   "b-1",
	Date:        "2026-11-02",
	TimeSlot:    "10:00 AM",
	Adults:      2,
	Children:    1,
	TotalAmount: 50,
}

type fakeChannel struct {
	mu        sync.Mutex
	exchange  string
	key       string
	published []amqp.Publishing
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.exchange, f.key = exchange, key
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPNotifierPublishes(t *testing.T) {
	t.Parallel()

	ch := &fakeChannel{}
	n := newAMQPNotifier(ch, "museum", "")

	require.NoError(t, n.Notify(context.Background(), testConfirmation))

	require.Len(t, ch.published, 1)
	assert.Equal(t, "museum", ch.exchange)
	assert.Equal(t, EventBookingConfirmed, ch.key)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, "b-1", ch.published[0].MessageId)

	var got Confirmation
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
	assert.Equal(t, testConfirmation, got)
}

func TestAMQPNotifierError(t *testing.T) {
	t.Parallel()

	n := newAMQPNotifier(&fakeChannel{err: amqp.ErrClosed}, "museum", "custom.key")

	err := n.Notify(context.Background(), testConfirmation)
	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.ErrorContains(t, err, "custom.key")
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []Confirmation
	err   error
	delay time.Duration
}

func (r *recordingNotifier) Notify(ctx context.Context, c Confirmation) error {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.err
}

func (r *recordingNotifier) Close() error { return nil }

func TestDispatcherDeliversInBackground(t *testing.T) {
	t.Parallel()

	rec := &recordingNotifier{}
	d := NewDispatcher(slogdiscard.NewDiscardLogger(), rec, time.Second)

	d.Dispatch(testConfirmation)
	d.Dispatch(testConfirmation)

	require.NoError(t, d.Wait(context.Background()))
	assert.Len(t, rec.calls, 2)
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	t.Parallel()

	rec := &recordingNotifier{err: errors.New("smtp down")}
	d := NewDispatcher(slogdiscard.NewDiscardLogger(), rec, time.Second)

	d.Dispatch(testConfirmation)

	require.NoError(t, d.Wait(context.Background()))
	assert.Len(t, rec.calls, 1)
}

func TestDispatcherWaitHonoursContext(t *testing.T) {
	t.Parallel()

	rec := &recordingNotifier{delay: time.Second}
	d := NewDispatcher(slogdiscard.NewDiscardLogger(), rec, 0)

	d.Dispatch(testConfirmation)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)
	require.NoError(t, d.Wait(context.Background()))
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	n := NewLogNotifier(slogdiscard.NewDiscardLogger())
	assert.NoError(t, n.Notify(context.Background(), testConfirmation))
	assert.NoError(t, n.Close())
}
