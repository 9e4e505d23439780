package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"museumBooker/internal/booking"
	"museumBooker/internal/calendar"
	"museumBooker/internal/config"
	"museumBooker/internal/ledger"
	"museumBooker/internal/lib/logger/handlers/slogdiscard"
	"museumBooker/internal/notify"
	"museumBooker/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, now time.Time) *httptest.Server {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	cfg := &config.Config{
		Env:       envLocal,
		RateLimit: config.RateLimit{RPS: 0},
	}

	store := memory.New(time.Second)
	catalog, err := loadCatalog(log, "", now)
	require.NoError(t, err)

	dispatcher := notify.NewDispatcher(log, notify.NewLogNotifier(log), time.Second)
	slots := ledger.New(log, store, 50)
	wf := booking.New(log, store, slots, catalog, dispatcher, booking.WithClock(func() time.Time { return now }))
	cal := calendar.New(log, slots, []string{"10:00 AM", "2:00 PM"}, "Regular", func() time.Time { return now })

	srv := httptest.NewServer(newRouter(log, cfg, wf, cal, catalog))
	t.Cleanup(srv.Close)

	return srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func TestBookingFlow(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	visit := now.AddDate(0, 0, 14).Format("2006-01-02")
	srv := newTestServer(t, now)

	var slots []calendar.SlotAvailability
	code := doJSON(t, http.MethodGet, srv.URL+"/availability/"+visit, nil, &slots)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, slots, 2)
	assert.Equal(t, 50, slots[0].Available)

	var created struct {
		BookingID string  `json:"booking_id"`
		Amount    float64 `json:"amount"`
	}
	code = doJSON(t, http.MethodPost, srv.URL+"/bookings", map[string]any{
		"date":        visit,
		"nationality": "Local",
		"adults":      2,
		"children":    1,
		"ticketType":  "Regular",
		"timeSlot":    "10:00 AM",
		"email":       "visitor@example.com",
	}, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, created.BookingID)
	assert.Equal(t, 50.0, created.Amount)

	code = doJSON(t, http.MethodGet, srv.URL+"/availability/"+visit, nil, &slots)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 47, slots[0].Available)

	var paid struct {
		PaymentID     string `json:"payment_id"`
		Status        string `json:"status"`
		TransactionID string `json:"transaction_id"`
	}
	confirm := map[string]any{"booking_id": created.BookingID, "amount": 50.0, "payment_method": "card"}

	code = doJSON(t, http.MethodPost, srv.URL+"/payments", confirm, &paid)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "completed", paid.Status)
	assert.NotEmpty(t, paid.TransactionID)

	var again struct {
		Kind string `json:"kind"`
	}
	code = doJSON(t, http.MethodPost, srv.URL+"/payments", confirm, &again)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "already_completed", again.Kind)

	var detail struct {
		Booking struct {
			Status        string `json:"status"`
			PaymentStatus string `json:"payment_status"`
			Date          string `json:"date"`
			Payment       *struct {
				ID string `json:"id"`
			} `json:"payment"`
		} `json:"booking"`
	}
	code = doJSON(t, http.MethodGet, srv.URL+"/bookings/"+created.BookingID, nil, &detail)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "confirmed", detail.Booking.Status)
	assert.Equal(t, "completed", detail.Booking.PaymentStatus)
	assert.Equal(t, visit, detail.Booking.Date)
	require.NotNil(t, detail.Booking.Payment)
	assert.Equal(t, paid.PaymentID, detail.Booking.Payment.ID)

	code = doJSON(t, http.MethodGet, srv.URL+"/payments/"+paid.PaymentID, nil, nil)
	assert.Equal(t, http.StatusOK, code)

	var day struct {
		Slots    []calendar.DaySlot `json:"slots"`
		Bookings []struct {
			ID     string `json:"booking_id"`
			Status string `json:"status"`
		} `json:"bookings"`
	}
	code = doJSON(t, http.MethodGet, srv.URL+"/bookings?date="+visit, nil, &day)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, day.Slots, 2)
	assert.Equal(t, 3, day.Slots[0].Booked)
	assert.Equal(t, 50, day.Slots[0].Capacity)
	require.Len(t, day.Bookings, 1)
	assert.Equal(t, created.BookingID, day.Bookings[0].ID)
	assert.Equal(t, "confirmed", day.Bookings[0].Status)
}

func TestListBookingsCreatesDefaultSlots(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	srv := newTestServer(t, now)

	var day struct {
		Slots    []calendar.DaySlot `json:"slots"`
		Bookings []json.RawMessage  `json:"bookings"`
	}
	code := doJSON(t, http.MethodGet, srv.URL+"/bookings?date="+now.AddDate(0, 0, 30).Format("2006-01-02"), nil, &day)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, day.Slots, 2)
	assert.NotNil(t, day.Bookings)
	assert.Empty(t, day.Bookings)

	code = doJSON(t, http.MethodGet, srv.URL+"/bookings?date=someday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPastAvailabilityNotFound(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	srv := newTestServer(t, now)

	code := doJSON(t, http.MethodGet, srv.URL+"/availability/"+now.AddDate(0, 0, -3).Format("2006-01-02"), nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPricingEndpoint(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	srv := newTestServer(t, now)

	var prices struct {
		AdultPrice float64 `json:"adult_price"`
		ChildPrice float64 `json:"child_price"`
	}
	code := doJSON(t, http.MethodGet,
		srv.URL+"/pricing?nationality=Foreign&ticketType=Regular&date="+now.Format("2006-01-02"), nil, &prices)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 30.0, prices.AdultPrice)
	assert.Equal(t, 15.0, prices.ChildPrice)
}

func TestCalendarEndpoint(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	srv := newTestServer(t, now)

	var days map[string]calendar.Day
	code := doJSON(t, http.MethodGet, srv.URL+"/calendar/2026/10", nil, &days)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, days, 31)
	assert.Equal(t, calendar.StatusUnavailable, days["2026-10-01"].Status)
	assert.Equal(t, calendar.StatusAvailable, days["2026-10-31"].Status)
}
