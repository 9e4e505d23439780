package getAvailability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"museumBooker/internal/calendar"
	"museumBooker/internal/http-server/handlers/slot/getAvailability/mocks"
	"museumBooker/internal/lib/logger/handlers/slogdiscard"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetAvailabilityHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	date := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		date           string
		mockSetup      func(m *mocks.AvailabilityGetter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			date: "2026-11-02",
			mockSetup: func(m *mocks.AvailabilityGetter) {
				m.On("Availability", mock.Anything, date).Return([]calendar.SlotAvailability{
					{Time: "10:00 AM", Available: 47, TicketType: "Regular"},
					{Time: "2:00 PM", Available: 50, TicketType: "Regular"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `[{"time":"10:00 AM","available":47,"ticket_type":"Regular"},` +
				`{"time":"2:00 PM","available":50,"ticket_type":"Regular"}]`,
		},
		{
			name:           "Invalid date",
			date:           "2026-13-45",
			mockSetup:      func(m *mocks.AvailabilityGetter) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid date format, use YYYY-MM-DD","kind":"validation_error"}`,
		},
		{
			name: "Past date without slots",
			date: "2026-11-02",
			mockSetup: func(m *mocks.AvailabilityGetter) {
				m.On("Availability", mock.Anything, date).Return(nil, calendar.ErrNoSlots)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"no time slots for 2026-11-02","kind":"not_found"}`,
		},
		{
			name: "Internal error",
			date: "2026-11-02",
			mockSetup: func(m *mocks.AvailabilityGetter) {
				m.On("Availability", mock.Anything, date).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get availability","kind":"internal"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			getter := mocks.NewAvailabilityGetter(t)
			tc.mockSetup(getter)

			router := chi.NewRouter()
			router.Get("/availability/{date}", New(logger, getter))

			req, err := http.NewRequest(http.MethodGet, "/availability/"+tc.date, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
