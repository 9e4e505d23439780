package getPayment

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"museumBooker/internal/booking"
	"museumBooker/internal/http-server/handlers/payment/getPayment/mocks"
	"museumBooker/internal/lib/logger/handlers/slogdiscard"
	"museumBooker/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetPaymentHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		mockSetup      func(m *mocks.PaymentGetter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			mockSetup: func(m *mocks.PaymentGetter) {
				m.On("GetPayment", mock.Anything, "p-1").Return(models.Payment{
					ID:             "p-1",
					BookingID:      "b-1",
					Amount:         50,
					Method:         "card",
					Status:         models.PaymentFailed,
					TransactionRef: "t-1",
					CreatedAt:      time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"status":"OK","payment":{"id":"p-1","booking_id":"b-1","amount":50,` +
				`"payment_method":"card","status":"failed","transaction_id":"t-1","created_at":"2026-10-19T10:00:00Z"}}`,
		},
		{
			name: "Not found",
			mockSetup: func(m *mocks.PaymentGetter) {
				m.On("GetPayment", mock.Anything, "p-1").Return(models.Payment{}, booking.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"payment not found","kind":"not_found"}`,
		},
		{
			name: "Internal error",
			mockSetup: func(m *mocks.PaymentGetter) {
				m.On("GetPayment", mock.Anything, "p-1").Return(models.Payment{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get payment","kind":"internal"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			getter := mocks.NewPaymentGetter(t)
			tc.mockSetup(getter)

			router := chi.NewRouter()
			router.Get("/payments/{payment_id}", New(logger, getter))

			req, err := http.NewRequest(http.MethodGet, "/payments/p-1", nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
