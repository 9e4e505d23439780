package getBooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"museumBooker/internal/booking"
	"museumBooker/internal/lib/api/response"
	"museumBooker/internal/lib/logger/sl"
	"museumBooker/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Booking struct {
	ID            string               `json:"booking_id"`
	Email         string               `json:"email"`
	Date          string               `json:"date"`
	Nationality   string               `json:"nationality"`
	Adults        int                  `json:"adults"`
	Children      int                  `json:"children"`
	TicketType    string               `json:"ticket_type"`
	TimeSlot      string               `json:"time_slot"`
	TotalAmount   float64              `json:"total_amount"`
	Status        models.BookingStatus `json:"status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time            `json:"created_at"`
	Payment       *models.Payment      `json:"payment,omitempty"`
}

type Response struct {
	response.Response
	Booking Booking `json:"booking"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingGetter
type BookingGetter interface {
	GetBooking(ctx context.Context, id string) (booking.Detail, error)
}

func New(log *slog.Logger, getter BookingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.getBooking.New"

		log := log.With(slog.String("op", op))

		id := chi.URLParam(r, "booking_id")
		if id == "" {
			log.Error("booking id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorKind(response.KindValidation, "booking id is required"))
			return
		}

		log = log.With(slog.String("booking_id", id))

		d, err := getter.GetBooking(r.Context(), id)
		if err != nil {
			if errors.Is(err, booking.ErrNotFound) {
				log.Info("booking not found")
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ErrorKind(response.KindNotFound, "booking not found"))
				return
			}

			log.Error("failed to get booking", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorKind(response.KindInternal, "failed to get booking"))
			return
		}

		render.JSON(w, r, Response{
			Response: response.OK(),
			Booking: Booking{
				ID:            d.ID,
				Email:         d.Email,
				Date:          d.Date.Format(models.DateLayout),
				Nationality:   d.Nationality,
				Adults:        d.Adults,
				Children:      d.Children,
				TicketType:    d.TicketType,
				TimeSlot:      d.TimeSlot,
				TotalAmount:   d.TotalAmount,
				Status:        d.Status,
				PaymentStatus: d.PaymentStatus,
				CreatedAt:     d.CreatedAt,
				Payment:       d.Payment,
			},
		})
	}
}
