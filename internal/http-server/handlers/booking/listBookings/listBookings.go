package listBookings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"museumBooker/internal/calendar"
	"museumBooker/internal/lib/api/response"
	"museumBooker/internal/lib/logger/sl"
	"museumBooker/internal/models"

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
}

type Response struct {
	response.Response
	Date     string             `json:"date"`
	Slots    []calendar.DaySlot `json:"slots"`
	Bookings []Booking          `json:"bookings"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SlotLister
type SlotLister interface {
	DaySlots(ctx context.Context, date time.Time) ([]calendar.DaySlot, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingLister
type BookingLister interface {
	BookingsByDate(ctx context.Context, date time.Time) ([]models.Booking, error)
}

// New lists the slots and bookings of the date given in the date query
// parameter. Slots of a past date that never had any are reported empty.
func New(log *slog.Logger, slots SlotLister, bookings BookingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.listBookings.New"

		log := log.With(slog.String("op", op))

		dateStr := r.URL.Query().Get("date")
		if dateStr == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorKind(response.KindValidation, "date parameter is required"))
			return
		}

		date, err := models.ParseDate(dateStr)
		if err != nil {
			log.Info("invalid date", slog.String("date", dateStr), sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorKind(response.KindValidation, "invalid date format, use YYYY-MM-DD"))
			return
		}

		log = log.With(slog.String("date", dateStr))

		daySlots, err := slots.DaySlots(r.Context(), date)
		switch {
		case errors.Is(err, calendar.ErrNoSlots):
			daySlots = []calendar.DaySlot{}
		case err != nil:
			log.Error("failed to get slots", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorKind(response.KindInternal, "failed to get bookings"))
			return
		}

		found, err := bookings.BookingsByDate(r.Context(), date)
		if err != nil {
			log.Error("failed to get bookings", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorKind(response.KindInternal, "failed to get bookings"))
			return
		}

		out := make([]Booking, 0, len(found))
		for _, b := range found {
			out = append(out, Booking{
				ID:            b.ID,
				Email:         b.Email,
				Date:          b.Date.Format(models.DateLayout),
				Nationality:   b.Nationality,
				Adults:        b.Adults,
				Children:      b.Children,
				TicketType:    b.TicketType,
				TimeSlot:      b.TimeSlot,
				TotalAmount:   b.TotalAmount,
				Status:        b.Status,
				PaymentStatus: b.PaymentStatus,
				CreatedAt:     b.CreatedAt,
			})
		}

		render.JSON(w, r, Response{
			Response: response.OK(),
			Date:     dateStr,
			Slots:    daySlots,
			Bookings: out,
		})
	}
}
