package getAvailability

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=AvailabilityGetter
type AvailabilityGetter interface {
	Availability(ctx context.Context, date time.Time) ([]calendar.SlotAvailability, error)
}

// New responds with a bare JSON array of the date's slots.
func New(log *slog.Logger, getter AvailabilityGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slot.getAvailability.New"

		log := log.With(slog.String("op", op))

		dateStr := chi.URLParam(r, "date")

		date, err := models.ParseDate(dateStr)
		if err != nil {
			log.Info("invalid date", slog.String("date", dateStr), sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorKind(response.KindValidation, "invalid date format, use YYYY-MM-DD"))
			return
		}

		slots, err := getter.Availability(r.Context(), date)
		if err != nil {
			if errors.Is(err, calendar.ErrNoSlots) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ErrorKind(response.KindNotFound, "no time slots for "+dateStr))
				return
			}

			log.Error("failed to get availability", slog.String("date", dateStr), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorKind(response.KindInternal, "failed to get availability"))
			return
		}

		render.JSON(w, r, slots)
	}
}
