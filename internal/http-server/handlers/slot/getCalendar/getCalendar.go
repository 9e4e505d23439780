package getCalendar

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"museumBooker/internal/calendar"
	"museumBooker/internal/lib/api/response"
	"museumBooker/internal/lib/logger/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=CalendarGetter
type CalendarGetter interface {
	Month(ctx context.Context, year int, month time.Month) (map[string]calendar.Day, error)
}

// New responds with an object keyed by YYYY-MM-DD.
func New(log *slog.Logger, getter CalendarGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slot.getCalendar.New"

		log := log.With(slog.String("op", op))

		year, yErr := strconv.Atoi(chi.URLParam(r, "year"))
		month, mErr := strconv.Atoi(chi.URLParam(r, "month"))
		if err := errors.Join(yErr, mErr); err != nil {
			log.Info("invalid year or month", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorKind(response.KindValidation, "invalid year or month"))
			return
		}

		days, err := getter.Month(r.Context(), year, time.Month(month))
		if err != nil {
			if errors.Is(err, calendar.ErrInvalidMonth) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorKind(response.KindValidation, "invalid year or month"))
				return
			}

			log.Error("failed to build calendar",
				slog.Int("year", year),
				slog.Int("month", month),
				sl.Err(err),
			)
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorKind(response.KindInternal, "failed to get calendar"))
			return
		}

		render.JSON(w, r, days)
	}
}
