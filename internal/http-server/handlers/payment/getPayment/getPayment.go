package getPayment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"museumBooker/internal/booking"
	"museumBooker/internal/lib/api/response"
	"museumBooker/internal/lib/logger/sl"
	"museumBooker/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	Payment models.Payment `json:"payment"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=PaymentGetter
type PaymentGetter interface {
	GetPayment(ctx context.Context, id string) (models.Payment, error)
}

func New(log *slog.Logger, getter PaymentGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payment.getPayment.New"

		log := log.With(slog.String("op", op))

		id := chi.URLParam(r, "payment_id")
		if id == "" {
			log.Error("payment id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorKind(response.KindValidation, "payment id is required"))
			return
		}

		p, err := getter.GetPayment(r.Context(), id)
		if err != nil {
			if errors.Is(err, booking.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ErrorKind(response.KindNotFound, "payment not found"))
				return
			}

			log.Error("failed to get payment", slog.String("payment_id", id), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorKind(response.KindInternal, "failed to get payment"))
			return
		}

		render.JSON(w, r, Response{
			Response: response.OK(),
			Payment:  p,
		})
	}
}
