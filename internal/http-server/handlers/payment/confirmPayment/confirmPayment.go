package confirmPayment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"museumBooker/internal/booking"
	"museumBooker/internal/lib/api/request"
	"museumBooker/internal/lib/api/response"
	"museumBooker/internal/lib/logger/sl"
	"museumBooker/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	BookingID     string   `json:"booking_id" validate:"required"`
	Amount        *float64 `json:"amount" validate:"required,gte=0"`
	PaymentMethod string   `json:"payment_method" validate:"required"`
}

// Response reports the payment status in "status" instead of the generic OK.
type Response struct {
	PaymentID     string               `json:"payment_id"`
	Status        models.PaymentStatus `json:"status"`
	TransactionID string               `json:"transaction_id"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=PaymentConfirmer
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, req booking.ConfirmRequest) (models.Payment, error)
}

func New(log *slog.Logger, confirmer PaymentConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payment.confirmPayment.New"

		log := log.With(slog.String("op", op))

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorKind(response.KindValidation, "failed to decode request"))
			return
		}

		if err = request.Validate(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		log = log.With(slog.String("booking_id", req.BookingID))

		p, err := confirmer.ConfirmPayment(r.Context(), booking.ConfirmRequest{
			BookingID:     req.BookingID,
			Amount:        *req.Amount,
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			var verr *booking.ValidationError

			switch {
			case errors.As(err, &verr):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorKind(response.KindValidation, verr.Error()))
			case errors.Is(err, booking.ErrNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ErrorKind(response.KindNotFound, "booking not found"))
			case errors.Is(err, booking.ErrAlreadyCompleted):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ErrorKind(response.KindAlreadyCompleted, booking.ErrAlreadyCompleted.Error()))
			case errors.Is(err, booking.ErrAmountMismatch):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorKind(response.KindAmountMismatch, booking.ErrAmountMismatch.Error()))
			case errors.Is(err, booking.ErrSlotMissing):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ErrorKind(response.KindSlotMissing, booking.ErrSlotMissing.Error()))
			case errors.Is(err, booking.ErrCapacityExceeded):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ErrorKind(response.KindCapacityExceeded, "time slot is fully booked"))
			case errors.Is(err, booking.ErrStoreUnavailable):
				log.Error("storage unavailable", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ErrorKind(response.KindUnavailable, "service busy, try again"))
			default:
				log.Error("failed to confirm payment", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ErrorKind(response.KindInternal, "failed to process payment"))
			}
			return
		}

		log.Info("payment confirmed", slog.String("payment_id", p.ID))

		render.JSON(w, r, Response{
			PaymentID:     p.ID,
			Status:        p.Status,
			TransactionID: p.TransactionRef,
		})
	}
}
