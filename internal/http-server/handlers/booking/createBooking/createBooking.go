package createBooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"museumBooker/internal/booking"
	"museumBooker/internal/lib/api/request"
	"museumBooker/internal/lib/api/response"
	"museumBooker/internal/lib/logger/sl"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Nationality string `json:"nationality" validate:"required"`
	Adults      *int   `json:"adults" validate:"required,gte=1"`
	Children    *int   `json:"children" validate:"required,gte=0"`
	TicketType  string `json:"ticketType" validate:"required"`
	TimeSlot    string `json:"timeSlot" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
}

type Response struct {
	response.Response
	BookingID string  `json:"booking_id"`
	Amount    float64 `json:"amount"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCreator
type BookingCreator interface {
	CreateBooking(ctx context.Context, req booking.CreateRequest) (booking.CreateResult, error)
}

func New(log *slog.Logger, creator BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.createBooking.New"

		log := log.With(slog.String("op", op))

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorKind(response.KindValidation, "failed to decode request"))
			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = request.Validate(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		res, err := creator.CreateBooking(r.Context(), booking.CreateRequest{
			Date:        req.Date,
			Nationality: req.Nationality,
			Adults:      *req.Adults,
			Children:    *req.Children,
			TicketType:  req.TicketType,
			TimeSlot:    req.TimeSlot,
			Email:       req.Email,
		})
		if err != nil {
			var verr *booking.ValidationError

			switch {
			case errors.As(err, &verr):
				log.Info("booking rejected", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorKind(response.KindValidation, verr.Error()))
			case errors.Is(err, booking.ErrPricingNotFound):
				log.Info("no pricing for booking", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ErrorKind(response.KindPricingNotFound, booking.ErrPricingNotFound.Error()))
			case errors.Is(err, booking.ErrCapacityExceeded):
				log.Info("slot is full", sl.Err(err))
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ErrorKind(response.KindCapacityExceeded,
					"not enough capacity available for the "+req.TimeSlot+" time slot"))
			case errors.Is(err, booking.ErrStoreUnavailable):
				log.Error("storage unavailable", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ErrorKind(response.KindUnavailable, "service busy, try again"))
			default:
				log.Error("failed to create booking", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ErrorKind(response.KindInternal, "failed to create booking"))
			}
			return
		}

		log.Info("booking created", slog.String("booking_id", res.BookingID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response:  response.OK(),
			BookingID: res.BookingID,
			Amount:    res.Amount,
		})
	}
}
