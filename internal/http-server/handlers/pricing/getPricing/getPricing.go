package getPricing

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"museumBooker/internal/lib/api/request"
	"museumBooker/internal/lib/api/response"
	"museumBooker/internal/lib/logger/sl"
	"museumBooker/internal/models"
	"museumBooker/internal/pricing"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Nationality string `json:"nationality" validate:"required"`
	TicketType  string `json:"ticketType" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

type Response struct {
	response.Response
	AdultPrice float64 `json:"adult_price"`
	ChildPrice float64 `json:"child_price"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=PriceGetter
type PriceGetter interface {
	Lookup(nationality, ticketType string, date time.Time) (models.PricingRule, error)
}

func New(log *slog.Logger, prices PriceGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pricing.getPricing.New"

		log := log.With(slog.String("op", op))

		q := r.URL.Query()
		req := Request{
			Nationality: q.Get("nationality"),
			TicketType:  q.Get("ticketType"),
			Date:        q.Get("date"),
		}

		if err := request.Validate(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Info("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		date, _ := models.ParseDate(req.Date)

		rule, err := prices.Lookup(req.Nationality, req.TicketType, date)
		if err != nil {
			if errors.Is(err, pricing.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ErrorKind(response.KindPricingNotFound, "pricing not found"))
				return
			}

			log.Error("failed to look up pricing", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ErrorKind(response.KindInternal, "failed to get pricing"))
			return
		}

		render.JSON(w, r, Response{
			Response:   response.OK(),
			AdultPrice: rule.AdultPrice,
			ChildPrice: rule.ChildPrice,
		})
	}
}
