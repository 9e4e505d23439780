package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// Machine-readable error kinds.
const (
	KindValidation       = "validation_error"
	KindNotFound         = "not_found"
	KindCapacityExceeded = "capacity_exceeded"
	KindPricingNotFound  = "pricing_not_found"
	KindAlreadyCompleted = "already_completed"
	KindAmountMismatch   = "amount_mismatch"
	KindSlotMissing      = "slot_missing"
	KindUnavailable      = "store_unavailable"
	KindRateLimited      = "rate_limited"
	KindInternal         = "internal"
)

func OK() Response {
	return Response{
		Status: StatusOK,
	}
}

func ErrorKind(kind, msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
		Kind:   kind,
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid email", err.Field()))
		case "datetime":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be a date in %s format", err.Field(), err.Param()))
		case "gte":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "gt":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMsgs, ", "),
		Kind:   KindValidation,
	}
}
