package booking

import (
	"errors"
	"fmt"
	"strings"

	"museumBooker/internal/ledger"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrCapacityExceeded = ledger.ErrCapacityExceeded
	ErrPricingNotFound  = errors.New("no valid pricing found for the selected options")
	ErrAlreadyCompleted = errors.New("payment already completed for this booking")
	ErrAmountMismatch   = errors.New("payment amount does not match booking total")
	ErrSlotMissing      = errors.New("time slot for booking is missing")
	// ErrStoreUnavailable marks transient storage failures; the caller may retry.
	ErrStoreUnavailable = errors.New("storage temporarily unavailable")
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("field %s %s", f.Field, f.Message))
	}
	return strings.Join(msgs, ", ")
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
