package dto

import (
	"errors"
	"fmt"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

// ErrorCode classifies a calculation failure
type ErrorCode string

const (
	CodeIncompleteSetup   ErrorCode = "incomplete_setup"
	CodeInvalidWheelSize  ErrorCode = "invalid_wheel_size"
	CodeMissingTeeth      ErrorCode = "missing_teeth"
	CodeComponentNotFound ErrorCode = "component_not_found"
	CodeInvalidInput      ErrorCode = "invalid_input"
	CodeCalculationFailed ErrorCode = "calculation_failed"
)

var (
	// ErrComponentNotFound is returned when a setup names an id missing from the catalog
	ErrComponentNotFound = errors.New("component not found")
	// ErrInvalidInput marks request values that could not be parsed
	ErrInvalidInput = errors.New("invalid input")
)

// CalculationError is a strict-path failure surfaced to hosts. Recoverable
// failures are input problems the user can fix and retry.
type CalculationError struct {
	Code        ErrorCode `json:"code"`
	Message     string    `json:"message"`
	Recoverable bool      `json:"recoverable"`
	Err         error     `json:"-"`
}

func (e *CalculationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// NewCalculationError classifies err by the sentinel it wraps. A nil error
// yields nil; an existing CalculationError is returned unchanged.
func NewCalculationError(message string, err error) *CalculationError {
	if err == nil {
		return nil
	}
	var existing *CalculationError
	if errors.As(err, &existing) {
		return existing
	}

	code := CodeCalculationFailed
	switch {
	case errors.Is(err, entities.ErrIncompleteSetup):
		code = CodeIncompleteSetup
	case errors.Is(err, entities.ErrInvalidWheelSize):
		code = CodeInvalidWheelSize
	case errors.Is(err, entities.ErrMissingTeeth):
		code = CodeMissingTeeth
	case errors.Is(err, ErrComponentNotFound):
		code = CodeComponentNotFound
	case errors.Is(err, ErrInvalidInput):
		code = CodeInvalidInput
	}

	return &CalculationError{
		Code:        code,
		Message:     message,
		Recoverable: true,
		Err:         err,
	}
}

// UserMessage is the generic text hosts show for recoverable failures
func (e *CalculationError) UserMessage() string {
	if e.Recoverable {
		return "Unable to calculate performance metrics. Please check your components and try again."
	}
	return "An unexpected error occurred while calculating performance metrics."
}
