package calc

import (
	"errors"
	"fmt"
)

var (
	// Input rejected before any calculation starts.
	ErrValidation = errors.New("validation error")
	// Tariff schedule rejected when a calculator is constructed.
	ErrConfiguration = errors.New("configuration error")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func configurationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
