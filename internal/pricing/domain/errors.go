package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrExternalDataUnavailable means the roof production source failed
	// after retries. The calculation aborts; zero production is never
	// substituted.
	ErrExternalDataUnavailable = errors.New("external_data_unavailable")
)

// InvalidInputError flags a missing or out-of-range input field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s (%s)", e.Field, e.Reason)
}

func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// NoSuitableProductError is returned when a sizing strategy resolves to a
// spec with no catalog match inside the tolerance band. Nearest carries the
// closest available capacities so the caller can show alternatives instead
// of silently substituting a wildly different size.
type NoSuitableProductError struct {
	ProductType string
	Requested   float64
	Unit        string
	Nearest     []float64
}

func (e *NoSuitableProductError) Error() string {
	return fmt.Sprintf("no suitable %s for %.1f %s (nearest available: %v)",
		e.ProductType, e.Requested, e.Unit, e.Nearest)
}

// UnknownZoneError is returned when a postcode falls outside every
// configured rebate zone. Defaulting the multiplier would misprice the
// certificate rebate, so the calculation fails instead.
type UnknownZoneError struct {
	Postcode int
}

func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("postcode %d is not covered by any rebate zone", e.Postcode)
}
