package cffdrs

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParameter is wrapped by every MissingParameterError.
	ErrMissingParameter = errors.New("missing fuel parameter")
	// ErrUnsupportedFuelType is wrapped by every UnsupportedFuelTypeError.
	ErrUnsupportedFuelType = errors.New("unsupported fuel type")
)

// MissingParameterError reports a fuel-specific input that was not supplied,
// e.g. percent conifer for M1. There is no safe default for these inputs.
type MissingParameterError struct {
	Fuel      FuelType
	Parameter string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("fuel type %s requires %s", e.Fuel, e.Parameter)
}

func (e *MissingParameterError) Unwrap() error { return ErrMissingParameter }

// UnsupportedFuelTypeError reports a fuel type tag outside the FBP System set.
type UnsupportedFuelTypeError struct {
	Value string
}

func (e *UnsupportedFuelTypeError) Error() string {
	return fmt.Sprintf("unsupported fuel type %q", e.Value)
}

func (e *UnsupportedFuelTypeError) Unwrap() error { return ErrUnsupportedFuelType }

func missing(ft FuelType, param string) error {
	return &MissingParameterError{Fuel: ft, Parameter: param}
}
