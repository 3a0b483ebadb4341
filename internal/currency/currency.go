// Package currency provides currency normalization for catalog prices.
// Prices are stored in the base currency; conversion happens on the read
// path only and converted prices are never written back to the store.
package currency

import (
	"errors"
	"fmt"
)

// Currency is a supported ISO 4217 currency code.
type Currency string

const (
	// USD is the base currency: the currency every product price is stored in.
	USD Currency = "USD"
	// CAD is the alternate display currency.
	CAD Currency = "CAD"
)

// Base is the currency product prices are canonically stored in.
const Base = USD

// ErrUnsupportedCurrency is returned when a currency code is not in the supported set.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// ErrConversionFailed is returned when the rate source is unavailable
// or reports a failed conversion.
var ErrConversionFailed = errors.New("currency conversion failed")

// Parse validates a currency code. The empty string is rejected;
// optional parameters are handled by the caller before parsing.
func Parse(code string) (Currency, error) {
	switch Currency(code) {
	case USD:
		return USD, nil
	case CAD:
		return CAD, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
	}
}

// Supported returns the closed set of accepted currencies.
func Supported() []Currency {
	return []Currency{USD, CAD}
}
