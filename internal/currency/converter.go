package currency

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/abgdnv/productview/internal/store"
)

// PriceConverter normalizes stored prices into a requested currency.
type PriceConverter interface {
	// ConvertAmount converts a single amount between two currencies.
	// Identity conversions return the amount unchanged without a remote call.
	ConvertAmount(ctx context.Context, amount float64, from, to Currency) (float64, error)

	// ConvertPrices converts every product price into the target currency
	// using a single rate lookup. The whole batch fails if the rate cannot
	// be fetched; a partially converted list is never returned.
	ConvertPrices(ctx context.Context, products []store.Product, target Currency) ([]store.Product, error)
}

// Converter implements PriceConverter on top of a RateSource.
// Rates are not cached; every non-identity conversion is a remote call.
type Converter struct {
	source RateSource
	logger *slog.Logger
}

var _ PriceConverter = (*Converter)(nil)

// NewConverter creates a Converter backed by the given rate source.
func NewConverter(source RateSource, logger *slog.Logger) *Converter {
	return &Converter{
		source: source,
		logger: logger.With("component", "currency"),
	}
}

// ConvertAmount converts amount from one currency to another.
// The remote result is returned as-is, without local rounding.
func (c *Converter) ConvertAmount(ctx context.Context, amount float64, from, to Currency) (float64, error) {
	if from == to {
		return amount, nil
	}
	converted, err := c.source.ConvertAmount(ctx, from, to, amount)
	if err != nil {
		c.logger.ErrorContext(ctx, "Amount conversion failed", "from", from, "to", to, "error", err)
		return 0, err
	}
	return converted, nil
}

// ConvertPrices converts every product price from the base currency into target
// and rounds the results to 2 decimal places. The input slice is never mutated.
func (c *Converter) ConvertPrices(ctx context.Context, products []store.Product, target Currency) ([]store.Product, error) {
	if target == Base {
		return products, nil
	}
	rate, err := c.rate(ctx, Base, target)
	if err != nil {
		return nil, err
	}

	converted := make([]store.Product, len(products))
	for i, product := range products {
		product.Price = roundPrice(product.Price * rate)
		converted[i] = product
	}
	return converted, nil
}

// rate returns the conversion rate for a currency pair.
// An identical pair is always exactly 1, bypassing the remote call.
func (c *Converter) rate(ctx context.Context, source, target Currency) (float64, error) {
	if source == target {
		return 1, nil
	}
	rate, err := c.source.Quote(ctx, source, target)
	if err != nil {
		c.logger.ErrorContext(ctx, "Rate lookup failed", "source", source, "target", target, "error", err)
		return 0, fmt.Errorf("failed to fetch rate for %s->%s: %w", source, target, err)
	}
	return rate, nil
}

// roundPrice rounds to 2 decimal places.
func roundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}
