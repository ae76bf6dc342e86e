package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceSource returns the market price of an instrument at a point in time.
// Implementations own their caching and retry policy.
type PriceSource interface {
	Price(ctx context.Context, instrument string, at time.Time) (decimal.Decimal, error)
}

// PriceFunc adapts a plain function to PriceSource.
type PriceFunc func(ctx context.Context, instrument string, at time.Time) (decimal.Decimal, error)

func (f PriceFunc) Price(ctx context.Context, instrument string, at time.Time) (decimal.Decimal, error) {
	return f(ctx, instrument, at)
}
