package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuationPoint is the portfolio value at one checkpoint.
type ValuationPoint struct {
	Time       time.Time
	Realized   decimal.Decimal
	Unrealized decimal.Decimal
	Value      decimal.Decimal
}
