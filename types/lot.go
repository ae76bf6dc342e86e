package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Lot is an unmatched quantity waiting for an offsetting trade.
type Lot struct {
	Size       decimal.Decimal
	EntryPrice decimal.Decimal
	OpenedAt   time.Time
}

// Unrealized is the mark-to-market profit of the lot held in direction dir at price.
func (l Lot) Unrealized(dir Direction, price decimal.Decimal) decimal.Decimal {
	if dir == DirectionShort {
		return l.EntryPrice.Sub(price).Mul(l.Size)
	}
	return price.Sub(l.EntryPrice).Mul(l.Size)
}

// OpenLots are the lots still open for one instrument. At most one side is non-empty.
type OpenLots struct {
	Instrument string
	Long       []Lot
	Short      []Lot
}

func (o OpenLots) Empty() bool {
	return len(o.Long) == 0 && len(o.Short) == 0
}

func (o OpenLots) Unrealized(price decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Long {
		total = total.Add(l.Unrealized(DirectionLong, price))
	}
	for _, l := range o.Short {
		total = total.Add(l.Unrealized(DirectionShort, price))
	}
	return total
}
