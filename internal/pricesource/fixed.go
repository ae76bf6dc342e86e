package pricesource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnknownInstrument = errors.New("no price for instrument")

type quote struct {
	from  time.Time
	price decimal.Decimal
}

// Fixed answers from an in-memory price table. A price set with SetFrom
// applies from its time onwards; the most recent one at or before the query
// time wins.
type Fixed struct {
	quotes map[string][]quote
}

func NewFixed() *Fixed {
	return &Fixed{quotes: make(map[string][]quote)}
}

// Set gives the instrument a constant price.
func (f *Fixed) Set(instrument string, price decimal.Decimal) *Fixed {
	return f.SetFrom(instrument, time.Time{}, price)
}

func (f *Fixed) SetFrom(instrument string, from time.Time, price decimal.Decimal) *Fixed {
	qs := append(f.quotes[instrument], quote{from: from, price: price})
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].from.Before(qs[j].from) })
	f.quotes[instrument] = qs
	return f
}

func (f *Fixed) Price(_ context.Context, instrument string, at time.Time) (decimal.Decimal, error) {
	qs := f.quotes[instrument]
	i := sort.Search(len(qs), func(i int) bool { return qs[i].from.After(at) })
	if i == 0 {
		return decimal.Zero, fmt.Errorf("%s at %s: %w", instrument, at.Format(time.RFC3339), ErrUnknownInstrument)
	}
	return qs[i-1].price, nil
}
