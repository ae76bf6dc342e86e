package engine

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"
	"tradeperf/types"

	"github.com/shopspring/decimal"
)

var errNoFakePrice = errors.New("no fake price")

var baseTime = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestTrade(instrument string, day int, side types.Side, size, price string) types.Trade {
	return types.NewTrade(instrument, baseTime.AddDate(0, 0, day), side, d(size), d(price))
}

// exampleTrades is the five trade AAPL/GOOGL history used across tests.
func exampleTrades() []types.Trade {
	return []types.Trade{
		newTestTrade("AAPL", 0, types.SideTypeBuy, "10", "150"),
		newTestTrade("AAPL", 1, types.SideTypeSell, "10", "155"),
		newTestTrade("AAPL", 2, types.SideTypeBuy, "1", "160"),
		newTestTrade("GOOGL", 3, types.SideTypeBuy, "5", "1200"),
		newTestTrade("GOOGL", 4, types.SideTypeSell, "1", "1190"),
	}
}

// fakePrices answers a constant price per instrument and records every call.
type fakePrices struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	calls  []priceCall
}

type priceCall struct {
	instrument string
	at         time.Time
}

func newFakePrices(kv ...string) *fakePrices {
	f := &fakePrices{prices: make(map[string]decimal.Decimal)}
	for i := 0; i+1 < len(kv); i += 2 {
		f.prices[kv[i]] = d(kv[i+1])
	}
	return f
}

func (f *fakePrices) Price(_ context.Context, instrument string, at time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, priceCall{instrument: instrument, at: at})
	p, ok := f.prices[instrument]
	if !ok {
		return decimal.Zero, errNoFakePrice
	}
	return p, nil
}

func approxEqual(got, want, tol float64) bool {
	if math.IsNaN(want) {
		return math.IsNaN(got)
	}
	return math.Abs(got-want) <= tol
}
