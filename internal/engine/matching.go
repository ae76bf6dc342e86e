package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"tradeperf/types"

	"github.com/shopspring/decimal"
)

var ErrInstrumentMismatch = errors.New("trade does not belong to this book")

// book holds the open inventory of a single instrument.
type book struct {
	instrument string
	longs      lotQueue
	shorts     lotQueue
	realized   decimal.Decimal
	events     []types.MatchEvent
}

func newBook(instrument string) *book {
	return &book{instrument: instrument, realized: decimal.Zero}
}

// apply matches the trade against the opposite queue, oldest lot first, and
// opens a new lot with whatever size is left. It returns the events produced.
func (b *book) apply(tr types.Trade) ([]types.MatchEvent, error) {
	if tr.Instrument != b.instrument {
		return nil, fmt.Errorf("%s into %s: %w", tr.Instrument, b.instrument, ErrInstrumentMismatch)
	}
	if !tr.Size.IsPositive() {
		return nil, nil
	}

	var opposite, same *lotQueue
	var closing types.Direction
	switch tr.Side.Direction() {
	case 1:
		opposite, same = &b.shorts, &b.longs
		closing = types.DirectionShort
	case -1:
		opposite, same = &b.longs, &b.shorts
		closing = types.DirectionLong
	default:
		return nil, fmt.Errorf("%s: %w", tr.Side, types.ErrUnknownSide)
	}

	var produced []types.MatchEvent
	remaining := tr.Size
	for remaining.IsPositive() && !opposite.Empty() {
		lot, _ := opposite.PopFront()
		matched := lot.Size
		if lot.Size.GreaterThan(remaining) {
			matched = remaining
			opposite.PushFront(types.Lot{
				Size:       lot.Size.Sub(remaining),
				EntryPrice: lot.EntryPrice,
				OpenedAt:   lot.OpenedAt,
			})
		}
		ev := types.NewMatchEvent(b.instrument, tr.Time, closing, matched, lot.EntryPrice, tr.Price)
		produced = append(produced, ev)
		b.realized = b.realized.Add(ev.Profit)
		remaining = remaining.Sub(matched)
	}
	if remaining.IsPositive() {
		same.PushBack(types.Lot{Size: remaining, EntryPrice: tr.Price, OpenedAt: tr.Time})
	}

	b.events = append(b.events, produced...)
	return produced, nil
}

func (b *book) openLots() types.OpenLots {
	return types.OpenLots{
		Instrument: b.instrument,
		Long:       b.longs.Lots(),
		Short:      b.shorts.Lots(),
	}
}

// exposed reports whether the instrument still has open lots.
func (b *book) exposed() bool {
	return b.longs.Total().IsPositive() || b.shorts.Total().IsPositive()
}

func (b *book) unrealized(price decimal.Decimal) decimal.Decimal {
	return b.openLots().Unrealized(price)
}

// MatchResult is the outcome of matching a full trade history.
type MatchResult struct {
	Events   []types.MatchEvent
	Open     map[string]types.OpenLots
	Realized decimal.Decimal
}

// MatchTrades runs FIFO matching over trades. Each instrument is matched on
// its own book; books never read each other so they run concurrently.
func MatchTrades(trades []types.Trade) (MatchResult, error) {
	if err := ValidateTrades(trades); err != nil {
		return MatchResult{}, err
	}
	byInstrument, order := groupByInstrument(trades)

	books := make([]*book, len(order))
	errs := make([]error, len(order))
	var wg sync.WaitGroup
	wg.Add(len(order))
	for i, instrument := range order {
		go func() {
			defer wg.Done()
			b := newBook(instrument)
			for _, tr := range byInstrument[instrument] {
				if _, err := b.apply(tr); err != nil {
					errs[i] = err
					return
				}
			}
			books[i] = b
		}()
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return MatchResult{}, err
	}

	res := MatchResult{Open: make(map[string]types.OpenLots, len(books)), Realized: decimal.Zero}
	for _, b := range books {
		res.Events = append(res.Events, b.events...)
		res.Open[b.instrument] = b.openLots()
		res.Realized = res.Realized.Add(b.realized)
	}
	sort.SliceStable(res.Events, func(i, j int) bool {
		return res.Events[i].Time.Before(res.Events[j].Time)
	})
	return res, nil
}

// sortTrades returns a copy of trades ordered by time. Ties keep input order.
func sortTrades(trades []types.Trade) []types.Trade {
	sorted := append([]types.Trade(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})
	return sorted
}

// groupByInstrument splits trades per instrument, each slice in stable time
// order. order lists instruments by first appearance.
func groupByInstrument(trades []types.Trade) (map[string][]types.Trade, []string) {
	grouped := make(map[string][]types.Trade)
	var order []string
	for _, tr := range sortTrades(trades) {
		if _, ok := grouped[tr.Instrument]; !ok {
			order = append(order, tr.Instrument)
		}
		grouped[tr.Instrument] = append(grouped[tr.Instrument], tr)
	}
	return grouped, order
}
