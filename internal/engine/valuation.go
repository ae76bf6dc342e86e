package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"tradeperf/types"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var ErrPriceUnavailable = errors.New("price unavailable")

// Valuation is the portfolio value series of a run plus the matching state
// it was built from.
type Valuation struct {
	Points            []types.ValuationPoint
	Events            []types.MatchEvent
	Open              map[string]types.OpenLots
	Realized          decimal.Decimal
	OpenPositionValue decimal.Decimal
}

// checkpoint is labelled with time and priced at priceAt, the time of its
// last trade.
type checkpoint struct {
	time    time.Time
	priceAt time.Time
	trades  []types.Trade
}

type valuator struct {
	prices PriceSource
	config *ValuationConfig
	log    logrus.FieldLogger
}

// Valuate validates trades and values the portfolio at every checkpoint.
// A nil config uses DefaultValuationConfig.
func Valuate(ctx context.Context, trades []types.Trade, prices PriceSource, config *ValuationConfig) (*Valuation, error) {
	if err := ValidateTrades(trades); err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultValuationConfig()
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	v := &valuator{prices: prices, config: config, log: discard}
	return v.run(ctx, trades)
}

// checkpoints groups time-ordered trades by checkpoint time.
func (g Granularity) checkpoints(sorted []types.Trade) []checkpoint {
	var out []checkpoint
	for _, tr := range sorted {
		at := g.checkpoint(tr.Time)
		if n := len(out); n > 0 && out[n-1].time.Equal(at) {
			out[n-1].trades = append(out[n-1].trades, tr)
			out[n-1].priceAt = tr.Time
			continue
		}
		out = append(out, checkpoint{time: at, priceAt: tr.Time, trades: []types.Trade{tr}})
	}
	return out
}

// run applies trades checkpoint by checkpoint and values the portfolio after
// each one. Trades must already be validated.
func (v *valuator) run(ctx context.Context, trades []types.Trade) (*Valuation, error) {
	cps := v.config.granularity.checkpoints(sortTrades(trades))
	books := make(map[string]*book)
	var order []string

	res := &Valuation{
		Points:            make([]types.ValuationPoint, 0, len(cps)),
		Realized:          decimal.Zero,
		OpenPositionValue: decimal.Zero,
	}

	var bar *progressbar.ProgressBar
	if v.config.showProgress {
		bar = initProgressBar(len(cps))
	}

	for i, cp := range cps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, tr := range cp.trades {
			b, ok := books[tr.Instrument]
			if !ok {
				b = newBook(tr.Instrument)
				books[tr.Instrument] = b
				order = append(order, tr.Instrument)
			}
			events, err := b.apply(tr)
			if err != nil {
				return nil, err
			}
			for _, ev := range events {
				res.Realized = res.Realized.Add(ev.Profit)
			}
			res.Events = append(res.Events, events...)
		}

		point := types.ValuationPoint{Time: cp.time, Realized: res.Realized, Unrealized: decimal.Zero}
		last := i == len(cps)-1
		if v.config.policy == MarkToMarket || last {
			unrealized, err := v.markToMarket(ctx, books, order, cp.priceAt)
			if err != nil {
				return nil, err
			}
			if v.config.policy == MarkToMarket {
				point.Unrealized = unrealized
			}
			if last {
				res.OpenPositionValue = unrealized
			}
		}
		point.Value = point.Realized.Add(point.Unrealized)
		res.Points = append(res.Points, point)

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	res.Open = make(map[string]types.OpenLots, len(books))
	for _, instrument := range order {
		res.Open[instrument] = books[instrument].openLots()
	}
	v.log.WithFields(logrus.Fields{
		"checkpoints": len(res.Points),
		"events":      len(res.Events),
		"policy":      v.config.policy,
	}).Debug("valuation complete")
	return res, nil
}

// markToMarket values every open lot at the price of its instrument at time at.
// The price source is called once per instrument with open exposure.
func (v *valuator) markToMarket(ctx context.Context, books map[string]*book, order []string, at time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, instrument := range order {
		b := books[instrument]
		if !b.exposed() {
			continue
		}
		price, err := v.prices.Price(ctx, instrument, at)
		if err != nil {
			v.log.WithFields(logrus.Fields{
				"instrument": instrument,
				"time":       at,
			}).WithError(err).Warn("price lookup failed")
			return decimal.Zero, fmt.Errorf("%s at %s: %w: %w", instrument, at.Format(time.RFC3339), ErrPriceUnavailable, err)
		}
		if !price.IsPositive() {
			return decimal.Zero, fmt.Errorf("%s at %s: non-positive price %s: %w", instrument, at.Format(time.RFC3339), price, ErrPriceUnavailable)
		}
		total = total.Add(b.unrealized(price))
	}
	return total, nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Valuing checkpoints..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
