package engine

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
	"tradeperf/types"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestValuator(prices PriceSource, policy ValuationPolicy, granularity Granularity) *valuator {
	return &valuator{
		prices: prices,
		config: NewValuationConfig(policy, granularity, false),
		log:    testLogger(),
	}
}

func TestValuator_MarkToMarket(t *testing.T) {
	prices := newFakePrices("AAPL", "158", "GOOGL", "1195")
	v := newTestValuator(prices, MarkToMarket, CheckpointEvent)

	val, err := v.run(context.Background(), exampleTrades())
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := []struct {
		realized, unrealized, value string
	}{
		{"0", "80", "80"},
		{"50", "0", "50"},
		{"50", "-2", "48"},
		{"50", "-27", "23"},
		{"40", "-22", "18"},
	}
	if len(val.Points) != len(want) {
		t.Fatalf("run() points got = %d, want %d", len(val.Points), len(want))
	}
	for i, w := range want {
		p := val.Points[i]
		if !p.Realized.Equal(d(w.realized)) || !p.Unrealized.Equal(d(w.unrealized)) || !p.Value.Equal(d(w.value)) {
			t.Errorf("point %d got = %s/%s/%s, want %s/%s/%s", i,
				p.Realized, p.Unrealized, p.Value, w.realized, w.unrealized, w.value)
		}
		if !p.Time.Equal(baseTime.AddDate(0, 0, i)) {
			t.Errorf("point %d time got = %s", i, p.Time)
		}
	}
	if !val.OpenPositionValue.Equal(d("-22")) {
		t.Errorf("OpenPositionValue got = %s, want -22", val.OpenPositionValue)
	}
	if !val.Realized.Equal(d("40")) {
		t.Errorf("Realized got = %s, want 40", val.Realized)
	}
	// One call per exposed instrument per checkpoint: 1 + 0 + 1 + 2 + 2.
	if len(prices.calls) != 6 {
		t.Errorf("price calls got = %d, want 6", len(prices.calls))
	}
	for _, c := range prices.calls {
		if c.instrument == "GOOGL" && c.at.Before(baseTime.AddDate(0, 0, 3)) {
			t.Errorf("GOOGL priced at %s before it was traded", c.at)
		}
	}
}

func TestValuator_RealizedOnly(t *testing.T) {
	prices := newFakePrices("AAPL", "158", "GOOGL", "1195")
	v := newTestValuator(prices, RealizedOnly, CheckpointEvent)

	val, err := v.run(context.Background(), exampleTrades())
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	wantValues := []string{"0", "50", "50", "50", "40"}
	for i, w := range wantValues {
		if !val.Points[i].Value.Equal(d(w)) {
			t.Errorf("point %d value got = %s, want %s", i, val.Points[i].Value, w)
		}
		if !val.Points[i].Unrealized.IsZero() {
			t.Errorf("point %d unrealized got = %s, want 0", i, val.Points[i].Unrealized)
		}
	}
	// Only the final checkpoint is priced, for the open position value.
	if len(prices.calls) != 2 {
		t.Errorf("price calls got = %d, want 2", len(prices.calls))
	}
	final := baseTime.AddDate(0, 0, 4)
	for _, c := range prices.calls {
		if !c.at.Equal(final) {
			t.Errorf("price call at %s, want only %s", c.at, final)
		}
	}
	if !val.OpenPositionValue.Equal(d("-22")) {
		t.Errorf("OpenPositionValue got = %s, want -22", val.OpenPositionValue)
	}
}

func TestGranularity_Checkpoints(t *testing.T) {
	day := baseTime
	trades := sortTrades([]types.Trade{
		types.NewTrade("A", day.Add(9*time.Hour), types.SideTypeBuy, d("1"), d("10")),
		types.NewTrade("B", day.Add(9*time.Hour), types.SideTypeBuy, d("1"), d("10")),
		types.NewTrade("A", day.Add(15*time.Hour), types.SideTypeSell, d("1"), d("11")),
		types.NewTrade("A", day.Add(33*time.Hour), types.SideTypeBuy, d("1"), d("12")),
	})

	tests := []struct {
		name        string
		granularity Granularity
		wantTimes   []time.Time
		wantSizes   []int
	}{
		{
			name:        "event",
			granularity: CheckpointEvent,
			wantTimes:   []time.Time{day.Add(9 * time.Hour), day.Add(15 * time.Hour), day.Add(33 * time.Hour)},
			wantSizes:   []int{2, 1, 1},
		},
		{
			name:        "daily",
			granularity: CheckpointDaily,
			wantTimes:   []time.Time{day, day.AddDate(0, 0, 1)},
			wantSizes:   []int{3, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.granularity.checkpoints(trades)
			if len(got) != len(tt.wantTimes) {
				t.Fatalf("checkpoints() len got = %d, want %d", len(got), len(tt.wantTimes))
			}
			for i := range got {
				if !got[i].time.Equal(tt.wantTimes[i]) {
					t.Errorf("checkpoint %d time got = %s, want %s", i, got[i].time, tt.wantTimes[i])
				}
				if len(got[i].trades) != tt.wantSizes[i] {
					t.Errorf("checkpoint %d trades got = %d, want %d", i, len(got[i].trades), tt.wantSizes[i])
				}
			}
		})
	}
}

func TestValuator_DailyAppliesWholeDayBeforeValuing(t *testing.T) {
	prices := newFakePrices("A", "20")
	v := newTestValuator(prices, MarkToMarket, CheckpointDaily)
	val, err := v.run(context.Background(), []types.Trade{
		types.NewTrade("A", baseTime.Add(10*time.Hour), types.SideTypeBuy, d("2"), d("10")),
		types.NewTrade("A", baseTime.Add(16*time.Hour), types.SideTypeSell, d("1"), d("15")),
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if len(val.Points) != 1 {
		t.Fatalf("points got = %d, want 1", len(val.Points))
	}
	// realized 5 plus one open unit marked at 20.
	if !val.Points[0].Value.Equal(d("15")) {
		t.Errorf("value got = %s, want 15", val.Points[0].Value)
	}
	if want := baseTime.Add(16 * time.Hour); len(prices.calls) != 1 || !prices.calls[0].at.Equal(want) {
		t.Errorf("price calls got = %+v, want one at %s", prices.calls, want)
	}
	if !val.Points[0].Time.Equal(baseTime) {
		t.Errorf("point time got = %s, want day %s", val.Points[0].Time, baseTime)
	}
}

func TestValuator_DailyPricesAfterIntradayTrades(t *testing.T) {
	tradeAt := baseTime.Add(14 * time.Hour)
	prices := PriceFunc(func(_ context.Context, _ string, at time.Time) (decimal.Decimal, error) {
		if at.Before(tradeAt) {
			return d("90"), nil
		}
		return d("110"), nil
	})
	trades := []types.Trade{types.NewTrade("X", tradeAt, types.SideTypeBuy, d("1"), d("100"))}

	for _, g := range []Granularity{CheckpointEvent, CheckpointDaily} {
		t.Run(string(g), func(t *testing.T) {
			val, err := newTestValuator(prices, MarkToMarket, g).run(context.Background(), trades)
			if err != nil {
				t.Fatalf("run() error = %v", err)
			}
			if !val.Points[0].Value.Equal(d("10")) || !val.OpenPositionValue.Equal(d("10")) {
				t.Errorf("value/open got = %s/%s, want 10/10", val.Points[0].Value, val.OpenPositionValue)
			}
		})
	}
}

func TestValuator_PriceErrors(t *testing.T) {
	boom := errors.New("feed down")
	tests := []struct {
		name    string
		prices  PriceSource
		wantErr []error
	}{
		{
			name: "source error is wrapped",
			prices: PriceFunc(func(context.Context, string, time.Time) (decimal.Decimal, error) {
				return decimal.Zero, boom
			}),
			wantErr: []error{ErrPriceUnavailable, boom},
		},
		{
			name: "non-positive price is rejected",
			prices: PriceFunc(func(context.Context, string, time.Time) (decimal.Decimal, error) {
				return d("-1"), nil
			}),
			wantErr: []error{ErrPriceUnavailable},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValuator(tt.prices, MarkToMarket, CheckpointEvent)
			_, err := v.run(context.Background(), exampleTrades())
			if err == nil {
				t.Fatalf("run() expected error")
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("run() error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestValuator_FlatBookNeedsNoPrice(t *testing.T) {
	v := newTestValuator(newFakePrices(), MarkToMarket, CheckpointEvent)
	val, err := v.run(context.Background(), []types.Trade{
		newTestTrade("X", 0, types.SideTypeBuy, "1", "10"),
		newTestTrade("X", 0, types.SideTypeSell, "1", "12"),
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !val.Points[0].Value.Equal(d("2")) || !val.OpenPositionValue.IsZero() {
		t.Errorf("got value %s open %s, want 2 and 0", val.Points[0].Value, val.OpenPositionValue)
	}
}

func TestValuator_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := newTestValuator(newFakePrices("AAPL", "1", "GOOGL", "1"), MarkToMarket, CheckpointEvent)
	if _, err := v.run(ctx, exampleTrades()); !errors.Is(err, context.Canceled) {
		t.Errorf("run() error = %v, want %v", err, context.Canceled)
	}
}

func TestValuator_Empty(t *testing.T) {
	v := newTestValuator(newFakePrices(), MarkToMarket, CheckpointEvent)
	val, err := v.run(context.Background(), nil)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if len(val.Points) != 0 || len(val.Events) != 0 || !val.OpenPositionValue.IsZero() {
		t.Errorf("run() on no trades got = %+v", val)
	}
}

func TestValuate(t *testing.T) {
	prices := newFakePrices("AAPL", "158", "GOOGL", "1195")
	val, err := Valuate(context.Background(), exampleTrades(), prices, nil)
	if err != nil {
		t.Fatalf("Valuate() error = %v", err)
	}
	last := val.Points[len(val.Points)-1]
	if !last.Value.Equal(d("18")) || !val.OpenPositionValue.Equal(d("-22")) {
		t.Errorf("Valuate() last value/open got = %s/%s, want 18/-22", last.Value, val.OpenPositionValue)
	}

	bad := append(exampleTrades(), newTestTrade("", 9, types.SideTypeBuy, "1", "1"))
	if _, err := Valuate(context.Background(), bad, prices, nil); !errors.Is(err, ErrInvalidTrade) {
		t.Errorf("Valuate() error = %v, want %v", err, ErrInvalidTrade)
	}
}
