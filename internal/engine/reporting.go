package engine

import (
	"math"
	"sync"
	"time"
	"tradeperf/types"

	"github.com/shopspring/decimal"
)

const outlierZScore = 3.0

type Report struct {
	// Meta / period info
	StartDate   time.Time
	EndDate     time.Time
	TotalTrades int
	MatchCount  int

	// Volume
	TotalVolume    decimal.Decimal
	AvgTradeVolume decimal.Decimal

	// Realized performance
	GrossProfit decimal.Decimal
	GrossLoss   decimal.Decimal
	NetProfit   decimal.Decimal

	// Portfolio value
	CumulativeReturn  decimal.Decimal
	OpenPositionValue decimal.Decimal

	// Return distribution, on outlier filtered returns. NaN when undefined.
	AvgTradeReturn float64
	WinRate        float64

	// Drawdown, in percent of the running peak
	MaxDrawdown float64

	// Risk-adjusted metrics. NaN when undefined.
	SharpeRatio float64
	ROMAD       float64
}

func generateReport(trades []types.Trade, val *Valuation, riskFreeRate decimal.Decimal) *Report {
	report := &Report{
		TotalTrades:       len(trades),
		MatchCount:        len(val.Events),
		OpenPositionValue: val.OpenPositionValue,
		CumulativeReturn:  decimal.Zero,
	}
	if n := len(val.Points); n > 0 {
		report.StartDate = val.Points[0].Time
		report.EndDate = val.Points[n-1].Time
		report.CumulativeReturn = val.Points[n-1].Value
	}

	returns := FilterOutliers(PortfolioReturns(val.Points))
	rf := riskFreeRate.InexactFloat64()

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		report.GrossProfit, report.GrossLoss, report.NetProfit = ProfitBreakdown(val.Events)
	}()
	go func() {
		defer wg.Done()
		report.TotalVolume, report.AvgTradeVolume = TradeVolume(trades)
	}()
	go func() {
		defer wg.Done()
		report.MaxDrawdown = MaxDrawdown(val.Points)
	}()
	go func() {
		defer wg.Done()
		report.AvgTradeReturn = AverageReturn(returns)
		report.WinRate = WinRate(returns)
	}()
	go func() {
		defer wg.Done()
		report.SharpeRatio = SharpeRatio(returns, rf)
	}()
	wg.Wait()

	report.ROMAD = ROMAD(report.NetProfit, report.MaxDrawdown)
	return report
}

// PortfolioReturns is the period over period change of portfolio value.
// Changes from a zero value are undefined and dropped.
func PortfolioReturns(points []types.ValuationPoint) []float64 {
	if len(points) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(points)-1)
	prev := points[0].Value.InexactFloat64()
	for _, p := range points[1:] {
		cur := p.Value.InexactFloat64()
		r := (cur - prev) / prev
		prev = cur
		if math.IsInf(r, 0) || math.IsNaN(r) {
			continue
		}
		returns = append(returns, r)
	}
	return returns
}

// FilterOutliers keeps returns whose z-score is strictly within 3 standard
// deviations of the mean. A series with no spread has no outliers.
func FilterOutliers(returns []float64) []float64 {
	mean, std := meanStd(returns)
	if math.IsNaN(std) || std == 0 {
		return returns
	}
	kept := make([]float64, 0, len(returns))
	for _, r := range returns {
		if math.Abs((r-mean)/std) < outlierZScore {
			kept = append(kept, r)
		}
	}
	return kept
}

// MaxDrawdown returns the largest decline from a running peak, in percent of
// that peak. Points where the running peak is zero are skipped.
func MaxDrawdown(points []types.ValuationPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	maxDD := 0.0
	peak := points[0].Value
	for _, p := range points {
		if p.Value.GreaterThan(peak) {
			peak = p.Value
		}
		if peak.IsZero() {
			continue
		}
		dd := peak.Sub(p.Value).Div(peak.Abs()).InexactFloat64() * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// SharpeRatio is mean(returns - riskFree) / std(returns), using the sample
// standard deviation. It is NaN with fewer than two returns or no variance.
func SharpeRatio(returns []float64, riskFree float64) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - riskFree
	}
	mean, std := meanStd(excess)
	if std == 0 || math.IsNaN(std) {
		return math.NaN()
	}
	return mean / std
}

func WinRate(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns))
}

// AverageReturn is NaN on an empty series.
func AverageReturn(returns []float64) float64 {
	mean, _ := meanStd(returns)
	return mean
}

// ProfitBreakdown sums the positive, negative and all realized profits.
func ProfitBreakdown(events []types.MatchEvent) (gross, loss, net decimal.Decimal) {
	gross, loss = decimal.Zero, decimal.Zero
	for _, ev := range events {
		switch {
		case ev.Profit.IsPositive():
			gross = gross.Add(ev.Profit)
		case ev.Profit.IsNegative():
			loss = loss.Add(ev.Profit)
		}
	}
	return gross, loss, gross.Add(loss)
}

// ROMAD is net profit over max drawdown, NaN when there was no drawdown.
func ROMAD(netProfit decimal.Decimal, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return math.NaN()
	}
	return netProfit.InexactFloat64() / maxDrawdown
}

// TradeVolume returns the total and mean trade size. The mean is zero with no trades.
func TradeVolume(trades []types.Trade) (total, avg decimal.Decimal) {
	total = decimal.Zero
	for _, tr := range trades {
		total = total.Add(tr.Size)
	}
	if len(trades) == 0 {
		return total, decimal.Zero
	}
	return total, total.Div(decimal.NewFromInt(int64(len(trades))))
}

// meanStd returns the mean and sample standard deviation. The mean is NaN on
// an empty series and the deviation is NaN with fewer than two values.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return math.NaN(), math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if len(xs) < 2 {
		return mean, math.NaN()
	}
	var varianceSum float64
	for _, x := range xs {
		diff := x - mean
		varianceSum += diff * diff
	}
	return mean, math.Sqrt(varianceSum / float64(len(xs)-1))
}
