package engine

import (
	"fmt"
	"io"
	"math"
)

// PrintReport writes the report as a console block.
func PrintReport(w io.Writer, report *Report) {
	fmt.Fprintln(w, "===== Performance Report =====")
	if !report.StartDate.IsZero() {
		fmt.Fprintf(w, "Period:                %s -> %s\n", report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "Total Trades:          %d\n", report.TotalTrades)
	fmt.Fprintf(w, "Matched Events:        %d\n", report.MatchCount)
	fmt.Fprintf(w, "Total Volume:          %s\n", report.TotalVolume)
	fmt.Fprintf(w, "Avg Trade Volume:      %s\n", report.AvgTradeVolume.StringFixed(4))

	fmt.Fprintln(w, "\n-- Realized Performance --")
	fmt.Fprintf(w, "Gross Profit:          %s\n", report.GrossProfit)
	fmt.Fprintf(w, "Gross Loss:            %s\n", report.GrossLoss)
	fmt.Fprintf(w, "Net Profit:            %s\n", report.NetProfit)

	fmt.Fprintln(w, "\n-- Portfolio --")
	fmt.Fprintf(w, "Cumulative Return:     %s\n", report.CumulativeReturn)
	fmt.Fprintf(w, "Open Position Value:   %s\n", report.OpenPositionValue)
	fmt.Fprintf(w, "Avg Trade Return:      %s\n", formatRatio(report.AvgTradeReturn))
	fmt.Fprintf(w, "Win Rate:              %s\n", formatRatio(report.WinRate))

	fmt.Fprintln(w, "\n-- Risk --")
	fmt.Fprintf(w, "Max Drawdown %%:        %s\n", formatRatio(report.MaxDrawdown))
	fmt.Fprintf(w, "Sharpe Ratio:          %s\n", formatRatio(report.SharpeRatio))
	fmt.Fprintf(w, "ROMAD:                 %s\n", formatRatio(report.ROMAD))

	fmt.Fprintln(w, "==============================")
}

func formatRatio(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", v)
}
