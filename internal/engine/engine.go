package engine

import (
	"context"
	"io"
	"time"
	"tradeperf/types"

	"github.com/sirupsen/logrus"
)

type Engine struct {
	prices          PriceSource
	valuationConfig *ValuationConfig
	reportingConfig *ReportingConfig
	log             logrus.FieldLogger
}

// Result is everything a run produced.
type Result struct {
	Report     *Report
	Points     []types.ValuationPoint
	Events     []types.MatchEvent
	OpenLots   map[string]types.OpenLots
	FinishedAt time.Time
}

// NewEngine wires a price source with the run options. Nil configs fall back
// to the defaults and a nil logger discards everything.
func NewEngine(prices PriceSource, valuationConfig *ValuationConfig, reportingConfig *ReportingConfig, log logrus.FieldLogger) *Engine {
	if valuationConfig == nil {
		valuationConfig = DefaultValuationConfig()
	}
	if reportingConfig == nil {
		reportingConfig = DefaultReportingConfig()
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Engine{
		prices:          prices,
		valuationConfig: valuationConfig,
		reportingConfig: reportingConfig,
		log:             log,
	}
}

// Run validates trades, values the portfolio at every checkpoint and reduces
// the series to a report. No state survives between runs.
func (e *Engine) Run(ctx context.Context, trades []types.Trade) (*Result, error) {
	e.log.WithFields(logrus.Fields{
		"trades":      len(trades),
		"policy":      e.valuationConfig.policy,
		"granularity": e.valuationConfig.granularity,
	}).Info("starting performance run")

	if err := ValidateTrades(trades); err != nil {
		e.log.WithError(err).Error("trade validation failed")
		return nil, err
	}

	v := &valuator{prices: e.prices, config: e.valuationConfig, log: e.log}
	val, err := v.run(ctx, trades)
	if err != nil {
		return nil, err
	}

	report := generateReport(trades, val, e.reportingConfig.sharpeRiskFreeRate)
	res := &Result{
		Report:     report,
		Points:     val.Points,
		Events:     val.Events,
		OpenLots:   val.Open,
		FinishedAt: time.Now(),
	}

	if err := e.exportFiles(res); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"checkpoints": len(res.Points),
		"matches":     report.MatchCount,
		"net_profit":  report.NetProfit.String(),
	}).Info("performance run finished")
	return res, nil
}

func (e *Engine) exportFiles(res *Result) error {
	if path := e.reportingConfig.matchesFile; path != "" {
		if err := writeMatchesCSVFile(path, res.Events); err != nil {
			return err
		}
		e.log.WithField("path", path).Info("wrote match events")
	}
	if path := e.reportingConfig.valuationFile; path != "" {
		if err := writeValuationCSVFile(path, res.Points); err != nil {
			return err
		}
		e.log.WithField("path", path).Info("wrote valuation series")
	}
	return nil
}
