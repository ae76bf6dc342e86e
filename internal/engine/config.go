package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ValuationPolicy decides whether open lots contribute to checkpoint values.
type ValuationPolicy string

const (
	// MarkToMarket values every checkpoint as realized profit plus the
	// unrealized profit of open lots at the current price.
	MarkToMarket ValuationPolicy = "mark-to-market"
	// RealizedOnly values every checkpoint as realized profit to date.
	RealizedOnly ValuationPolicy = "realized-only"
)

func ParseValuationPolicy(s string) (ValuationPolicy, error) {
	switch p := ValuationPolicy(s); p {
	case MarkToMarket, RealizedOnly:
		return p, nil
	case "":
		return MarkToMarket, nil
	}
	return "", fmt.Errorf("unknown valuation policy %q", s)
}

// Granularity decides how trade timestamps map to checkpoints.
type Granularity string

const (
	// CheckpointEvent uses every distinct trade timestamp.
	CheckpointEvent Granularity = "event"
	// CheckpointDaily uses every distinct UTC trade day.
	CheckpointDaily Granularity = "daily"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case CheckpointEvent, CheckpointDaily:
		return g, nil
	case "":
		return CheckpointEvent, nil
	}
	return "", fmt.Errorf("unknown checkpoint granularity %q", s)
}

func (g Granularity) checkpoint(t time.Time) time.Time {
	if g == CheckpointDaily {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return t
}

type ValuationConfig struct {
	policy       ValuationPolicy
	granularity  Granularity
	showProgress bool
}

func NewValuationConfig(policy ValuationPolicy, granularity Granularity, showProgress bool) *ValuationConfig {
	return &ValuationConfig{
		policy:       policy,
		granularity:  granularity,
		showProgress: showProgress,
	}
}

func DefaultValuationConfig() *ValuationConfig {
	return NewValuationConfig(MarkToMarket, CheckpointEvent, false)
}

var DefaultRiskFreeRate = decimal.NewFromFloat(0.01)

type ReportingConfig struct {
	sharpeRiskFreeRate decimal.Decimal
	matchesFile        string
	valuationFile      string
}

// NewReportingConfig builds the reporting options. Empty file paths disable the
// corresponding CSV export.
func NewReportingConfig(sharpeRiskFreeRate decimal.Decimal, matchesFile, valuationFile string) *ReportingConfig {
	return &ReportingConfig{
		sharpeRiskFreeRate: sharpeRiskFreeRate,
		matchesFile:        matchesFile,
		valuationFile:      valuationFile,
	}
}

func DefaultReportingConfig() *ReportingConfig {
	return NewReportingConfig(DefaultRiskFreeRate, "", "")
}
