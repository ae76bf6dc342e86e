package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
	"tradeperf/internal/config"
	"tradeperf/internal/engine"
	"tradeperf/internal/ingest"
	"tradeperf/internal/pricesource"
	"tradeperf/internal/repository"
	"tradeperf/types"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// runFlags are shared by every subcommand. Zero values fall back to the environment.
type runFlags struct {
	tradesFile  string
	from, to    string
	riskFree    string
	policy      string
	granularity string
	prices      string
}

func (r *runFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.tradesFile, "trades", "", "CSV trade file (date,symbol,side,size,price). Loads from Postgres when empty.")
	f.StringVar(&r.from, "from", "", "First trade date loaded from Postgres (YYYY-MM-DD)")
	f.StringVar(&r.to, "to", "", "Last trade date loaded from Postgres (YYYY-MM-DD)")
	f.StringVar(&r.riskFree, "rf", "", "Risk free rate used by the Sharpe ratio (default RISK_FREE_RATE or 0.01)")
	f.StringVar(&r.policy, "policy", "", "Valuation policy: mark-to-market or realized-only")
	f.StringVar(&r.granularity, "granularity", "", "Checkpoint granularity: event or daily")
	f.StringVar(&r.prices, "prices", "", "Price source: postgres, random or seeded-random")
}

// app is the wiring of one command invocation.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	db     *repository.Database
	prices engine.PriceSource
}

// newApp builds the wiring for one invocation. Without needPrices no price
// source is built and the database is opened only to load trades.
func newApp(ctx context.Context, flags *runFlags, needPrices bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.policy != "" {
		cfg.ValuationPolicy = flags.policy
	}
	if flags.granularity != "" {
		cfg.CheckpointGranularity = flags.granularity
	}
	if flags.prices != "" {
		cfg.PriceSource = flags.prices
	}
	if flags.riskFree != "" {
		rf, err := strconv.ParseFloat(flags.riskFree, 64)
		if err != nil {
			return nil, fmt.Errorf("parse -rf: %w", err)
		}
		cfg.RiskFreeRate = rf
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: newLogger(cfg)}

	needDB := flags.tradesFile == "" || (needPrices && cfg.PriceSource == config.PriceSourcePostgres)
	if needDB {
		a.db, err = repository.NewDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
	}

	if !needPrices {
		return a, nil
	}
	switch cfg.PriceSource {
	case config.PriceSourcePostgres:
		a.prices = a.db
	case config.PriceSourceRandom:
		a.prices = pricesource.NewRandom(cfg.RandomPriceMin, cfg.RandomPriceMax, cfg.RandomSeed)
	case config.PriceSourceSeededRandom:
		a.prices = pricesource.NewSeededRandom(cfg.RandomPriceMin, cfg.RandomPriceMax, cfg.RandomSeed)
	}
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func (a *app) loadTrades(ctx context.Context, flags *runFlags) ([]types.Trade, error) {
	if flags.tradesFile != "" {
		trades, err := ingest.ReadTradesFile(flags.tradesFile)
		if err != nil {
			return nil, err
		}
		a.log.WithFields(logrus.Fields{"file": flags.tradesFile, "trades": len(trades)}).Info("loaded trades")
		return trades, nil
	}

	from, err := parseDate(flags.from)
	if err != nil {
		return nil, fmt.Errorf("parse -from: %w", err)
	}
	to, err := parseDate(flags.to)
	if err != nil {
		return nil, fmt.Errorf("parse -to: %w", err)
	}
	if !to.IsZero() {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	records, err := a.db.GetTrades(ctx, from, to)
	if err != nil {
		return nil, err
	}
	a.log.WithField("trades", len(records)).Info("loaded trades from database")
	return ingest.NormalizeAll(records)
}

func (a *app) newEngine(matchesFile, valuationFile string) (*engine.Engine, error) {
	policy, err := engine.ParseValuationPolicy(a.cfg.ValuationPolicy)
	if err != nil {
		return nil, err
	}
	granularity, err := engine.ParseGranularity(a.cfg.CheckpointGranularity)
	if err != nil {
		return nil, err
	}
	return engine.NewEngine(
		a.prices,
		engine.NewValuationConfig(policy, granularity, a.cfg.ShowProgress),
		engine.NewReportingConfig(decimal.NewFromFloat(a.cfg.RiskFreeRate), matchesFile, valuationFile),
		a.log,
	), nil
}

// run loads the trades and executes one engine run.
func run(ctx context.Context, flags *runFlags, matchesFile, valuationFile string) (*engine.Result, error) {
	a, err := newApp(ctx, flags, true)
	if err != nil {
		return nil, err
	}
	defer a.close()

	trades, err := a.loadTrades(ctx, flags)
	if err != nil {
		return nil, err
	}
	eng, err := a.newEngine(matchesFile, valuationFile)
	if err != nil {
		return nil, err
	}
	return eng.Run(ctx, trades)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// match loads the trades and runs FIFO matching only. No prices are needed.
func match(ctx context.Context, flags *runFlags) (engine.MatchResult, error) {
	a, err := newApp(ctx, flags, false)
	if err != nil {
		return engine.MatchResult{}, err
	}
	defer a.close()

	trades, err := a.loadTrades(ctx, flags)
	if err != nil {
		return engine.MatchResult{}, err
	}
	res, err := engine.MatchTrades(trades)
	if err != nil {
		return engine.MatchResult{}, err
	}
	a.log.WithFields(logrus.Fields{
		"matches":  len(res.Events),
		"realized": res.Realized.String(),
	}).Info("matching finished")
	return res, nil
}
