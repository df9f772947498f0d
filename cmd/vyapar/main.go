package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/ai"
	"github.com/shanehull/vyapar/internal/cache"
	"github.com/shanehull/vyapar/internal/config"
	"github.com/shanehull/vyapar/internal/decision"
	"github.com/shanehull/vyapar/internal/demand"
	"github.com/shanehull/vyapar/internal/engine"
	"github.com/shanehull/vyapar/internal/festival"
	"github.com/shanehull/vyapar/internal/history"
	"github.com/shanehull/vyapar/internal/notify"
	"github.com/shanehull/vyapar/internal/sources"
	"github.com/shanehull/vyapar/internal/store"
	"github.com/shanehull/vyapar/internal/trend"
)

var (
	configPath  = flag.String("config", "", "(-c) Path to a YAML config file (default: $VYAPAR_CONFIG_PATH)")
	seedPath    = flag.String("seed", "", "Load sales and inventory records from a JSON file before the run")
	noFestivals = flag.Bool("no-festivals", false, "Skip the festival stock advisor for this run")
)

func init() {
	flag.StringVar(configPath, "c", "", "(-c) Path to a YAML config file (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		for _, name := range []string{"config", "seed", "no-festivals"} {
			if f := flag.CommandLine.Lookup(name); f != nil {
				fmt.Fprintf(flag.CommandLine.Output(), "  -%s\n    %s\n", f.Name, f.Usage)
			}
		}
	}
}

func newLogger(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error loading config: %v\n", err)
		os.Exit(1)
	}
	if *noFestivals {
		cfg.Festival.Enabled = false
	}

	logger := newLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.WithError(err).Error("Run failed")
		os.Exit(1)
	}
}

// run wires the collaborators and executes one cycle.
func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	db, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if *seedPath != "" {
		n, err := seed(ctx, db, *seedPath)
		if err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		logger.WithField("records", n).Info("Seeded store")
	}

	now := func() time.Time { return time.Now().UTC() }

	deps := engine.Deps{
		Forecaster:      demand.NewForecaster(db, cfg.Forecast.LookbackDays, now, logger),
		Spikes:          demand.NewSpikeDetector(db, cfg.Spike.StockThreshold, logger),
		SpikeConfidence: cfg.Spike.Confidence,
		Now:             now,
		Log:             logger,
	}

	var (
		verdicts     trend.VerdictCache
		verdictCache *cache.VerdictCache
	)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisConnection(ctx, cfg.Redis, logger)
		if err != nil {
			logger.WithError(err).Warn("Continuing without verdict cache")
		} else {
			defer rdb.Close()
			verdictCache = cache.NewVerdictCache(rdb, cfg.Redis.VerdictTTL, logger)
			verdicts = verdictCache
		}
	}

	verifier := trend.NewVerifier(sources.NewClient(cfg.Sources), cfg.Sources.SearchURL, verdicts, logger)
	deps.Trends = trend.NewDetector(
		sources.NewSet(cfg.Sources, logger),
		trend.NewRelevanceFilter(cfg.Trend.Keywords),
		verifier,
		cfg.Trend.Threshold,
		cfg.Trend.TopSellers,
		logger,
	)

	var publisher decision.Publisher
	if cfg.NATS.URL != "" {
		nc, err := decision.Connect(cfg.NATS, logger)
		if err != nil {
			logger.WithError(err).Warn("Continuing without decision events")
		} else {
			defer nc.Drain()
			pub := decision.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix)
			logger.WithField("subject", pub.Subject()).Info("Publishing decision events")
			publisher = pub
		}
	}
	deps.Decisions = decision.NewLogger(db, cfg.Decision.Agent, now, publisher, logger)

	if advisor := newAdvisor(ctx, cfg, now, logger); advisor != nil {
		deps.Festival = advisor
	}

	historyPath := ""
	if cfg.Email.Enabled() {
		deps.Sender = notify.NewEmailSender(cfg.Email, logger)

		ledger, err := history.NewManager("", cfg.Timezone, now, logger)
		if err != nil {
			logger.WithError(err).Warn("Continuing without notification history")
		} else {
			deps.Ledger = ledger
			historyPath = ledger.HistoryFilePath()
		}
	}

	report := engine.New(deps).RunCycle(ctx)
	notify.ReportRun(os.Stdout, report, historyPath)

	if verdictCache != nil {
		stats := verdictCache.Stats()
		logger.WithFields(logrus.Fields{
			"hits":   stats.Hits,
			"misses": stats.Misses,
			"sets":   stats.Sets,
		}).Info("Verdict cache usage")
	}

	if decisions, err := store.LoadDecisions(ctx, db); err != nil {
		logger.WithError(err).Warn("Failed to read decision log")
	} else {
		logger.WithField("total", len(decisions)).Info("Decision log size")
	}

	if len(report.Errors) > 0 {
		logger.WithField("failed_steps", len(report.Errors)).Warn("Cycle finished with errors")
	}
	return nil
}

// newAdvisor returns nil when festival advice is disabled or cannot be set up.
func newAdvisor(ctx context.Context, cfg config.Config, now func() time.Time, logger logrus.FieldLogger) *festival.Advisor {
	if !cfg.Festival.Enabled {
		return nil
	}
	if cfg.Festival.APIKey == "" {
		logger.Warn("GOOGLE_CALENDAR_API_KEY not set, skipping festival advisor")
		return nil
	}

	cal, err := festival.NewGoogleCalendar(ctx, cfg.Festival.APIKey)
	if err != nil {
		logger.WithError(err).Warn("Skipping festival advisor")
		return nil
	}

	var completer ai.Completer
	gemini, err := ai.NewGeminiClient(ctx, cfg.AI)
	switch {
	case errors.Is(err, ai.ErrNoAPIKey):
		logger.Warn("GEMINI_API_KEY not set, every event will be skipped")
	case err != nil:
		logger.WithError(err).Warn("Completion client unavailable, every event will be skipped")
	default:
		completer = gemini
	}

	return festival.NewAdvisor(cal, completer, cfg.Festival.Calendars(), cfg.Festival.LookaheadDays, cfg.Festival.Pace, now, logger)
}

func seed(ctx context.Context, s store.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return store.Seed(ctx, s, f)
}
