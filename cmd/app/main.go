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
	_ "time/tzdata"

	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/internal/cache"
	"github.com/Domenick1991/thsrbook/internal/captcha"
	"github.com/Domenick1991/thsrbook/internal/console"
	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/Domenick1991/thsrbook/internal/kafka"
	"github.com/Domenick1991/thsrbook/internal/parser"
	"github.com/Domenick1991/thsrbook/internal/preset"
	"github.com/Domenick1991/thsrbook/internal/repository"
	"github.com/Domenick1991/thsrbook/internal/service/booking"
	"github.com/Domenick1991/thsrbook/internal/service/history"
	"github.com/Domenick1991/thsrbook/internal/transport"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/Domenick1991/thsrbook/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	cfgPath := flag.String("config", defaultConfig, "path to the YAML config file")
	presetIndex := flag.Int("preset", 0, "1-based index of the preset to book with; 0 asks")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Log.Level)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *presetIndex, log); err != nil {
		stop()
		printFailure(err)
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, presetIndex int, log logger.Logger) error {
	loc, err := time.LoadLocation(cfg.Site.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	term := console.New(os.Stdin, os.Stdout, loc)

	store, closeStore := newPresetStore(cfg)
	defer closeStore()

	chosen, err := choosePreset(ctx, store, term, presetIndex)
	if err != nil {
		return err
	}

	categories, err := domain.ParseTicketCategories(cfg.Booking.IdentityCategories)
	if err != nil {
		return fmt.Errorf("booking.identity_categories: %w", err)
	}

	client, err := transport.NewClient(cfg.Site, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(cfg.Metrics.Namespace, reg)
	if cfg.Metrics.TextfilePath != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(cfg.Metrics.TextfilePath, reg); err != nil {
				log.Warn("Failed to write metrics", "path", cfg.Metrics.TextfilePath, "error", err)
			}
		}()
	}

	opts := []booking.Option{
		booking.WithMetrics(m),
		booking.WithIdentityCategories(categories),
	}

	if cfg.Database.Enabled() {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		repo := repository.NewReservationRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("reservation schema: %w", err)
		}
		var historyCache history.Cache
		if cfg.Redis.Enabled() {
			redisCache := cache.NewRedisCache(cfg.Redis)
			defer redisCache.Close()
			historyCache = redisCache
		}
		opts = append(opts, booking.WithRecorder(history.NewHistoryService(repo, historyCache, m)))
	}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer producer.Close()
		opts = append(opts, booking.WithProducer(producer, cfg.Kafka.ReservationTopic))
	}

	var solverOpts []captcha.Option
	if cfg.Captcha.InlinePreview && isatty.IsTerminal(os.Stdout.Fd()) {
		solverOpts = append(solverOpts, captcha.WithPreview(os.Stdout))
	}

	workflow := booking.NewWorkflow(
		cfg.Site,
		client,
		parser.NewResponseParser(log),
		captcha.NewSolver(cfg.Captcha, term, log, solverOpts...),
		term,
		log,
		opts...,
	)
	log.Info("Booking started", "run_id", workflow.RunID(), "preset", chosen != nil)

	summary, err := workflow.Run(ctx, chosen)
	if err != nil {
		return err
	}
	term.PrintSummary(summary)

	if chosen == nil {
		save, err := term.OfferSave(ctx)
		if err != nil {
			log.Warn("Could not read answer", "error", err)
			return nil
		}
		if save {
			p := domain.Preset{Booking: workflow.Draft(), TicketConfirmation: workflow.Identity()}
			if err := preset.Append(ctx, store, p); err != nil {
				log.Warn("Failed to save preset", "error", err)
			}
		}
	}
	return nil
}

func newPresetStore(cfg *config.Config) (preset.Store, func()) {
	if cfg.Presets.Backend == "redis" && cfg.Redis.Enabled() {
		store := cache.NewPresetStore(cfg.Redis, cfg.Presets.RedisKey)
		return store, func() { _ = store.Close() }
	}
	return preset.NewFileStore(cfg.Presets.Path), func() {}
}

func choosePreset(ctx context.Context, store preset.Store, term *console.Console, index int) (*domain.Preset, error) {
	presets, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if index > 0 {
		p, err := preset.Select(presets, index)
		if err != nil {
			return nil, err
		}
		return &p, nil
	}
	return term.ChoosePreset(ctx, presets)
}

func printFailure(err error) {
	var rejected *domain.ValidationRejectedError
	if errors.As(err, &rejected) {
		fmt.Fprintln(os.Stderr, "The booking site rejected the request:")
		for _, msg := range rejected.Messages {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Booking failed: %v\n", err)
}
