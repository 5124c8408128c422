// Package app wires configuration into the services shared by the server
// and worker binaries.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/adlens/internal/config"
	"github.com/ignite/adlens/internal/funnel"
	"github.com/ignite/adlens/internal/insights"
	"github.com/ignite/adlens/internal/mailing"
	"github.com/ignite/adlens/internal/meta"
	"github.com/ignite/adlens/internal/pkg/instrument"
	"github.com/ignite/adlens/internal/pkg/logger"
	"github.com/ignite/adlens/internal/repository/postgres"
	"github.com/ignite/adlens/internal/service/profile"
	"github.com/ignite/adlens/internal/service/report"
	"github.com/ignite/adlens/internal/service/schedule"
	"github.com/ignite/adlens/internal/storage"
	"github.com/ignite/adlens/internal/worker"
)

// App holds the wired services and the resources they own.
type App struct {
	Config    *config.Config
	DB        *sql.DB
	Redis     *redis.Client
	Metrics   *instrument.Metrics
	Reports   *report.Service
	Profiles  *profile.Service
	Schedules *schedule.Service
	Scheduler *worker.ReportScheduler
}

// New opens the database and Redis, then builds every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.RedactPII != nil {
		logger.SetRedactPII(*cfg.Logging.RedactPII)
	}

	db, err := OpenDB(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, DB: db, Metrics: instrument.New()}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[app] Redis unavailable, continuing without cache: %v", err)
			client.Close()
		} else {
			a.Redis = client
			log.Println("[app] Connected to Redis")
		}
	}

	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// OpenDB opens and pings PostgreSQL.
func OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Println("[app] Connected to database")
	return db, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config

	table := funnel.DefaultTable()
	if cfg.BenchmarksPath != "" {
		t, err := funnel.LoadTable(cfg.BenchmarksPath)
		if err != nil {
			return fmt.Errorf("load benchmarks: %w", err)
		}
		table = t
		log.Printf("[app] Loaded benchmarks from %s", cfg.BenchmarksPath)
	}

	client := meta.NewClient(cfg.Meta)
	client.SetObserver(a.Metrics)

	var completer insights.Completer
	if cfg.LLM.Enabled {
		bedrock, err := insights.NewBedrockCompleter(ctx, insights.BedrockConfig{
			Region:      cfg.LLM.Region,
			ModelID:     cfg.LLM.ModelID,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
		})
		if err != nil {
			log.Printf("[app] Bedrock unavailable, insights will be rule-based: %v", err)
		} else {
			completer = insights.NewCachedCompleter(bedrock, a.Redis, cfg.Redis.CacheTTL())
		}
	}
	generator := insights.NewGenerator(completer, cfg.LLM.Timeout())
	generator.SetObserver(a.Metrics)

	accounts := postgres.NewAccountRepo(a.DB)
	profiles := postgres.NewProfileRepo(a.DB)

	a.Reports = report.NewService(postgres.NewReportRepo(a.DB), accounts, profiles, client, funnel.NewEngine(table), generator)
	a.Reports.SetObserver(a.Metrics)
	exporter, err := storage.New(ctx, cfg.Export)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	if exporter != nil {
		a.Reports.SetExporter(exporter)
		a.Reports.SetArchive(exporter)
		log.Printf("[app] Exporting report snapshots to %s storage", cfg.Export.Type)
	}

	a.Profiles = profile.NewService(profiles, accounts)

	var deliverer schedule.Deliverer = worker.DisabledDeliverer{}
	if cfg.SES.Enabled() {
		mailer, err := worker.NewReportMailer(ctx, worker.SESConfig{
			AccessKey: cfg.SES.AccessKey,
			SecretKey: cfg.SES.SecretKey,
			Region:    cfg.SES.Region,
			FromEmail: cfg.SES.FromEmail,
			FromName:  cfg.SES.FromName,
			BaseURL:   cfg.Server.BaseURL,
		}, mailing.NewTemplateService())
		if err != nil {
			return fmt.Errorf("init SES: %w", err)
		}
		deliverer = mailer
	} else {
		log.Println("[app] SES not configured; scheduled deliveries will be recorded as failed")
	}

	a.Schedules = schedule.NewService(postgres.NewScheduleRepo(a.DB), postgres.NewDeliveryRepo(a.DB), accounts, a.Reports, deliverer)
	a.Schedules.SetBatchSize(cfg.Scheduler.BatchSize)

	a.Scheduler = worker.NewReportScheduler(a.Schedules, a.DB)
	a.Scheduler.SetRedisClient(a.Redis)
	a.Scheduler.SetPollInterval(cfg.Scheduler.PollInterval())
	a.Scheduler.SetTickTimeout(cfg.Scheduler.TickTimeout())
	a.Scheduler.SetObserver(a.Metrics)
	return nil
}

// Close stops the scheduler and releases connections.
func (a *App) Close() {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
