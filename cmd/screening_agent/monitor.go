package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hr360/screening-agent/internal/config"
	"github.com/hr360/screening-agent/internal/db"
	"github.com/hr360/screening-agent/internal/dedup"
	"github.com/hr360/screening-agent/internal/mailbox"
	"github.com/hr360/screening-agent/internal/monitor"
	"github.com/hr360/screening-agent/internal/notify"
	"github.com/hr360/screening-agent/internal/screening"
	"github.com/hr360/screening-agent/internal/server"
	"github.com/hr360/screening-agent/internal/storage"
)

var (
	monitorPort       int
	monitorInitSchema bool
	monitorNoServer   bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the full screening agent",
	Long: `Poll the recruiting mailbox on an interval and screen every new application:
parse resume attachments, score them, upload the files, upsert candidates and
notify HR. The REST API server runs alongside the monitor unless --no-server
is given.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVar(&monitorPort, "port", 0, "API port (defaults to PORT env var)")
	monitorCmd.Flags().BoolVar(&monitorInitSchema, "init-schema", false, "Apply the database schema before starting")
	monitorCmd.Flags().BoolVar(&monitorNoServer, "no-server", false, "Run the polling loop without the REST API")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if monitorInitSchema {
		if err := database.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	analyzer, closeLLM := newAnalyzer(ctx, cfg)
	defer closeLLM()

	// Duplicate-message filter. A nil filter passes everything through,
	// which is safe because the candidate upsert is idempotent.
	var filter *dedup.Filter
	if cfg.RedisAddr != "" {
		filter = dedup.NewFilter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		log.Println("REDIS_ADDR not set; message dedup disabled")
	}

	uploader := storage.NewUploader(cfg.Storage.CloudName, cfg.Storage.UploadPreset)
	if uploader.DemoMode() {
		log.Println("No Cloudinary credentials; resume uploads run in demo mode")
	}

	mailer := notify.NewMailer(cfg.Notify.APIKey, cfg.Notify.FromEmail, cfg.Notify.FromName)
	processor := screening.NewProcessor(database)

	imapCfg := mailbox.Config{
		Addr:     cfg.IMAP.Addr(),
		Username: cfg.IMAP.Username,
		Password: cfg.IMAP.Password,
		Mailbox:  cfg.IMAP.Mailbox,
	}

	mon := monitor.New(monitor.Deps{
		Connect: func(ctx context.Context) (monitor.Session, error) {
			return mailbox.Connect(ctx, imapCfg)
		},
		Dedup:    filter,
		Analyzer: analyzer,
		Uploader: uploader,
		Batcher:  processor,
		Store:    database,
		Mailer:   mailer,
		Interval: cfg.PollInterval,
		Folder:   cfg.Storage.Folder,
		HREmail:  cfg.Notify.HREmail,
	})

	if monitorNoServer {
		mon.Run(ctx)
		return nil
	}

	port := monitorPort
	if port == 0 {
		port = cfg.Port
	}

	srv := server.New(server.Config{Port: port}, server.Deps{
		Store:    database,
		Batcher:  processor,
		Analyzer: analyzer,
		Screener: mon,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		mon.Run(gctx)
		return nil
	})

	return g.Wait()
}
