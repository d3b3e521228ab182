package main

import (
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/muhammadolammi/resumind/internal/config"
	"github.com/muhammadolammi/resumind/internal/database"
	"github.com/muhammadolammi/resumind/internal/lock"
	"github.com/muhammadolammi/resumind/internal/logger"
	"github.com/muhammadolammi/resumind/internal/service"
	"github.com/muhammadolammi/resumind/internal/storage"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the command consumer pool and the ops server",
	Long:  "Consume commands from the resumind.commands queue with a pool of workers, publish updates on the resume_updates exchange and serve /health and /metrics.",
	RunE:  runWorker,
}

var (
	workerConfigDir string
	workerCount     int
)

func init() {
	workerCmd.Flags().StringVar(&workerConfigDir, "config-dir", "", "Directory holding an optional config.yaml")
	workerCmd.Flags().IntVarP(&workerCount, "workers", "w", 0, "Number of consumers (overrides WORKERS)")

	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	var paths []string
	if workerConfigDir != "" {
		paths = append(paths, workerConfigDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return err
	}
	if workerCount > 0 {
		cfg.Workers = workerCount
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("error opening db: %w", err)
	}
	defer db.Close()
	store := database.NewStore(db)

	files, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	opts := []service.Option{}
	if cfg.Redis.Address != "" {
		client := lock.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()
		opts = append(opts, service.WithLocker(lock.NewRedisLocker(client)))
		log.Info("redis recompute lock enabled", map[string]any{"address": cfg.Redis.Address})
	}
	if cfg.GoogleAPIKey != "" {
		summarizer, err := newGeminiSummarizer(ctx, cfg.GoogleAPIKey)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithSummarizer(summarizer))
		log.Info("candidate summaries enabled", nil)
	}

	svc := service.New(store, files, log, opts...)
	workerConfig := &WorkerConfig{
		Service:     svc,
		Files:       files,
		Log:         log,
		RABBITMQUrl: cfg.RabbitMQURL,
		Queue:       commandQueue,
		Exchange:    updateExchange,
	}

	log.Info("starting consumer pool", map[string]any{"workers": cfg.Workers, "queue": commandQueue})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return workerConfig.StartConsumerWorkerPool(ctx, cfg.Workers)
	})
	g.Go(func() error {
		return runOpsServer(ctx, newOpsServer(store, log), cfg.OpsAddr, log)
	})
	return g.Wait()
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Driver {
	case "local":
		return storage.NewLocal(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return storage.NewR2(ctx, storage.R2Config{
			AccountID:     cfg.R2.AccountID,
			Bucket:        cfg.R2.Bucket,
			AccessKey:     cfg.R2.AccessKey,
			SecretKey:     cfg.R2.SecretKey,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	}
}
