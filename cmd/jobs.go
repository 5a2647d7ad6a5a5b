package cmd

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/substream-labs/ms-go-recurring-payments/app/ledger"
	"github.com/substream-labs/ms-go-recurring-payments/app/repository"
	"github.com/substream-labs/ms-go-recurring-payments/app/service"
	"github.com/substream-labs/ms-go-recurring-payments/config"

	_ "github.com/go-sql-driver/mysql"
)

var chargeWorker bool

var chargeCmd = &cobra.Command{
	Use:   "charge",
	Short: "Charge subscriptions whose next payment is due",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"charge",
			chargeWorker,
			func(cfg *config.Config) time.Duration { return cfg.Jobs.ChargeInterval },
			func(s *service.SubscriptionService, ctx context.Context) error {
				return s.RunDueChargesBatch(ctx)
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(chargeCmd)

	chargeCmd.Flags().BoolVar(&chargeWorker, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	worker bool,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.SubscriptionService, ctx context.Context) error,
) {
	cfg, subscriptionService, cleanup := mustCreateSubscriptionService()
	defer cleanup()

	if worker {
		runWorker(name, intervalResolver(cfg), subscriptionService, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(subscriptionService, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	subscriptionService *service.SubscriptionService,
	fn func(s *service.SubscriptionService, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(subscriptionService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(subscriptionService, ctx) })
		}
	}
}

func mustCreateSubscriptionService() (*config.Config, *service.SubscriptionService, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewBillingPlanRepository(db)
	planSubRepo := repository.NewPlanSubscriptionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	ledgerClient := ledger.NewClient(cfg.Ledger)
	subscriptionService := service.NewSubscriptionService(
		subscriptionRepo,
		planSubRepo,
		planRepo,
		activityRepo,
		ledgerClient,
		cfg.Ledger,
	)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, subscriptionService, cleanup
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
