package cmd

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/substream-labs/ms-go-recurring-payments/app/controller"
	"github.com/substream-labs/ms-go-recurring-payments/app/entitlement"
	"github.com/substream-labs/ms-go-recurring-payments/app/ledger"
	"github.com/substream-labs/ms-go-recurring-payments/app/repository"
	"github.com/substream-labs/ms-go-recurring-payments/app/service"
	"github.com/substream-labs/ms-go-recurring-payments/app/types"
	"github.com/substream-labs/ms-go-recurring-payments/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server for the recurring payments service.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
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
	defer db.Close()

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewBillingPlanRepository(db)
	planSubRepo := repository.NewPlanSubscriptionRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	ledgerClient := ledger.NewClient(cfg.Ledger)
	resolver := entitlement.NewResolver(ledgerClient, cfg.Entitlements.EnterpriseAddresses)

	subscriptionService := service.NewSubscriptionService(subscriptionRepo, planSubRepo, planRepo, activityRepo, ledgerClient, cfg.Ledger)
	planService := service.NewPlanService(planRepo, planSubRepo, activityRepo)
	checkoutService := service.NewCheckoutService(ledgerClient, resolver, cfg.Ledger)

	subscriptionController := controller.NewSubscriptionController(subscriptionService)
	planController := controller.NewPlanController(planService)
	checkoutController := controller.NewCheckoutController(checkoutService, resolver)

	e := setupHTTPServer(subscriptionController, planController, checkoutController, cfg.App.APIKey)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(
	subscriptionController *controller.SubscriptionController,
	planController *controller.PlanController,
	checkoutController *controller.CheckoutController,
	apiKey string,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string {
			return fmt.Sprintf("rest-%s", uuid.New().String())
		},
	}))
	e.Use(requireAPIKey(apiKey))

	e.GET("/health", subscriptionController.Health)

	subscriptions := e.Group("/subscriptions")
	subscriptions.POST("", subscriptionController.CreateSubscription)
	subscriptions.PUT("", subscriptionController.UpdateSubscription)
	subscriptions.GET("", subscriptionController.ListSubscriptions)

	e.GET("/activity", planController.ListActivity)
	e.GET("/clients", planController.ListClients)

	plans := e.Group("/plans")
	plans.POST("", planController.CreatePlan)
	plans.GET("", planController.ListPlans)
	plans.POST("/:id/subscriptions", planController.AddSubscriber)

	e.POST("/checkout", checkoutController.Checkout)
	e.GET("/entitlements", checkoutController.GetEntitlements)

	return e
}

// requireAPIKey guards every route except /health. An empty configured key
// disables the check, which is the local development default.
func requireAPIKey(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if apiKey == "" || ctx.Path() == "/health" {
				return next(ctx)
			}
			provided := ctx.Request().Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "invalid api key"})
			}
			return next(ctx)
		}
	}
}
