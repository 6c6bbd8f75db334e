package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	internal "github.com/rbenavente/cargas-api/internal"
	"github.com/rbenavente/cargas-api/internal/auth"
	"github.com/rbenavente/cargas-api/internal/batch"
	batchSqlite "github.com/rbenavente/cargas-api/internal/batch/sqlite"
	"github.com/rbenavente/cargas-api/internal/employee"
	employeeSqlite "github.com/rbenavente/cargas-api/internal/employee/sqlite"
	"github.com/rbenavente/cargas-api/internal/mailer"
	"github.com/rbenavente/cargas-api/internal/notification"
	notificationSqlite "github.com/rbenavente/cargas-api/internal/notification/sqlite"
	"github.com/rbenavente/cargas-api/internal/registration"
	registrationSqlite "github.com/rbenavente/cargas-api/internal/registration/sqlite"
	"github.com/rbenavente/cargas-api/internal/transport/rest"
	"github.com/rbenavente/cargas-api/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that backs the registration form and the admin panel`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if sqlDB, err := deps.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				deps.Logger.Error("database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger

	confirmationMailer, insurerMailer := buildMailers(cfg, lg)

	employeeRepo := employeeSqlite.NewEmployeeRepository(deps.DB)
	registrationRepo := registrationSqlite.NewRegistrationRepository(deps.DB)
	notificationRepo := notificationSqlite.NewNotificationRepository(deps.DB)
	batchRepo := batchSqlite.NewBatchRepository(deps.DB)

	employeeService := employee.NewService(employeeRepo, lg)
	registrationService := registration.NewService(
		registrationRepo, confirmationMailer, cfg.Insurance.MaxChildAge, lg)
	notificationService := notification.NewService(notificationRepo, lg)
	batchService := batch.NewService(batchRepo, insurerMailer, cfg.Insurance.ExportsDir, lg)
	authService := auth.NewService(
		cfg.Insurance.AdminPasswordHash,
		cfg.Insurance.SessionSecret,
		cfg.Insurance.SessionDuration,
		lg)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		Employee:     employee.NewHandler(employeeService),
		Registration: registration.NewHandler(registrationService),
		Notification: notification.NewHandler(notificationService),
		Batch:        batch.NewHandler(batchService, cfg.Insurance.ExportsDir),
	}

	sqlDB, err := deps.DB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unwrap sql.DB: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, sqlDB, handlers, lg)
}

// buildMailers wires the confirmation and insurer transports. Without
// SMTP credentials both degrade to the simulated sender, which writes
// the message to disk and is treated as delivered.
func buildMailers(cfg *internal.Config, lg *slog.Logger) (*mailer.ConfirmationSender, *mailer.InsurerSender) {
	simulated := mailer.NewSimulatedMailer(cfg.Insurance.DataDir, lg)

	var confirmationTransport mailer.Mailer = simulated
	var insurerTransport mailer.Mailer = simulated
	if cfg.SMTP.Configured() {
		smtp := mailer.NewSMTPMailer(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, lg)
		confirmationTransport = mailer.NewFallbackMailer(smtp, simulated, lg)
		// the insurer leg gets no fallback: a simulated "delivery" here
		// would confirm batches that never reached the insurer
		insurerTransport = smtp
	} else {
		lg.Warn("SMTP not configured, all mail is simulated to disk")
	}

	return mailer.NewConfirmationSender(confirmationTransport, lg),
		mailer.NewInsurerSender(insurerTransport, cfg.Insurance.RecipientEmail, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: chi.NewRouter(),
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY
	// under the low concurrency this tool sees
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
