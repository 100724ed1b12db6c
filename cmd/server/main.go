package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/officeflow/conveyance/internal/application/service"
	"github.com/officeflow/conveyance/internal/config"
	"github.com/officeflow/conveyance/internal/domain/workflow"
	"github.com/officeflow/conveyance/internal/infrastructure/persistence/repository"
	"github.com/officeflow/conveyance/internal/infrastructure/persistence/sqlite"
	httpiface "github.com/officeflow/conveyance/internal/interfaces/http"
	"github.com/officeflow/conveyance/pkg/database"
	"github.com/officeflow/conveyance/pkg/utils"
)

func main() {
	// Load .env before viper reads the environment
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting conveyance bill workflow server",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(db.DB, logger)

	historyRepo := repository.NewHistoryRepository(db.DB, logger)
	billRepo := repository.NewBillRepository(db.DB, historyRepo, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)

	serviceLogger := &zapLoggerAdapter{logger: logger}
	rules := workflow.ApprovalRules()

	transitionService := service.NewTransitionService(billRepo, historyRepo, txManager, rules, serviceLogger)
	submissionService := service.NewSubmissionService(billRepo, historyRepo, userRepo, txManager, serviceLogger)
	userService := service.NewUserService(userRepo, serviceLogger)
	reportService := service.NewReportService(billRepo, serviceLogger)

	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		JWTSecret:    cfg.Auth.JWTSecret,
		TokenTTL:     cfg.Auth.TokenTTL,
	}, transitionService, submissionService, userService, reportService, serviceLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// zapLoggerAdapter adapts zap.Logger to the narrow Logger interfaces used by
// the service and http packages
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Sugar().Infow(msg, keysAndValues...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Sugar().Errorw(msg, keysAndValues...)
}
