package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/server"
	"github.com/tech-arch1tect/accounts/services/admin"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const stopTimeout = 30 * time.Second

type App struct {
	fx     *fx.App
	config *config.Config
	logger *logging.Service
	db     *gorm.DB
	admin  *admin.Bootstrapper
	server *server.Server
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

// Run starts the app and blocks until SIGINT, SIGTERM or an fx shutdown.
func (a *App) Run() {
	if err := a.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.logger.Info("received shutdown signal, stopping gracefully", zap.String("signal", sig.String()))
	case sig := <-a.fx.Wait():
		a.logger.Info("application requested shutdown", zap.Int("exit_code", sig.ExitCode))
	}

	a.Stop()
}

func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := a.fx.Stop(ctx); err != nil {
		a.logger.Error("failed to stop application gracefully", zap.Error(err))
	}
}

// Server returns the echo instance, or nil when the app was built without HTTP.
func (a *App) Server() *echo.Echo {
	if a.server == nil {
		return nil
	}
	return a.server.Echo()
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Logger() *logging.Service {
	return a.logger
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Admin() *admin.Bootstrapper {
	return a.admin
}
