package database

import (
	"fmt"

	"github.com/tech-arch1tect/accounts/config"
	"github.com/tech-arch1tect/accounts/services/logging"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ModelsOption struct {
	models []any
}

func WithModels(models ...any) *ModelsOption {
	return &ModelsOption{models: models}
}

// Dialector resolves the configured driver name to a gorm dialector.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	case "postgres", "postgresql":
		return postgres.Open(cfg.DSN), nil
	case "mysql":
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: sqlite, postgres, mysql)", cfg.Driver)
	}
}

func ProvideDatabase(cfg config.Config, modelsOpt *ModelsOption, log *logging.Service) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	log.Info("connecting to database", zap.String("driver", cfg.Database.Driver))

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		// sqlite allows a single writer; serialising the pool keeps
		// concurrent transactions from failing with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.Database.AutoMigrate && modelsOpt != nil && len(modelsOpt.models) > 0 {
		if err := db.AutoMigrate(modelsOpt.models...); err != nil {
			log.Error("failed to auto-migrate models", zap.Error(err))
			return nil, fmt.Errorf("failed to auto-migrate models: %w", err)
		}
		log.Info("database schema migrated", zap.Int("models", len(modelsOpt.models)))
	}

	return db, nil
}
