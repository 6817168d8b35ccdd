package psql

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mockchat/mockchat/config"
	"mockchat/mockchat/sources/psql/models"
	"mockchat/mockchat/utils/logging"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the SQL backend selected by cfg.StoreBackend
// ("postgres" or "sqlite") and migrates the conversation tables.
func NewDatabase(ctx context.Context, cfg config.Config) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.StoreBackend {
	case "postgres":
		connStr := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		logging.AppLogger.Info("connecting to postgres",
			zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
		dialector = postgres.Open(connStr)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite dir: %w", err)
		}
		logging.AppLogger.Info("opening sqlite", zap.String("path", cfg.SQLitePath))
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("store backend %q is not a SQL backend", cfg.StoreBackend)
	}
	return Open(ctx, dialector)
}

// Open connects through dialector and runs the auto-migration.
func Open(ctx context.Context, dialector gorm.Dialector) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).
		AutoMigrate(
			&models.Conversation{},
			&models.ChatMessage{},
		)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}

	return &Database{DB: db}, nil
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
