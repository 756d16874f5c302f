package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"itemseek-backend/config"
	"itemseek-backend/internal/model"
)

// Models lists every table managed by AutoMigrate.
var Models = []any{
	&model.User{},
	&model.Item{},
	&model.StockTransaction{},
	&model.Location{},
	&model.Task{},
	&model.Room{},
	&model.LaundryItem{},
	&model.PushSubscription{},
	&model.SubscriptionTopic{},
}

// slowQuery is the duration above which gorm logs a statement as slow.
const slowQuery = 200 * time.Millisecond

// NewLogger routes gorm's statement log through log. Lookups that find no
// row are expected (rooms are looked up by id, then by number) and are not
// reported as errors.
func NewLogger(log *logrus.Logger, level logger.LogLevel) logger.Interface {
	return logger.New(log.WithField("component", "gorm"), logger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	logMode := logger.Warn
	if cfg.LogSQL {
		logMode = logger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		dialector = postgres.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewLogger(log, logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// One writer at a time; the store already serializes per record.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	log.Info("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("Database initialization complete.")
	return db, nil
}

// Migrate creates or updates every table in Models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}
