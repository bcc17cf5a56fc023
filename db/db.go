package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"edurate/models"
)

type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to Postgres and sizes the pool. Queries slower than 200ms are
// logged at warn level through log.
func Open(cfg Config, log *logrus.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.URL), GormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return gdb, nil
}

// GormConfig is shared by every dialect so driver errors are translated the
// same way. A nil logger silences gorm.
func GormConfig(log *logrus.Logger) *gorm.Config {
	cfg := &gorm.Config{TranslateError: true, Logger: logger.Discard}
	if log != nil {
		cfg.Logger = logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}
	return cfg
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&models.Course{}, &models.Review{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
