package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"railbook/internal/shared/config"
	"railbook/pkg/cache"
	applogger "railbook/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB holds the backing connections the configuration asks for. Either field
// may be nil.
type DB struct {
	PostgreSQL *gorm.DB
	Redis      *redis.Client
}

// InitDB opens Postgres when sessions live there and Redis when sessions or
// rate limiting need it
func InitDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	db := &DB{}

	if cfg.UsesPostgres() {
		pg, err := initPostgreSQL(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		if err := Migrate(pg); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		db.PostgreSQL = pg
	}

	if cfg.UsesRedis() {
		rdb, err := cache.NewClient(ctx, cache.Config{
			Address:  cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		applogger.GetDefault().InfoWithContext(ctx, "Redis connected", map[string]interface{}{"addr": cfg.Redis.Addr})
		db.Redis = rdb
	}

	return db, nil
}

func initPostgreSQL(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var gormLogger logger.Interface
	if cfg.IsDevelopment() {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	applogger.GetDefault().InfoWithContext(ctx, "PostgreSQL connected", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Name,
	})
	return db, nil
}

// Close closes every open connection and joins their errors
func (db *DB) Close() error {
	var errs []error

	if db.PostgreSQL != nil {
		if sqlDB, err := db.PostgreSQL.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close PostgreSQL: %w", err))
			}
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	return errors.Join(errs...)
}

// HealthCheck pings every open connection
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.PostgreSQL != nil {
		sqlDB, err := db.PostgreSQL.DB()
		if err != nil {
			return fmt.Errorf("PostgreSQL health check failed: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("PostgreSQL ping failed: %w", err)
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis ping failed: %w", err)
		}
	}

	return nil
}
