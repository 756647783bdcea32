package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return db, mock
}

func TestHealthCheck_NoConnections(t *testing.T) {
	db := &DB{}
	if err := db.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected healthy, got %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestHealthCheck_PingsPostgresAndRedis(t *testing.T) {
	pg, mock := newMockPostgres(t)
	mr := miniredis.RunT(t)
	db := &DB{PostgreSQL: pg, Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	mock.ExpectPing()
	if err := db.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection reset"))
	if err := db.HealthCheck(context.Background()); err == nil {
		t.Fatalf("expected postgres ping failure")
	}

	mock.ExpectClose()
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHealthCheck_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	db := &DB{Redis: client}
	if err := db.HealthCheck(context.Background()); err == nil {
		t.Fatalf("expected redis ping failure")
	}
}
