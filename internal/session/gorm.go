package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one session key persisted in Postgres
type Entry struct {
	SessionID string    `gorm:"primaryKey;type:varchar(64)" json:"session_id"`
	EntryKey  string    `gorm:"primaryKey;type:varchar(64)" json:"entry_key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (Entry) TableName() string {
	return "session_entries"
}

// noExpiry is stored for sessions of a store without a TTL
var noExpiry = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// GormStore keeps session keys in the session_entries table. Every write
// moves expires_at of all rows of the session, so a session expires as a
// whole. A non-positive ttl never expires.
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewGormStore(db *gorm.DB, ttl time.Duration) *GormStore {
	return &GormStore{db: db, ttl: ttl, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, sessionID, key string, dest interface{}) error {
	if err := checkID(sessionID); err != nil {
		return err
	}

	var entry Entry
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND entry_key = ? AND expires_at > ?", sessionID, key, s.now()).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(entry.Value), dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Set(ctx context.Context, sessionID, key string, value interface{}) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	expiresAt := s.expiresAt()
	entry := Entry{
		SessionID: sessionID,
		EntryKey:  key,
		Value:     string(raw),
		ExpiresAt: expiresAt,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
		}).Create(&entry).Error
		if err != nil {
			return err
		}
		return tx.Model(&Entry{}).Where("session_id = ?", sessionID).Update("expires_at", expiresAt).Error
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) expiresAt() time.Time {
	if s.ttl <= 0 {
		return noExpiry
	}
	return s.now().Add(s.ttl)
}

func (s *GormStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND entry_key = ?", sessionID, key).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Clear(ctx context.Context, sessionID string) error {
	if err := checkID(sessionID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// PurgeExpired deletes rows past their expiry and returns how many went
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&Entry{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
