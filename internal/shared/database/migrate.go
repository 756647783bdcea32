package database

import (
	"railbook/internal/session"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&session.Entry{},
	)
}
