package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bookshelf/internal/models"
)

// Init opens the database and migrates the schema. TranslateError turns the
// unique-index violation on users.email into gorm.ErrDuplicatedKey, so the
// duplicate check is the constraint itself rather than a read-then-write.
func Init(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Book{}); err != nil {
		return nil, err
	}
	return db, nil
}
