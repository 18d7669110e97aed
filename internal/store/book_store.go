package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bookshelf/internal/models"
)

type BookStore interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Book, error)
	FindByID(ctx context.Context, id uint) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
}

type gormBookStore struct {
	db *gorm.DB
}

func NewBookStore(db *gorm.DB) BookStore {
	return &gormBookStore{db: db}
}

func (s *gormBookStore) ListByUser(ctx context.Context, userID uint) ([]models.Book, error) {
	books := []models.Book{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (s *gormBookStore) FindByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := s.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (s *gormBookStore) Create(ctx context.Context, book *models.Book) error {
	return s.db.WithContext(ctx).Create(book).Error
}

func (s *gormBookStore) Update(ctx context.Context, book *models.Book) error {
	return s.db.WithContext(ctx).Model(book).
		Select("title", "author", "publish_year").
		Updates(map[string]any{
			"title":        book.Title,
			"author":       book.Author,
			"publish_year": book.PublishYear,
		}).Error
}

func (s *gormBookStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}
