package repository

import (
	"context"

	"gorm.io/gorm"
)

type bookRepository struct {
	database *gorm.DB
}

func (b *bookRepository) Create(ctx context.Context, book *Book) error {
	return b.database.WithContext(ctx).Create(book).Error
}

func (b *bookRepository) FindByID(ctx context.Context, id int64) (*Book, error) {
	var book Book
	if err := b.database.WithContext(ctx).Model(&Book{}).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

func (b *bookRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := b.database.WithContext(ctx).Model(&Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (b *bookRepository) Update(ctx context.Context, book *Book) (int64, error) {
	res := b.database.WithContext(ctx).
		Model(&Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]any{
			"user_id":    book.UserID,
			"title":      book.Title,
			"author":     book.Author,
			"page_count": book.PageCount,
		})
	return res.RowsAffected, res.Error
}

func (b *bookRepository) DeleteByID(ctx context.Context, id int64) error {
	return b.database.WithContext(ctx).Where("id = ?", id).Delete(&Book{}).Error
}

// BookStore is the storage capability over the books relation.
type BookStore interface {
	Create(ctx context.Context, book *Book) error
	FindByID(ctx context.Context, id int64) (*Book, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Update replaces every column of the row with book.ID and reports the rows it matched.
	Update(ctx context.Context, book *Book) (int64, error)
	DeleteByID(ctx context.Context, id int64) error
}

func NewBookRepo(db *gorm.DB) BookStore {
	return &bookRepository{database: db}
}
