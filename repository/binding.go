package repository

import (
	"context"

	"gorm.io/gorm"
)

type bindingRepository struct {
	database *gorm.DB
}

func (b *bindingRepository) Create(ctx context.Context, binding *Binding) error {
	return b.database.WithContext(ctx).Create(binding).Error
}

func (b *bindingRepository) FindByUserID(ctx context.Context, userID int64) ([]Binding, error) {
	var bindings []Binding
	err := b.database.WithContext(ctx).
		Model(&Binding{}).
		Where("user_id = ?", userID).
		Order("id").
		Find(&bindings).Error
	return bindings, err
}

func (b *bindingRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	res := b.database.WithContext(ctx).Where("user_id = ?", userID).Delete(&Binding{})
	return res.RowsAffected, res.Error
}

func (b *bindingRepository) DeleteByBookID(ctx context.Context, bookID int64) (int64, error) {
	res := b.database.WithContext(ctx).Where("book_id = ?", bookID).Delete(&Binding{})
	return res.RowsAffected, res.Error
}

// BindingStore is the storage capability over the user_books relation.
type BindingStore interface {
	Create(ctx context.Context, binding *Binding) error
	// FindByUserID returns the user's bindings in id order, which is creation order.
	FindByUserID(ctx context.Context, userID int64) ([]Binding, error)
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	DeleteByBookID(ctx context.Context, bookID int64) (int64, error)
}

func NewBindingRepo(db *gorm.DB) BindingStore {
	return &bindingRepository{database: db}
}
