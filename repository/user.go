package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	database *gorm.DB
}

func (u *userRepository) Create(ctx context.Context, user *User) error {
	return u.database.WithContext(ctx).Create(user).Error
}

func (u *userRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := u.database.WithContext(ctx).Model(&User{}).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *userRepository) FindByIDForUpdate(ctx context.Context, id int64) (*User, error) {
	var user User
	err := u.database.WithContext(ctx).
		Model(&User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (u *userRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := u.database.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (u *userRepository) Update(ctx context.Context, user *User) (int64, error) {
	res := u.database.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"full_name": user.FullName,
			"title":     user.Title,
			"age":       user.Age,
		})
	return res.RowsAffected, res.Error
}

func (u *userRepository) DeleteByID(ctx context.Context, id int64) error {
	return u.database.WithContext(ctx).Where("id = ?", id).Delete(&User{}).Error
}

func (u *userRepository) InTx(ctx context.Context, fn func(tx UserStore) error) error {
	return u.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{database: tx})
	})
}

// UserStore is the storage capability over the users relation.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByIDForUpdate takes a row write lock that is held until the
	// surrounding InTx returns. Outside InTx the lock ends with the statement.
	FindByIDForUpdate(ctx context.Context, id int64) (*User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// Update replaces every column of the row with user.ID and reports the rows it matched.
	Update(ctx context.Context, user *User) (int64, error)
	DeleteByID(ctx context.Context, id int64) error
	// InTx runs fn against a store bound to one transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(tx UserStore) error) error
}

func NewUserRepo(db *gorm.DB) UserStore {
	return &userRepository{database: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
