package service

import (
	"context"
	"errors"

	"bookshelf/apperr"
	"bookshelf/idgen"
	"bookshelf/log"
	"bookshelf/repository"
)

type UserService struct {
	users repository.UserStore
	ids   idgen.Allocator
}

func NewUserService(users repository.UserStore, ids idgen.Allocator) *UserService {
	return &UserService{users: users, ids: ids}
}

func (s *UserService) CreateUser(ctx context.Context, user *repository.User) (*repository.User, error) {
	if user == nil {
		return nil, apperr.Validation("Create user failed : user is null")
	}
	if user.Age < 0 {
		return nil, apperr.Validationf("Create user failed : age %d is negative", user.Age)
	}

	id, err := s.ids.Next(ctx, idgen.SpaceUser)
	if err != nil {
		return nil, persistenceErr(ctx, err, "Create user failed : cannot allocate id")
	}
	created := *user
	created.ID = id
	if err := s.users.Create(ctx, &created); err != nil {
		return nil, persistenceErr(ctx, err, "Create user failed.")
	}

	log.GetLogger(ctx).Infof("Create user successfully %s", created)
	return &created, nil
}

// UpdateUser replaces the stored user under a row write lock held from the
// existence check until the write commits.
func (s *UserService) UpdateUser(ctx context.Context, user *repository.User) (*repository.User, error) {
	if user == nil {
		return nil, apperr.Validation("Update user failed : user is null")
	}
	if user.ID <= 0 {
		return nil, apperr.Validation("Update user failed : user id is null")
	}
	if user.Age < 0 {
		return nil, apperr.Validationf("Update user failed : age %d is negative", user.Age)
	}

	updated := *user
	err := s.users.InTx(ctx, func(tx repository.UserStore) error {
		if _, err := tx.FindByIDForUpdate(ctx, updated.ID); err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				return apperr.NotFoundf("Update user failed : user with id = %d not exist", updated.ID)
			}
			return persistenceErr(ctx, err, "Update user with id = %d failed", updated.ID)
		}
		rows, err := tx.Update(ctx, &updated)
		if err != nil {
			return persistenceErr(ctx, err, "Update user with id = %d failed", updated.ID)
		}
		return checkRowsAffected(ctx, rows, "user", updated.ID)
	})
	if err != nil {
		if apperr.KindOf(err) == 0 {
			return nil, persistenceErr(ctx, err, "Update user with id = %d failed", updated.ID)
		}
		return nil, err
	}

	log.GetLogger(ctx).Infof("Update user successfully %s", updated)
	return &updated, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*repository.User, error) {
	if id <= 0 {
		return nil, apperr.Validation("Get user failed : id is null")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("Get user failed : user with id = %d not exist", id)
		}
		return nil, persistenceErr(ctx, err, "Get user with id = %d failed", id)
	}

	log.GetLogger(ctx).Infof("Get user successfully %s", user)
	return user, nil
}

// DeleteUserByID removes the user row only. Books and bindings are left to the caller.
func (s *UserService) DeleteUserByID(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.Validation("Delete user failed : id is null")
	}
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return persistenceErr(ctx, err, "Delete user with id = %d failed", id)
	}

	log.GetLogger(ctx).Infof("Delete user with id = %d successfully", id)
	return nil
}

// UserExists lets the book service check an owner without touching the user store.
func (s *UserService) UserExists(ctx context.Context, id int64) (bool, error) {
	exists, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return false, persistenceErr(ctx, err, "Check user with id = %d failed", id)
	}
	return exists, nil
}
