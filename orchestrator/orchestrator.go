// Package orchestrator assembles the "user with books" aggregate from the user
// and book services. It never touches a store directly.
//
// None of the aggregate writes is atomic. When a step fails the steps before it
// stay persisted and the error of the failing step is returned as is.
package orchestrator

import (
	"context"

	"github.com/samber/lo"

	"bookshelf/apperr"
	"bookshelf/domain"
	"bookshelf/log"
	"bookshelf/repository"
)

type UserService interface {
	CreateUser(ctx context.Context, user *repository.User) (*repository.User, error)
	UpdateUser(ctx context.Context, user *repository.User) (*repository.User, error)
	GetUserByID(ctx context.Context, id int64) (*repository.User, error)
	DeleteUserByID(ctx context.Context, id int64) error
}

type BookService interface {
	CreateBook(ctx context.Context, book *repository.Book) (*repository.Book, error)
	UpdateBook(ctx context.Context, book *repository.Book) (*repository.Book, error)
	DeleteBookByID(ctx context.Context, id int64) error
	GetBooksByUserID(ctx context.Context, userID int64) ([]*repository.Book, error)
	DeleteBindingsByUserID(ctx context.Context, userID int64) error
}

type Orchestrator struct {
	users   UserService
	books   BookService
	mapUser domain.UserMapper
	mapBook domain.BookMapper
}

func (o *Orchestrator) CreateUserWithBooks(ctx context.Context, req *domain.UserBookRequest) (*domain.UserBookResponse, error) {
	logger := log.GetLogger(ctx)
	if req == nil {
		return nil, apperr.Validation("Create user with books failed : request is null")
	}
	logger.Infof("Got user book create request: %s", req)

	user := o.mapUser(req.UserRequest)
	logger.Infof("Mapped user request: %v", user)
	created, err := o.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.Infof("Created user: %s", created)

	requests := lo.Filter(req.BookRequests, func(r *domain.BookRequest, _ int) bool {
		return r != nil
	})
	bookIDs := make([]int64, 0, len(requests))
	for _, r := range requests {
		book := o.mapBook(r)
		book.UserID = created.ID
		logger.Infof("Mapped book: %s", book)
		createdBook, err := o.books.CreateBook(ctx, book)
		if err != nil {
			logger.WithError(err).Errorf("Create user with books aborted after %d of %d books, user %d kept",
				len(bookIDs), len(requests), created.ID)
			return nil, err
		}
		bookIDs = append(bookIDs, createdBook.ID)
	}
	logger.Infof("Collected book ids: %v", bookIDs)

	return &domain.UserBookResponse{UserID: created.ID, BooksIDList: bookIDs}, nil
}

// UpdateUserWithBooks updates the user and then every listed book. Unlike
// create, a null book entry is not skipped; it fails the update.
func (o *Orchestrator) UpdateUserWithBooks(ctx context.Context, req *domain.UserBookRequest) (*domain.UserBookResponse, error) {
	logger := log.GetLogger(ctx)
	if req == nil {
		return nil, apperr.Validation("Update user with books failed : request is null")
	}
	logger.Infof("Got user book update request: %s", req)

	updated, err := o.users.UpdateUser(ctx, o.mapUser(req.UserRequest))
	if err != nil {
		return nil, err
	}
	logger.Infof("User successfully updated: %s", updated)

	bookIDs := make([]int64, 0, len(req.BookRequests))
	for _, r := range req.BookRequests {
		book := o.mapBook(r)
		if book != nil {
			book.UserID = updated.ID
		}
		updatedBook, err := o.books.UpdateBook(ctx, book)
		if err != nil {
			return nil, err
		}
		logger.Infof("Book successfully updated: %s", updatedBook)
		bookIDs = append(bookIDs, updatedBook.ID)
	}

	return &domain.UserBookResponse{UserID: updated.ID, BooksIDList: bookIDs}, nil
}

func (o *Orchestrator) GetUserWithBooks(ctx context.Context, userID int64) (*domain.UserBookResponse, error) {
	logger := log.GetLogger(ctx)

	user, err := o.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	logger.Infof("Get user: %s", user)

	books, err := o.books.GetBooksByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	logger.Infof("User has : %d books", len(books))
	user.Books = books

	bookIDs := lo.Map(user.Books, func(b *repository.Book, _ int) int64 {
		return b.ID
	})
	logger.Infof("Collected book ids: %v", bookIDs)

	return &domain.UserBookResponse{UserID: user.ID, BooksIDList: bookIDs}, nil
}

// DeleteUserWithBooks deletes the user, each book bound to it, and finally all
// of its bindings, so no binding outlives the aggregate.
func (o *Orchestrator) DeleteUserWithBooks(ctx context.Context, userID int64) error {
	logger := log.GetLogger(ctx)

	if err := o.users.DeleteUserByID(ctx, userID); err != nil {
		return err
	}
	logger.Infof("Delete user: %d", userID)

	books, err := o.books.GetBooksByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range lo.Map(books, func(b *repository.Book, _ int) int64 { return b.ID }) {
		if err := o.books.DeleteBookByID(ctx, id); err != nil {
			return err
		}
	}
	logger.Infof("Delete : %d books", len(books))

	return o.books.DeleteBindingsByUserID(ctx, userID)
}

func NewOrchestrator(users UserService, books BookService) *Orchestrator {
	return &Orchestrator{
		users:   users,
		books:   books,
		mapUser: domain.UserRequestToUser,
		mapBook: domain.BookRequestToBook,
	}
}
