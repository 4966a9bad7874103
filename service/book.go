package service

import (
	"context"
	"errors"

	"bookshelf/apperr"
	"bookshelf/idgen"
	"bookshelf/log"
	"bookshelf/repository"
)

// UserExistence answers whether a user row exists. *UserService implements it.
type UserExistence interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

type BookService struct {
	books    repository.BookStore
	bindings repository.BindingStore
	users    UserExistence
	ids      idgen.Allocator
}

func NewBookService(
	books repository.BookStore,
	bindings repository.BindingStore,
	users UserExistence,
	ids idgen.Allocator,
) *BookService {
	return &BookService{
		books:    books,
		bindings: bindings,
		users:    users,
		ids:      ids,
	}
}

// CreateBook writes the book row and then its binding row. The two writes are
// not atomic: when the binding write fails the book row stays persisted and
// the call still reports a persistence failure.
func (s *BookService) CreateBook(ctx context.Context, book *repository.Book) (*repository.Book, error) {
	if book == nil {
		return nil, apperr.Validation("Create book failed : book is null")
	}
	if book.UserID <= 0 {
		return nil, apperr.Validation("Create book failed : bind userId is null")
	}

	id, err := s.ids.Next(ctx, idgen.SpaceBook)
	if err != nil {
		return nil, persistenceErr(ctx, err, "Create book failed : cannot allocate id")
	}
	created := *book
	created.ID = id

	exists, err := s.users.UserExists(ctx, created.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFoundf("Create book failed : bind user with id = %d not exist", created.UserID)
	}

	if err := s.books.Create(ctx, &created); err != nil {
		return nil, persistenceErr(ctx, err, "Create book failed.")
	}
	logger := log.GetLogger(ctx)
	logger.Infof("Create book successfully %s", created)

	bindingID, err := s.ids.Next(ctx, idgen.SpaceBinding)
	if err != nil {
		return nil, persistenceErr(ctx, err, "Create user-book binding failed.")
	}
	binding := repository.Binding{ID: bindingID, UserID: created.UserID, BookID: created.ID}
	if err := s.bindings.Create(ctx, &binding); err != nil {
		logger.Warnf("Book %d persisted without a user-book binding", created.ID)
		return nil, persistenceErr(ctx, err, "Create user-book binding failed.")
	}

	logger.Infof("Create user-book binding successfully %s", binding)
	return &created, nil
}

// UpdateBook replaces the stored book. The owner is not re-checked.
func (s *BookService) UpdateBook(ctx context.Context, book *repository.Book) (*repository.Book, error) {
	if book == nil {
		return nil, apperr.Validation("Update book failed : book is null")
	}
	if book.ID <= 0 {
		return nil, apperr.Validation("Update book failed : book id is null")
	}

	exists, err := s.books.ExistsByID(ctx, book.ID)
	if err != nil {
		return nil, persistenceErr(ctx, err, "Update book with id = %d failed", book.ID)
	}
	if !exists {
		return nil, apperr.NotFoundf("Update book failed : book with id = %d not exist", book.ID)
	}

	updated := *book
	rows, err := s.books.Update(ctx, &updated)
	if err != nil {
		return nil, persistenceErr(ctx, err, "Update book with id = %d failed", updated.ID)
	}
	if err := checkRowsAffected(ctx, rows, "book", updated.ID); err != nil {
		return nil, err
	}

	log.GetLogger(ctx).Infof("Update book successfully %s", updated)
	return &updated, nil
}

func (s *BookService) GetBookByID(ctx context.Context, id int64) (*repository.Book, error) {
	if id <= 0 {
		return nil, apperr.Validation("Get book failed : id is null")
	}
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("Get book failed : book with id = %d not exist", id)
		}
		return nil, persistenceErr(ctx, err, "Get book with id = %d failed", id)
	}

	log.GetLogger(ctx).Infof("Get book successfully %s", book)
	return book, nil
}

// DeleteBookByID removes the book and any binding pointing at it. Deleting a
// missing book is not an error.
func (s *BookService) DeleteBookByID(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.Validation("Delete book failed : id is null")
	}
	if err := s.books.DeleteByID(ctx, id); err != nil {
		return persistenceErr(ctx, err, "Delete book with id = %d failed", id)
	}
	if _, err := s.bindings.DeleteByBookID(ctx, id); err != nil {
		return persistenceErr(ctx, err, "Delete user-book binding for book id = %d failed", id)
	}

	log.GetLogger(ctx).Infof("Delete book successfully with id %d", id)
	return nil
}

// GetBooksByUserID resolves the user's bindings in creation order. A binding
// whose book row is gone fails the whole call.
func (s *BookService) GetBooksByUserID(ctx context.Context, userID int64) ([]*repository.Book, error) {
	if userID <= 0 {
		return nil, apperr.Validation("Get book by userId failed : userId is null")
	}
	bindings, err := s.bindings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, persistenceErr(ctx, err, "Get book by userId = %d failed", userID)
	}

	books := make([]*repository.Book, 0, len(bindings))
	for _, binding := range bindings {
		book, err := s.books.FindByID(ctx, binding.BookID)
		if err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				return nil, persistenceErr(ctx, err,
					"Get book by userId = %d failed : bound book with id = %d not exist", userID, binding.BookID)
			}
			return nil, persistenceErr(ctx, err, "Get book by userId = %d failed", userID)
		}
		books = append(books, book)
	}

	log.GetLogger(ctx).Infof("Get book by userId = %d successfully", userID)
	return books, nil
}

// DeleteBindingsByUserID drops every binding of the user. Book rows are kept.
func (s *BookService) DeleteBindingsByUserID(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return apperr.Validation("Delete user book by userId failed : userId is null")
	}
	n, err := s.bindings.DeleteByUserID(ctx, userID)
	if err != nil {
		return persistenceErr(ctx, err, "Delete user book by userId = %d failed", userID)
	}

	log.GetLogger(ctx).Infof("Delete user book by userId successfully. UserId = %d, removed = %d", userID, n)
	return nil
}
