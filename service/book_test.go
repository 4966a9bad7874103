package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/apperr"
	"bookshelf/idgen"
	"bookshelf/repository"
	"bookshelf/repository/testutil"
)

func TestCreateBook_WritesExactlyOneBinding(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)

		book := givenBook(t, f, user.ID, "A")
		assert.Equal(t, idgen.DefaultStart, book.ID)
		assert.Equal(t, user.ID, book.UserID)

		bindings, err := f.stores.Bindings.FindByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, bindings, 1)
		assert.Equal(t, book.ID, bindings[0].BookID)
		assert.Equal(t, user.ID, bindings[0].UserID)
	})
}

func TestCreateBook_UnknownUser(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()

		_, err := f.books.CreateBook(ctx, &repository.Book{UserID: 777, Title: "A"})
		assert.True(t, apperr.IsNotFound(err))
		assert.Equal(t, "Create book failed : bind user with id = 777 not exist", err.Error())

		// the id was allocated before the check; no row may carry it
		exists, err := f.stores.Books.ExistsByID(ctx, idgen.DefaultStart)
		require.NoError(t, err)
		assert.False(t, exists)
		bindings, err := f.stores.Bindings.FindByUserID(ctx, 777)
		require.NoError(t, err)
		assert.Empty(t, bindings)
	})
}

func TestCreateBook_Validation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()

		_, err := f.books.CreateBook(ctx, nil)
		assert.True(t, apperr.IsValidation(err))

		_, err = f.books.CreateBook(ctx, &repository.Book{Title: "no owner"})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestCreateBook_BindingFailureKeepsBookRow(t *testing.T) {
	for _, backend := range testutil.Backends {
		t.Run(backend.Name, func(t *testing.T) {
			ctx := context.Background()
			stores := backend.New(t)
			stores.Bindings = failingBindings{BindingStore: stores.Bindings}
			f := wire(stores)
			user := givenUser(t, f)

			_, err := f.books.CreateBook(ctx, &repository.Book{UserID: user.ID, Title: "A"})
			assert.True(t, apperr.IsPersistence(err))
			assert.Equal(t, "Create user-book binding failed.", err.Error())

			exists, err := stores.Books.ExistsByID(ctx, idgen.DefaultStart)
			require.NoError(t, err)
			assert.True(t, exists, "book row is not rolled back")
		})
	}
}

func TestCreateBook_UserCheckFailure(t *testing.T) {
	stores := testutil.GormStores(t)
	stores.Users = failingUsers{UserStore: stores.Users}
	f := wire(stores)

	_, err := f.books.CreateBook(context.Background(), &repository.Book{UserID: 1})
	assert.True(t, apperr.IsPersistence(err))
}

func TestUpdateBook(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)
		book := givenBook(t, f, user.ID, "A")

		updated, err := f.books.UpdateBook(ctx, &repository.Book{ID: book.ID, UserID: user.ID, Title: "B", Author: "Y", PageCount: 7})
		require.NoError(t, err)
		assert.Equal(t, "B", updated.Title)

		stored, err := f.books.GetBookByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Y", stored.Author)
		assert.Equal(t, int64(7), stored.PageCount)
	})
}

func TestUpdateBook_DoesNotCheckOwner(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)
		book := givenBook(t, f, user.ID, "A")

		_, err := f.books.UpdateBook(ctx, &repository.Book{ID: book.ID, UserID: 999_999, Title: "A"})
		require.NoError(t, err)

		stored, err := f.books.GetBookByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(999_999), stored.UserID)
	})
}

func TestUpdateBook_Failures(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()

		_, err := f.books.UpdateBook(ctx, nil)
		assert.True(t, apperr.IsValidation(err))

		_, err = f.books.UpdateBook(ctx, &repository.Book{Title: "no id"})
		assert.True(t, apperr.IsValidation(err))

		_, err = f.books.UpdateBook(ctx, &repository.Book{ID: 5, Title: "ghost"})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestGetBookByID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)
		book := givenBook(t, f, user.ID, "A")

		got, err := f.books.GetBookByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, *book, *got)

		_, err = f.books.GetBookByID(ctx, 0)
		assert.True(t, apperr.IsValidation(err))

		_, err = f.books.GetBookByID(ctx, book.ID+10)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDeleteBookByID_IsIdempotentAndDropsBinding(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)
		book := givenBook(t, f, user.ID, "A")

		require.NoError(t, f.books.DeleteBookByID(ctx, book.ID))
		require.NoError(t, f.books.DeleteBookByID(ctx, book.ID))
		assert.True(t, apperr.IsValidation(f.books.DeleteBookByID(ctx, 0)))

		_, err := f.books.GetBookByID(ctx, book.ID)
		assert.True(t, apperr.IsNotFound(err))

		books, err := f.books.GetBooksByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func TestGetBooksByUserID_CreationOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)
		other := givenUser(t, f)
		b1 := givenBook(t, f, user.ID, "first")
		givenBook(t, f, other.ID, "someone else's")
		b2 := givenBook(t, f, user.ID, "second")

		books, err := f.books.GetBooksByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, b1.ID, books[0].ID)
		assert.Equal(t, b2.ID, books[1].ID)

		books, err = f.books.GetBooksByUserID(ctx, 123)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)

		_, err = f.books.GetBooksByUserID(ctx, 0)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestGetBooksByUserID_DanglingBindingFailsTheCall(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)
		givenBook(t, f, user.ID, "A")
		require.NoError(t, f.stores.Bindings.Create(ctx, &repository.Binding{ID: 1, UserID: user.ID, BookID: 55}))

		_, err := f.books.GetBooksByUserID(ctx, user.ID)
		assert.True(t, apperr.IsPersistence(err))
		assert.Contains(t, err.Error(), "bound book with id = 55 not exist")
	})
}

func TestDeleteBindingsByUserID_KeepsBooks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)
		book := givenBook(t, f, user.ID, "A")

		require.NoError(t, f.books.DeleteBindingsByUserID(ctx, user.ID))
		assert.True(t, apperr.IsValidation(f.books.DeleteBindingsByUserID(ctx, 0)))

		books, err := f.books.GetBooksByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, books)

		_, err = f.books.GetBookByID(ctx, book.ID)
		assert.NoError(t, err)
	})
}
