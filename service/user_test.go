package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/apperr"
	"bookshelf/idgen"
	"bookshelf/repository"
	"bookshelf/repository/testutil"
	"bookshelf/service"
)

func TestCreateUser_IDsStrictlyIncrease(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()

		previous := int64(0)
		for i := 0; i < 5; i++ {
			user, err := f.users.CreateUser(ctx, &repository.User{FullName: "Ada", Age: 30 + i})
			require.NoError(t, err)
			assert.Greater(t, user.ID, previous)
			previous = user.ID
		}
		assert.Equal(t, idgen.DefaultStart+4, previous)
	})
}

func TestCreateUser_DoesNotMutateInput(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		in := &repository.User{FullName: "Ada", Title: "Dr", Age: 30}
		created, err := f.users.CreateUser(context.Background(), in)
		require.NoError(t, err)

		assert.Equal(t, int64(0), in.ID)
		assert.Equal(t, idgen.DefaultStart, created.ID)

		stored, err := f.stores.Users.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dr", stored.Title)
	})
}

func TestCreateUser_Validation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()

		_, err := f.users.CreateUser(ctx, nil)
		assert.True(t, apperr.IsValidation(err))

		_, err = f.users.CreateUser(ctx, &repository.User{FullName: "Ada", Age: -1})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestCreateUser_StorageFailure(t *testing.T) {
	stores := testutil.GormStores(t)
	stores.Users = failingUsers{UserStore: stores.Users}
	f := wire(stores)

	_, err := f.users.CreateUser(context.Background(), &repository.User{FullName: "Ada"})
	assert.True(t, apperr.IsPersistence(err))
	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, "Create user failed.", err.Error())
}

func TestCreateUser_AllocatorFailure(t *testing.T) {
	stores := testutil.SQLStores(t)
	users := service.NewUserService(stores.Users, failingAllocator{})

	_, err := users.CreateUser(context.Background(), &repository.User{FullName: "Ada"})
	assert.True(t, apperr.IsPersistence(err))
}

func TestUpdateUser(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)

		updated, err := f.users.UpdateUser(ctx, &repository.User{ID: user.ID, FullName: "Ada Lovelace", Title: "Countess", Age: 36})
		require.NoError(t, err)
		assert.Equal(t, user.ID, updated.ID)

		stored, err := f.users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", stored.FullName)
		assert.Equal(t, "Countess", stored.Title)
		assert.Equal(t, 36, stored.Age)
	})
}

func TestUpdateUser_SameValuesStillSucceeds(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		user := givenUser(t, f)

		_, err := f.users.UpdateUser(context.Background(), user)
		assert.NoError(t, err)
	})
}

func TestUpdateUser_Failures(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()

		_, err := f.users.UpdateUser(ctx, nil)
		assert.True(t, apperr.IsValidation(err))

		_, err = f.users.UpdateUser(ctx, &repository.User{FullName: "no id"})
		assert.True(t, apperr.IsValidation(err))

		_, err = f.users.UpdateUser(ctx, &repository.User{ID: 424242, FullName: "ghost"})
		assert.True(t, apperr.IsNotFound(err))
		assert.Equal(t, "Update user failed : user with id = 424242 not exist", err.Error())

		exists, err := f.stores.Users.ExistsByID(ctx, 424242)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestUpdateUser_ConcurrentWritersAllLand(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)

		const writers = 8
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(age int) {
				defer wg.Done()
				_, err := f.users.UpdateUser(ctx, &repository.User{ID: user.ID, FullName: "Ada", Age: age})
				errs <- err
			}(40 + i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			assert.NoError(t, err)
		}
		stored, err := f.users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stored.Age, 40)
		assert.Less(t, stored.Age, 40+writers)
	})
}

func TestGetUserByID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)

		got, err := f.users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.FullName, got.FullName)

		_, err = f.users.GetUserByID(ctx, 0)
		assert.True(t, apperr.IsValidation(err))

		_, err = f.users.GetUserByID(ctx, user.ID+1)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDeleteUserByID_IsIdempotentAndDoesNotCascade(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f fixture) {
		ctx := context.Background()
		user := givenUser(t, f)
		book := givenBook(t, f, user.ID, "A")

		require.NoError(t, f.users.DeleteUserByID(ctx, user.ID))
		require.NoError(t, f.users.DeleteUserByID(ctx, user.ID))
		assert.True(t, apperr.IsValidation(f.users.DeleteUserByID(ctx, 0)))

		_, err := f.users.GetUserByID(ctx, user.ID)
		assert.True(t, apperr.IsNotFound(err))

		stillThere, err := f.stores.Books.ExistsByID(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, stillThere)
		bindings, err := f.stores.Bindings.FindByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, bindings, 1)
	})
}

func TestUserExists_StorageFailure(t *testing.T) {
	stores := testutil.GormStores(t)
	users := service.NewUserService(failingUsers{UserStore: stores.Users}, idgen.NewAtomic(1))

	_, err := users.UserExists(context.Background(), 1)
	assert.True(t, apperr.IsPersistence(err))
}
