// Package testutil opens throwaway in-memory sqlite databases behind both
// persistence paths so store and service tests can run without a server.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"bookshelf/repository"
	"bookshelf/repository/sqlstore"
)

type Stores struct {
	Users    repository.UserStore
	Books    repository.BookStore
	Bindings repository.BindingStore
}

// Backend names one persistence path and builds a fresh, empty set of stores for it.
type Backend struct {
	Name string
	New  func(tb testing.TB) Stores
}

var Backends = []Backend{
	{Name: "orm", New: GormStores},
	{Name: "sql", New: SQLStores},
}

// SQLiteConfig returns a config for a private shared-cache in-memory database.
func SQLiteConfig(tb testing.TB) repository.DatabaseConfig {
	tb.Helper()
	return repository.DatabaseConfig{
		Driver: repository.DriverSQLite,
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString()),
	}
}

func GormDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := repository.InitDatabase(SQLiteConfig(tb))
	if err != nil {
		tb.Fatalf("init gorm sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("gorm sql.DB: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxIdleTime(0)
	sqlDB.SetConnMaxLifetime(0)
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func SQLXDB(tb testing.TB) *sqlx.DB {
	tb.Helper()
	db, err := sqlstore.Open(context.Background(), SQLiteConfig(tb))
	if err != nil {
		tb.Fatalf("open sqlx sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)
	db.SetConnMaxLifetime(0)
	tb.Cleanup(func() { _ = db.Close() })
	return db
}

func GormStores(tb testing.TB) Stores {
	tb.Helper()
	db := GormDB(tb)
	return Stores{
		Users:    repository.NewUserRepo(db),
		Books:    repository.NewBookRepo(db),
		Bindings: repository.NewBindingRepo(db),
	}
}

func SQLStores(tb testing.TB) Stores {
	tb.Helper()
	db := SQLXDB(tb)
	users, err := sqlstore.NewUserStore(db)
	if err != nil {
		tb.Fatalf("user store: %v", err)
	}
	books, err := sqlstore.NewBookStore(db)
	if err != nil {
		tb.Fatalf("book store: %v", err)
	}
	bindings, err := sqlstore.NewBindingStore(db)
	if err != nil {
		tb.Fatalf("binding store: %v", err)
	}
	return Stores{Users: users, Books: books, Bindings: bindings}
}
