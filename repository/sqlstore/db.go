// Package sqlstore implements the repository store contracts with hand-built,
// parameterized SQL statements executed through sqlx. It is the raw-statement
// counterpart of the gorm stores in package repository and must behave the same
// way for every operation.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	_ "github.com/go-sql-driver/mysql"                  // mysql driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"bookshelf/repository"
)

const (
	tableUsers    = "users"
	tableBooks    = "books"
	tableBindings = "user_books"

	colID        = "id"
	colUserID    = "user_id"
	colBookID    = "book_id"
	colFullName  = "full_name"
	colTitle     = "title"
	colAge       = "age"
	colAuthor    = "author"
	colPageCount = "page_count"
)

const (
	defaultMaxOpenConnections = 50
	defaultMaxIdleConnections = 10
	defaultMaxConnLifetime    = time.Hour
	defaultMaxConnIdleTime    = time.Minute * 5
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT NOT NULL PRIMARY KEY,
		full_name VARCHAR(255),
		title VARCHAR(255),
		age INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id BIGINT NOT NULL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		title VARCHAR(255),
		author VARCHAR(255),
		page_count BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_books (
		id BIGINT NOT NULL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		book_id BIGINT NOT NULL
	)`,
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	sqlx.ExtContext
}

// dialect pairs the goqu statement builder with what the database can lock.
type dialect struct {
	goqu.DialectWrapper
	rowLocks bool
}

func dialectFor(driverName string) (dialect, error) {
	switch driverName {
	case "mysql":
		return dialect{DialectWrapper: goqu.Dialect("mysql"), rowLocks: true}, nil
	case "postgres":
		return dialect{DialectWrapper: goqu.Dialect("postgres"), rowLocks: true}, nil
	case "sqlite3":
		// sqlite locks the whole database for a write transaction and has no FOR UPDATE.
		return dialect{DialectWrapper: goqu.Dialect("sqlite3"), rowLocks: false}, nil
	default:
		return dialect{}, fmt.Errorf("sqlstore: unsupported driver %q", driverName)
	}
}

func driverName(driver string) string {
	switch strings.ToLower(driver) {
	case repository.DriverPostgres:
		return "postgres"
	case repository.DriverSQLite:
		return "sqlite3"
	default:
		return "mysql"
	}
}

// Open connects with the sql driver matching c.Driver, checks the connection
// and creates the three tables when missing.
func Open(ctx context.Context, c repository.DatabaseConfig) (*sqlx.DB, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driverName(c.Driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection, error: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database, error: %w", err)
	}
	if err := CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func CreateSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema, error: %w", err)
		}
	}
	return nil
}

type toSQLer interface {
	ToSQL() (string, []any, error)
}

func build(ds toSQLer) (string, []any, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("sqlstore: build statement: %w", err)
	}
	return query, args, nil
}

func exec(ctx context.Context, q queryer, ds toSQLer) (int64, error) {
	query, args, err := build(ds)
	if err != nil {
		return 0, err
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func get(ctx context.Context, q queryer, dest any, ds toSQLer) error {
	query, args, err := build(ds)
	if err != nil {
		return err
	}
	if err := sqlx.GetContext(ctx, q, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrRecordNotFound
		}
		return err
	}
	return nil
}

func count(ctx context.Context, q queryer, d dialect, table string, where goqu.Ex) (int64, error) {
	var n int64
	ds := d.From(table).Select(goqu.COUNT(goqu.Star())).Where(where).Prepared(true)
	if err := get(ctx, q, &n, ds); err != nil {
		return 0, err
	}
	return n, nil
}
