package repository

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
	// Path is the sqlite database file, or a file: URI for in-memory databases.
	Path string
}

// DSN renders the connection string for Driver. The mysql DSN asks for found
// rows so an update that changes nothing still reports the row it matched.
func (c DatabaseConfig) DSN() (string, error) {
	switch strings.ToLower(c.Driver) {
	case DriverMySQL, "":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			c.Username,
			c.Password,
			c.Host,
			c.Port,
			c.DatabaseName,
		), nil
	case DriverPostgres:
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.Username,
			c.Password,
			c.Host,
			c.Port,
			c.DatabaseName,
		), nil
	case DriverSQLite:
		if c.Path == "" {
			return "", fmt.Errorf("sqlite driver needs a database path")
		}
		return c.Path, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func dialector(c DatabaseConfig) (gorm.Dialector, error) {
	dsn, err := c.DSN()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(c.Driver) {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return mysql.Open(dsn), nil
	}
}

// InitDatabase opens the ORM connection for c and creates the three tables when missing.
func InitDatabase(c DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(c)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database, error: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &Book{}, &Binding{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database, error: %w", err)
	}
	return db, nil
}
