package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/config"
	"bookshelf/repository"
)

func TestParse_Defaults(t *testing.T) {
	cli, err := config.Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cli.Addr)
	assert.Equal(t, "info", cli.LogLevel)
	assert.False(t, cli.LogJSON)
	assert.Equal(t, config.PersistenceORM, cli.Persist)
	assert.Equal(t, config.AllocatorMemory, cli.Allocator)
	assert.Equal(t, int64(100000), cli.IDStart)
	assert.Equal(t, repository.DatabaseConfig{
		Driver:       repository.DriverMySQL,
		Host:         "localhost",
		Port:         3306,
		Username:     "root",
		DatabaseName: "bookshelf",
		Path:         "bookshelf.db",
	}, cli.Database())
}

func TestParse_Flags(t *testing.T) {
	cli, err := config.Parse([]string{
		"--persistence=sql",
		"--id-allocator=redis",
		"--redis-addr=cache:6380",
		"--db-driver=postgres",
		"--db-port=5432",
		"--log-json",
		"--cors-origin=http://a.test,http://b.test",
	})
	require.NoError(t, err)

	assert.Equal(t, config.PersistenceSQL, cli.Persist)
	assert.Equal(t, config.AllocatorRedis, cli.Allocator)
	assert.Equal(t, "cache:6380", cli.Redis.Addr)
	assert.True(t, cli.LogJSON)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cli.CORS)
	db := cli.Database()
	assert.Equal(t, repository.DriverPostgres, db.Driver)
	assert.Equal(t, 5432, db.Port)
}

func TestParse_Environment(t *testing.T) {
	t.Setenv("BOOKSHELF_DB_DRIVER", "sqlite")
	t.Setenv("BOOKSHELF_DB_PATH", "/tmp/books.db")
	t.Setenv("BOOKSHELF_PERSISTENCE", "sql")

	cli, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, repository.DriverSQLite, cli.DB.Driver)
	assert.Equal(t, "/tmp/books.db", cli.DB.Path)
	assert.Equal(t, config.PersistenceSQL, cli.Persist)

	// flags win over the environment
	cli, err = config.Parse([]string{"--persistence=orm"})
	require.NoError(t, err)
	assert.Equal(t, config.PersistenceORM, cli.Persist)
}

func TestParse_Rejects(t *testing.T) {
	for name, args := range map[string][]string{
		"unknown persistence": {"--persistence=jdbc"},
		"unknown driver":      {"--db-driver=oracle"},
		"zero id start":       {"--id-start=0"},
		"empty sqlite path":   {"--db-driver=sqlite", "--db-path="},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse(args)
			assert.Error(t, err)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cli := &config.CLI{IDStart: 0, Allocator: config.AllocatorRedis}
	cli.DB.Driver = repository.DriverSQLite

	err := cli.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id-start")
	assert.Contains(t, err.Error(), "db-path")
	assert.Contains(t, err.Error(), "redis-addr")
}
