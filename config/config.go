// Package config holds the command line and environment configuration of the
// bookshelf server.
package config

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-multierror"

	"bookshelf/repository"
)

const (
	PersistenceORM = "orm"
	PersistenceSQL = "sql"

	AllocatorMemory = "memory"
	AllocatorRedis  = "redis"
)

var version = "dev"

type CLI struct {
	Addr      string   `kong:"default=':8080',env='BOOKSHELF_ADDR',help='HTTP listen address'"`
	CORS      []string `kong:"name='cors-origin',sep=',',env='BOOKSHELF_CORS_ORIGINS',help='Allowed CORS origins, any when empty'"`
	LogLevel  string   `kong:"short='l',default='info',enum='debug,info,warn,error',env='BOOKSHELF_LOG_LEVEL',help='Log level'"`
	LogJSON   bool     `kong:"name='log-json',env='BOOKSHELF_LOG_JSON',help='Emit JSON log lines'"`
	Persist   string   `kong:"name='persistence',default='orm',enum='orm,sql',env='BOOKSHELF_PERSISTENCE',help='Store implementation: orm (gorm) or sql (sqlx)'"`
	Allocator string   `kong:"name='id-allocator',default='memory',enum='memory,redis',env='BOOKSHELF_ID_ALLOCATOR',help='Identifier allocator'"`
	IDStart   int64    `kong:"name='id-start',default='100000',env='BOOKSHELF_ID_START',help='First identifier handed out in every space'"`

	DB    DBFlags    `kong:"embed,prefix='db-',envprefix='BOOKSHELF_DB_'"`
	Redis RedisFlags `kong:"embed,prefix='redis-',envprefix='BOOKSHELF_REDIS_'"`

	Version kong.VersionFlag `kong:"short='v',help='Show version and exit.'"`
}

type DBFlags struct {
	Driver   string `kong:"default='mysql',enum='mysql,postgres,sqlite',env='DRIVER',help='Database driver'"`
	Host     string `kong:"default='localhost',env='HOST',help='Database host'"`
	Port     int    `kong:"default='3306',env='PORT',help='Database port'"`
	User     string `kong:"default='root',env='USER',help='Database user'"`
	Password string `kong:"env='PASSWORD',help='Database password'"`
	Name     string `kong:"default='bookshelf',env='NAME',help='Database name'"`
	Path     string `kong:"default='bookshelf.db',env='PATH',help='sqlite database file'"`
}

type RedisFlags struct {
	Addr     string `kong:"default='localhost:6379',env='ADDR',help='Redis address for the redis id allocator'"`
	Password string `kong:"env='PASSWORD',help='Redis password'"`
	DB       int    `kong:"default='0',env='DB',help='Redis database index'"`
	Prefix   string `kong:"default='bookshelf',env='PREFIX',help='Key prefix of the id counters'"`
}

// Database maps the db flags onto the store configuration.
func (c *CLI) Database() repository.DatabaseConfig {
	return repository.DatabaseConfig{
		Driver:       c.DB.Driver,
		Host:         c.DB.Host,
		Port:         c.DB.Port,
		Username:     c.DB.User,
		Password:     c.DB.Password,
		DatabaseName: c.DB.Name,
		Path:         c.DB.Path,
	}
}

// Validate reports every inconsistent flag combination at once.
func (c *CLI) Validate() error {
	var result *multierror.Error
	if c.IDStart <= 0 {
		result = multierror.Append(result, fmt.Errorf("id-start must be positive, got %d", c.IDStart))
	}
	if c.DB.Driver == repository.DriverSQLite && c.DB.Path == "" {
		result = multierror.Append(result, fmt.Errorf("db-path is required for the sqlite driver"))
	}
	if c.Allocator == AllocatorRedis && c.Redis.Addr == "" {
		result = multierror.Append(result, fmt.Errorf("redis-addr is required for the redis id allocator"))
	}
	return result.ErrorOrNil()
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name("bookshelf"),
		kong.Description("User and book aggregate service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	}
}

// Parse reads args (without the program name) and the environment.
func Parse(args []string, extra ...kong.Option) (*CLI, error) {
	var cli CLI
	parser, err := kong.New(&cli, append(options(), extra...)...)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return &cli, nil
}

// MustParse parses os.Args and exits with usage on error.
func MustParse() *CLI {
	var cli CLI
	kong.Parse(&cli, options()...)
	return &cli
}
