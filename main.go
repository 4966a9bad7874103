package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"

	"bookshelf/config"
	"bookshelf/idgen"
	"bookshelf/log"
	"bookshelf/orchestrator"
	"bookshelf/repository"
	"bookshelf/repository/sqlstore"
	"bookshelf/service"
	"bookshelf/web"
)

type stores struct {
	users    repository.UserStore
	books    repository.BookStore
	bindings repository.BindingStore
}

func openStores(ctx context.Context, cli *config.CLI) (*stores, error) {
	switch cli.Persist {
	case config.PersistenceSQL:
		db, err := sqlstore.Open(ctx, cli.Database())
		if err != nil {
			return nil, err
		}
		users, err := sqlstore.NewUserStore(db)
		if err != nil {
			return nil, err
		}
		books, err := sqlstore.NewBookStore(db)
		if err != nil {
			return nil, err
		}
		bindings, err := sqlstore.NewBindingStore(db)
		if err != nil {
			return nil, err
		}
		return &stores{users: users, books: books, bindings: bindings}, nil
	default:
		db, err := repository.InitDatabase(cli.Database())
		if err != nil {
			return nil, err
		}
		return &stores{
			users:    repository.NewUserRepo(db),
			books:    repository.NewBookRepo(db),
			bindings: repository.NewBindingRepo(db),
		}, nil
	}
}

func newAllocator(ctx context.Context, cli *config.CLI) (idgen.Allocator, error) {
	if cli.Allocator != config.AllocatorRedis {
		return idgen.NewAtomic(cli.IDStart), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cli.Redis.Addr,
		Password: cli.Redis.Password,
		DB:       cli.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return idgen.NewRedis(client, cli.Redis.Prefix, cli.IDStart), nil
}

func main() {
	cli := config.MustParse()
	log.Setup(cli.LogLevel, cli.LogJSON)
	logger := log.GetLogger(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	s, err := openStores(initCtx, cli)
	if err != nil {
		logger.WithError(err).Fatalf("Open %s stores on %s failed", cli.Persist, cli.DB.Driver)
	}
	ids, err := newAllocator(initCtx, cli)
	if err != nil {
		logger.WithError(err).Fatalf("Init %s id allocator failed", cli.Allocator)
	}
	logger.Infof("Using %s persistence on %s with %s ids from %d", cli.Persist, cli.DB.Driver, cli.Allocator, cli.IDStart)

	users := service.NewUserService(s.users, ids)
	books := service.NewBookService(s.books, s.bindings, users, ids)
	router := web.NewRouter(web.NewHandler(orchestrator.NewOrchestrator(users, books)), cli.CORS...)
	server := &http.Server{Addr: cli.Addr, Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Listening on %s", cli.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.WithError(err).Fatalln("Server stopped")
	}
	logger.Infoln("Server stopped")
}
