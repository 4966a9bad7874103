package sqlstore

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"bookshelf/repository"
)

type userStore struct {
	q       queryer
	dialect dialect
}

// NewUserStore returns the raw-statement UserStore over db.
func NewUserStore(db *sqlx.DB) (repository.UserStore, error) {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &userStore{q: db, dialect: d}, nil
}

func (s *userStore) Create(ctx context.Context, user *repository.User) error {
	ds := s.dialect.Insert(tableUsers).Rows(goqu.Record{
		colID:       user.ID,
		colFullName: user.FullName,
		colTitle:    user.Title,
		colAge:      user.Age,
	}).Prepared(true)
	_, err := exec(ctx, s.q, ds)
	return err
}

func (s *userStore) selectByID(id int64) *goqu.SelectDataset {
	return s.dialect.From(tableUsers).
		Select(colID, colFullName, colTitle, colAge).
		Where(goqu.Ex{colID: id}).
		Limit(1).
		Prepared(true)
}

func (s *userStore) FindByID(ctx context.Context, id int64) (*repository.User, error) {
	var user repository.User
	if err := get(ctx, s.q, &user, s.selectByID(id)); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) FindByIDForUpdate(ctx context.Context, id int64) (*repository.User, error) {
	ds := s.selectByID(id)
	if s.dialect.rowLocks {
		ds = ds.ForUpdate(exp.Wait)
	}
	var user repository.User
	if err := get(ctx, s.q, &user, ds); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	n, err := count(ctx, s.q, s.dialect, tableUsers, goqu.Ex{colID: id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *userStore) Update(ctx context.Context, user *repository.User) (int64, error) {
	ds := s.dialect.Update(tableUsers).
		Set(goqu.Record{
			colFullName: user.FullName,
			colTitle:    user.Title,
			colAge:      user.Age,
		}).
		Where(goqu.Ex{colID: user.ID}).
		Prepared(true)
	return exec(ctx, s.q, ds)
}

func (s *userStore) DeleteByID(ctx context.Context, id int64) error {
	ds := s.dialect.Delete(tableUsers).Where(goqu.Ex{colID: id}).Prepared(true)
	_, err := exec(ctx, s.q, ds)
	return err
}

func (s *userStore) InTx(ctx context.Context, fn func(tx repository.UserStore) error) error {
	db, ok := s.q.(*sqlx.DB)
	if !ok {
		// Already bound to a transaction.
		return fn(s)
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&userStore{q: tx, dialect: s.dialect}); err != nil {
		return err
	}
	return tx.Commit()
}
