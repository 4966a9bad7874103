package sqlstore

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"bookshelf/repository"
)

type bindingStore struct {
	q       queryer
	dialect dialect
}

// NewBindingStore returns the raw-statement BindingStore over db.
func NewBindingStore(db *sqlx.DB) (repository.BindingStore, error) {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &bindingStore{q: db, dialect: d}, nil
}

func (s *bindingStore) Create(ctx context.Context, binding *repository.Binding) error {
	ds := s.dialect.Insert(tableBindings).Rows(goqu.Record{
		colID:     binding.ID,
		colUserID: binding.UserID,
		colBookID: binding.BookID,
	}).Prepared(true)
	_, err := exec(ctx, s.q, ds)
	return err
}

func (s *bindingStore) FindByUserID(ctx context.Context, userID int64) ([]repository.Binding, error) {
	query, args, err := build(s.dialect.From(tableBindings).
		Select(colID, colUserID, colBookID).
		Where(goqu.Ex{colUserID: userID}).
		Order(goqu.C(colID).Asc()).
		Prepared(true))
	if err != nil {
		return nil, err
	}
	var bindings []repository.Binding
	if err := sqlx.SelectContext(ctx, s.q, &bindings, query, args...); err != nil {
		return nil, err
	}
	return bindings, nil
}

func (s *bindingStore) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	ds := s.dialect.Delete(tableBindings).Where(goqu.Ex{colUserID: userID}).Prepared(true)
	return exec(ctx, s.q, ds)
}

func (s *bindingStore) DeleteByBookID(ctx context.Context, bookID int64) (int64, error) {
	ds := s.dialect.Delete(tableBindings).Where(goqu.Ex{colBookID: bookID}).Prepared(true)
	return exec(ctx, s.q, ds)
}
