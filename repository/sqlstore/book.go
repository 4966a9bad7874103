package sqlstore

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"bookshelf/repository"
)

type bookStore struct {
	q       queryer
	dialect dialect
}

// NewBookStore returns the raw-statement BookStore over db.
func NewBookStore(db *sqlx.DB) (repository.BookStore, error) {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	return &bookStore{q: db, dialect: d}, nil
}

func (s *bookStore) Create(ctx context.Context, book *repository.Book) error {
	ds := s.dialect.Insert(tableBooks).Rows(goqu.Record{
		colID:        book.ID,
		colUserID:    book.UserID,
		colTitle:     book.Title,
		colAuthor:    book.Author,
		colPageCount: book.PageCount,
	}).Prepared(true)
	_, err := exec(ctx, s.q, ds)
	return err
}

func (s *bookStore) FindByID(ctx context.Context, id int64) (*repository.Book, error) {
	ds := s.dialect.From(tableBooks).
		Select(colID, colUserID, colTitle, colAuthor, colPageCount).
		Where(goqu.Ex{colID: id}).
		Limit(1).
		Prepared(true)
	var book repository.Book
	if err := get(ctx, s.q, &book, ds); err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *bookStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	n, err := count(ctx, s.q, s.dialect, tableBooks, goqu.Ex{colID: id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *bookStore) Update(ctx context.Context, book *repository.Book) (int64, error) {
	ds := s.dialect.Update(tableBooks).
		Set(goqu.Record{
			colUserID:    book.UserID,
			colTitle:     book.Title,
			colAuthor:    book.Author,
			colPageCount: book.PageCount,
		}).
		Where(goqu.Ex{colID: book.ID}).
		Prepared(true)
	return exec(ctx, s.q, ds)
}

func (s *bookStore) DeleteByID(ctx context.Context, id int64) error {
	ds := s.dialect.Delete(tableBooks).Where(goqu.Ex{colID: id}).Prepared(true)
	_, err := exec(ctx, s.q, ds)
	return err
}
