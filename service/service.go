// Package service enforces the user and book invariants on top of the store
// capabilities. Both services work unchanged over either persistence path.
//
// There is no foreign key between books and users. CreateBook checks that the
// owner exists before writing, but nothing stops the owner from being deleted
// between that check and the insert, so the check is best-effort and the last
// writer wins.
package service

import (
	"context"

	"bookshelf/apperr"
	"bookshelf/log"
)

// persistenceErr wraps a storage failure and logs its cause, which the caller never sees.
func persistenceErr(ctx context.Context, err error, format string, args ...any) error {
	wrapped := apperr.Persistencef(err, format, args...)
	log.GetLogger(ctx).WithError(err).Errorln(wrapped.Error())
	return wrapped
}

func checkRowsAffected(ctx context.Context, rows int64, entity string, id int64) error {
	switch {
	case rows == 0:
		return persistenceErr(ctx, nil, "Update %s failed. Database has zero row with id = %d", entity, id)
	case rows > 1:
		return persistenceErr(ctx, nil, "Update %s potentially unsafe. Database has %d row with id = %d", entity, rows, id)
	default:
		return nil
	}
}
