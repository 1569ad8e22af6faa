package postgres

import (
	"context"

	"github.com/agrotech/fieldwatch/internal/database"
	"github.com/agrotech/fieldwatch/internal/errors"
)

// PostgresBaseRepo holds the connection shared by the app database repositories
type PostgresBaseRepo struct {
	db database.DB
}

// deleteByID removes one row of table and reports NotFound when none matched.
func (r *PostgresBaseRepo) deleteByID(ctx context.Context, table, id, notFound string) error {
	result, err := r.db.GetDB().ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete from "+table, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(notFound, nil)
	}
	return nil
}
