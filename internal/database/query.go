package database

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/medicall/internal/model"
)

// selectMany runs a built select and scans every row into T.
func selectMany[T any](ctx context.Context, db *DB, logger *slog.Logger, b squirrel.SelectBuilder) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	items := make([]T, 0)
	if err := db.SelectContext(ctx, &items, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return nil, err
	}

	logger.Debug("success query execute", "count", len(items))

	return items, nil
}

// selectOne runs a built select expecting a single row; no rows maps to entity not found.
func selectOne[T any](ctx context.Context, db *DB, logger *slog.Logger, entity string, b squirrel.SelectBuilder) (T, error) {
	var item T

	query, args, err := b.Limit(1).ToSql()
	if err != nil {
		return item, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if err := db.GetContext(ctx, &item, query, args...); err != nil {
		if IsNoRows(err) {
			return item, model.NewError(entity, model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return item, err
	}

	logger.Debug("success query execute")

	return item, nil
}

// execAffected runs a built statement and reports entity not found when no row matched.
func execAffected(ctx context.Context, db *DB, logger *slog.Logger, entity string, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return mapWriteError(entity, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.NewError(entity, model.ErrNotFound)
	}

	logger.Debug("success query execute", "affected", affected)

	return nil
}

// insertReturningID runs a built insert with a RETURNING id suffix.
func insertReturningID(ctx context.Context, db *DB, logger *slog.Logger, entity string, b squirrel.InsertBuilder) (model.ID, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var id model.ID
	if err := db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		return 0, mapWriteError(entity, err)
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

func mapWriteError(entity string, err error) error {
	switch {
	case IsUniqueViolation(err):
		return model.NewError(entity, model.ErrExists)
	case IsForeignKeyViolation(err):
		return model.NewError(entity, model.ErrNotFound)
	case IsCheckViolation(err), IsNumericOutOfRange(err):
		return model.NewValidationError("%s: value out of range", entity)
	}
	return err
}

func paginate(b squirrel.SelectBuilder, opts model.FindOptions) squirrel.SelectBuilder {
	return b.Limit(uint64(opts.Limit)).Offset(uint64(opts.Offset))
}

func isNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
