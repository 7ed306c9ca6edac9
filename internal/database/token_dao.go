package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/medicall/internal/model"
)

type TokenDAO struct {
	Logger *slog.Logger
	*DB
}

func NewTokenDAO(logger *slog.Logger, db *DB) *TokenDAO {
	return &TokenDAO{
		Logger: logger.With("dao", "token"),
		DB:     db,
	}
}

// Revoke blacklists a refresh token id; revoking it again is a no-op.
func (dao *TokenDAO) Revoke(ctx context.Context, jti string, userID model.ID, expiresAt time.Time) error {
	logger := dao.Logger.With("query", "revoke")

	query, args, err := dao.Builder.
		Insert("revoked_tokens").
		Columns("jti", "user_id", "expires_at").
		Values(jti, userID, expiresAt).
		Suffix("ON CONFLICT (jti) DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "jti", jti)

	if _, err := dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return mapWriteError("token", err)
	}

	return nil
}

func (dao *TokenDAO) IsRevoked(ctx context.Context, jti string) (bool, error) {
	logger := dao.Logger.With("query", "isRevoked")

	query, args, err := dao.Builder.
		Select().
		Column(squirrel.Expr("EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)", jti)).
		ToSql()
	if err != nil {
		return false, err
	}

	logger.Debug("build query", "sql", query, "jti", jti)

	var revoked bool
	if err := dao.GetContext(ctx, &revoked, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return false, err
	}

	return revoked, nil
}

// PurgeExpired drops blacklist entries whose tokens have expired anyway.
func (dao *TokenDAO) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	logger := dao.Logger.With("query", "purgeExpired")

	query, args, err := dao.Builder.
		Delete("revoked_tokens").
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	affected, _ := res.RowsAffected()

	return int(affected), nil
}
