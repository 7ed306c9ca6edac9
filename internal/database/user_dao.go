package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/medicall/internal/model"
)

var _userColumns = []string{
	"id", "created_at", "updated_at",
	"username", "email", "first_name", "last_name", "password_hash",
	"user_type", "is_verified", "is_active",
	"phone_number", "profile_picture",
	"address", "city", "state", "zip_code", "country",
}

type UserDAO struct {
	Logger *slog.Logger
	*DB
}

func NewUserDAO(logger *slog.Logger, db *DB) *UserDAO {
	return &UserDAO{
		Logger: logger.With("dao", "user"),
		DB:     db,
	}
}

func (dao *UserDAO) Get(ctx context.Context, id model.ID) (model.User, error) {
	return dao.getBy(ctx, squirrel.Eq{"id": id})
}

func (dao *UserDAO) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return dao.getBy(ctx, squirrel.Eq{"username": username})
}

func (dao *UserDAO) getBy(ctx context.Context, where squirrel.Eq) (model.User, error) {
	logger := dao.Logger.With("query", "get")

	query, args, err := dao.Builder.
		Select(_userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var user model.User
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.StructScan(&user); err != nil {
		if IsNoRows(err) {
			return model.User{}, model.NewError("user", model.ErrNotFound)
		}

		logger.Warn("failed query execute", "error", err)

		return model.User{}, err
	}

	logger.Debug("success query execute", "userId", user.ID)

	return user, nil
}

func (dao *UserDAO) Insert(ctx context.Context, dto model.InsertUserDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	query, args, err := dao.Builder.
		Insert("users").
		Columns(
			"username", "email", "password_hash", "first_name", "last_name",
			"user_type", "is_verified", "phone_number",
			"address", "city", "state", "zip_code", "country",
		).
		Values(
			dto.Username, dto.Email, dto.PasswordHash, dto.FirstName, dto.LastName,
			dto.Role, dto.IsVerified, dto.PhoneNumber,
			dto.Address, dto.City, dto.State, dto.ZipCode, dto.Country,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "username", dto.Username)

	var id model.ID
	row := dao.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&id); err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return 0, model.NewError("user", model.ErrExists)
		}

		return 0, err
	}

	logger.Debug("success query execute", "insertId", id)

	return id, nil
}

func (dao *UserDAO) Update(ctx context.Context, id model.ID, dto model.UpdateUserDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 11)
	data["updated_at"] = time.Now()
	setIfPresent(data, "email", dto.Email)
	setIfPresent(data, "first_name", dto.FirstName)
	setIfPresent(data, "last_name", dto.LastName)
	setIfPresent(data, "phone_number", dto.PhoneNumber)
	setIfPresent(data, "profile_picture", dto.ProfilePicture)
	setIfPresent(data, "address", dto.Address)
	setIfPresent(data, "city", dto.City)
	setIfPresent(data, "state", dto.State)
	setIfPresent(data, "zip_code", dto.ZipCode)
	setIfPresent(data, "country", dto.Country)

	query, args, err := dao.Builder.
		Update("users").
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		if IsUniqueViolation(err) {
			return model.NewError("user", model.ErrExists)
		}

		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return model.NewError("user", model.ErrNotFound)
	}

	logger.Debug("success query execute", "updateId", id, "countUpdatedFields", len(data))

	return nil
}

func setIfPresent[T any](data map[string]any, column string, value *T) {
	if value != nil {
		data[column] = *value
	}
}
