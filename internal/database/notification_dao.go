package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/medicall/internal/model"
)

const _notificationEntity = "notification"

type NotificationDAO struct {
	Logger *slog.Logger
	*DB
}

func NewNotificationDAO(logger *slog.Logger, db *DB) *NotificationDAO {
	return &NotificationDAO{
		Logger: logger.With("dao", "notification"),
		DB:     db,
	}
}

func (dao *NotificationDAO) selectNotifications() squirrel.SelectBuilder {
	return dao.Builder.
		Select(
			"n.id", "n.created_at", "n.recipient_id", "n.sender_id",
			"n.notification_type", "n.title", "n.message", "n.is_read",
			"n.related_shift_id", "n.related_application_id",
		).
		From("notifications n")
}

func (dao *NotificationDAO) Find(ctx context.Context, filter model.NotificationFilter, opts model.FindOptions) ([]model.Notification, error) {
	logger := dao.Logger.With("query", "find")

	b := applyScope(dao.selectNotifications(), filter.Scope, notificationOwners)
	if filter.IsRead != nil {
		b = b.Where(squirrel.Eq{"n.is_read": *filter.IsRead})
	}
	b = b.OrderBy("n.created_at DESC", "n.id DESC")

	return selectMany[model.Notification](ctx, dao.DB, logger, paginate(b, opts))
}

func (dao *NotificationDAO) Get(ctx context.Context, id model.ID, scope model.Scope) (model.Notification, error) {
	logger := dao.Logger.With("query", "get")

	b := applyScope(dao.selectNotifications(), scope, notificationOwners).Where(squirrel.Eq{"n.id": id})

	return selectOne[model.Notification](ctx, dao.DB, logger, _notificationEntity, b)
}

func (dao *NotificationDAO) Insert(ctx context.Context, dto model.InsertNotificationDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	b := dao.Builder.
		Insert("notifications").
		Columns(
			"recipient_id", "sender_id", "notification_type", "title", "message",
			"related_shift_id", "related_application_id",
		).
		Values(
			dto.RecipientID, dto.SenderID, dto.Type, dto.Title, dto.Message,
			dto.RelatedShiftID, dto.RelatedApplicationID,
		)

	return insertReturningID(ctx, dao.DB, logger, _notificationEntity, b)
}

func (dao *NotificationDAO) MarkRead(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "markRead")

	b := dao.Builder.
		Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"id": id})

	return execAffected(ctx, dao.DB, logger, _notificationEntity, b)
}

// MarkAllRead flips every unread notification of recipient and returns how many changed.
func (dao *NotificationDAO) MarkAllRead(ctx context.Context, recipient model.ID) (int, error) {
	logger := dao.Logger.With("query", "markAllRead")

	query, args, err := dao.Builder.
		Update("notifications").
		Set("is_read", true).
		Where(squirrel.Eq{"recipient_id": recipient, "is_read": false}).
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

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	logger.Debug("success query execute", "affected", affected)

	return int(affected), nil
}

func (dao *NotificationDAO) CountUnread(ctx context.Context, recipient model.ID) (int, error) {
	logger := dao.Logger.With("query", "countUnread")

	query, args, err := dao.Builder.
		Select("COUNT(*)").
		From("notifications").
		Where(squirrel.Eq{"recipient_id": recipient, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	var count int
	if err := dao.GetContext(ctx, &count, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return 0, err
	}

	return count, nil
}

func (dao *NotificationDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	b := dao.Builder.
		Delete("notifications").
		Where(squirrel.Eq{"id": id})

	return execAffected(ctx, dao.DB, logger, _notificationEntity, b)
}
