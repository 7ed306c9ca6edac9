package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/medicall/internal/model"
)

type PreferenceDAO struct {
	Logger *slog.Logger
	*DB
}

func NewPreferenceDAO(logger *slog.Logger, db *DB) *PreferenceDAO {
	return &PreferenceDAO{
		Logger: logger.With("dao", "preference"),
		DB:     db,
	}
}

var _preferenceColumns = []string{
	"email_notifications", "push_notifications", "sms_notifications",
	"shift_notifications", "application_notifications",
	"payment_notifications", "system_notifications",
}

// Get returns the stored preferences of user, or the defaults when none are stored.
func (dao *PreferenceDAO) Get(ctx context.Context, userID model.ID) (model.NotificationPreference, error) {
	logger := dao.Logger.With("query", "get")

	b := dao.Builder.
		Select(append([]string{"user_id", "updated_at"}, _preferenceColumns...)...).
		From("notification_preferences").
		Where(squirrel.Eq{"user_id": userID})

	pref, err := selectOne[model.NotificationPreference](ctx, dao.DB, logger, "preference", b)
	if err != nil {
		if isNotFound(err) {
			return model.DefaultNotificationPreference(userID), nil
		}
		return model.NotificationPreference{}, err
	}

	return pref, nil
}

func (dao *PreferenceDAO) Upsert(ctx context.Context, pref model.NotificationPreference) error {
	logger := dao.Logger.With("query", "upsert")

	query, args, err := dao.Builder.
		Insert("notification_preferences").
		Columns(append([]string{"user_id", "updated_at"}, _preferenceColumns...)...).
		Values(
			pref.UserID, time.Now(),
			pref.EmailNotifications, pref.PushNotifications, pref.SMSNotifications,
			pref.ShiftNotifications, pref.ApplicationNotifications,
			pref.PaymentNotifications, pref.SystemNotifications,
		).
		Suffix(
			"ON CONFLICT (user_id) DO UPDATE SET updated_at = EXCLUDED.updated_at, " +
				"email_notifications = EXCLUDED.email_notifications, " +
				"push_notifications = EXCLUDED.push_notifications, " +
				"sms_notifications = EXCLUDED.sms_notifications, " +
				"shift_notifications = EXCLUDED.shift_notifications, " +
				"application_notifications = EXCLUDED.application_notifications, " +
				"payment_notifications = EXCLUDED.payment_notifications, " +
				"system_notifications = EXCLUDED.system_notifications",
		).
		ToSql()
	if err != nil {
		return err
	}

	logger.Debug("build query", "sql", query, "args", args)

	if _, err := dao.ExecContext(ctx, query, args...); err != nil {
		logger.Warn("failed query execute", "error", err)

		return mapWriteError("preference", err)
	}

	logger.Debug("success query execute", "userId", pref.UserID)

	return nil
}
