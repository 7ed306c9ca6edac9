package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/medicall/internal/model"
)

const _applicationEntity = "application"

var _applicationOrderColumns = map[string]string{
	"createdAt": "a.created_at",
}

type ApplicationDAO struct {
	Logger *slog.Logger
	*DB
}

func NewApplicationDAO(logger *slog.Logger, db *DB) *ApplicationDAO {
	return &ApplicationDAO{
		Logger: logger.With("dao", "application"),
		DB:     db,
	}
}

func (dao *ApplicationDAO) selectApplications() squirrel.SelectBuilder {
	return dao.Builder.
		Select(
			"a.id", "a.created_at", "a.updated_at",
			"a.shift_id", "a.worker_id", "a.status", "a.cover_letter", "a.proposed_rate",
			"u.username AS worker_username",
			"s.hospital_id", "s.role AS shift_role", "s.date AS shift_date",
		).
		From("applications a").
		Join("shifts s ON s.id = a.shift_id").
		Join("users u ON u.id = a.worker_id")
}

func (dao *ApplicationDAO) Find(ctx context.Context, filter model.ApplicationFilter, opts model.FindOptions) ([]model.Application, error) {
	logger := dao.Logger.With("query", "find")

	b := applyScope(dao.selectApplications(), filter.Scope, applicationOwners)
	if filter.Status != nil {
		b = b.Where(squirrel.Eq{"a.status": *filter.Status})
	}
	if filter.ShiftID != nil {
		b = b.Where(squirrel.Eq{"a.shift_id": *filter.ShiftID})
	}

	ordering := filter.OrderBy
	if ordering.Field == "" {
		ordering = model.Ordering{Field: "createdAt", Desc: true}
	}
	b = orderBy(b, ordering, _applicationOrderColumns, "a.id DESC")

	return selectMany[model.Application](ctx, dao.DB, logger, paginate(b, opts))
}

func (dao *ApplicationDAO) Get(ctx context.Context, id model.ID, scope model.Scope) (model.Application, error) {
	logger := dao.Logger.With("query", "get")

	b := applyScope(dao.selectApplications(), scope, applicationOwners).Where(squirrel.Eq{"a.id": id})

	return selectOne[model.Application](ctx, dao.DB, logger, _applicationEntity, b)
}

// Insert relies on the (shift_id, worker_id) unique constraint; a duplicate maps to ErrExists.
func (dao *ApplicationDAO) Insert(ctx context.Context, dto model.InsertApplicationDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	b := dao.Builder.
		Insert("applications").
		Columns("shift_id", "worker_id", "status", "cover_letter", "proposed_rate").
		Values(dto.ShiftID, dto.WorkerID, model.ApplicationPending, dto.CoverLetter, dto.ProposedRate)

	return insertReturningID(ctx, dao.DB, logger, _applicationEntity, b)
}

func (dao *ApplicationDAO) Update(ctx context.Context, id model.ID, dto model.UpdateApplicationDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 3)
	data["updated_at"] = time.Now()
	setIfPresent(data, "cover_letter", dto.CoverLetter)
	setIfPresent(data, "proposed_rate", dto.ProposedRate)

	b := dao.Builder.
		Update("applications").
		SetMap(data).
		Where(squirrel.Eq{"id": id})

	return execAffected(ctx, dao.DB, logger, _applicationEntity, b)
}

// SetStatus moves an application from one status to another. It reports
// false when the stored status no longer equals from.
func (dao *ApplicationDAO) SetStatus(ctx context.Context, id model.ID, from, to model.ApplicationStatus) (bool, error) {
	logger := dao.Logger.With("query", "setStatus")

	b := dao.Builder.
		Update("applications").
		Set("status", to).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": from})

	err := execAffected(ctx, dao.DB, logger, _applicationEntity, b)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (dao *ApplicationDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	b := dao.Builder.
		Delete("applications").
		Where(squirrel.Eq{"id": id})

	return execAffected(ctx, dao.DB, logger, _applicationEntity, b)
}

// FindDueReminders lists approved applications whose shift starts within
// [from, to), read as UTC wall time, and whose worker has no shift_reminder for that shift yet.
func (dao *ApplicationDAO) FindDueReminders(ctx context.Context, from, to time.Time) ([]model.DueReminder, error) {
	logger := dao.Logger.With("query", "findDueReminders")

	b := dao.Builder.
		Select(
			"a.id AS application_id", "a.worker_id", "s.hospital_id", "s.id AS shift_id",
			"s.role AS shift_role", "s.date AS shift_date",
			"to_char(s.start_time, 'HH24:MI') AS start_time", "s.location",
		).
		From("applications a").
		Join("shifts s ON s.id = a.shift_id").
		Where(squirrel.Eq{"a.status": model.ApplicationApproved}).
		Where(squirrel.Expr("((s.date + s.start_time) AT TIME ZONE 'UTC') >= ?", from.UTC())).
		Where(squirrel.Expr("((s.date + s.start_time) AT TIME ZONE 'UTC') < ?", to.UTC())).
		Where(squirrel.Expr(
			"NOT EXISTS (SELECT 1 FROM notifications n WHERE n.recipient_id = a.worker_id "+
				"AND n.related_shift_id = s.id AND n.notification_type = ?)",
			model.NotificationShiftReminder,
		)).
		OrderBy("s.date", "s.start_time")

	return selectMany[model.DueReminder](ctx, dao.DB, logger, b)
}
