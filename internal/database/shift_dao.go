package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/medicall/internal/model"
)

const _shiftEntity = "shift"

var _shiftOrderColumns = map[string]string{
	"date":       "s.date",
	"payPerHour": "s.pay_per_hour",
	"createdAt":  "s.created_at",
}

type ShiftDAO struct {
	Logger *slog.Logger
	*DB
}

func NewShiftDAO(logger *slog.Logger, db *DB) *ShiftDAO {
	return &ShiftDAO{
		Logger: logger.With("dao", "shift"),
		DB:     db,
	}
}

func (dao *ShiftDAO) selectShifts() squirrel.SelectBuilder {
	return dao.Builder.
		Select(
			"s.id", "s.created_at", "s.updated_at",
			"s.hospital_id", "COALESCE(hp.hospital_name, u.username) AS hospital_name",
			"s.department", "s.role", "s.date",
			"to_char(s.start_time, 'HH24:MI') AS start_time",
			"to_char(s.end_time, 'HH24:MI') AS end_time",
			"s.duration_hours", "s.pay_per_hour", "s.urgency", "s.status",
			"s.requirements", "s.location", "s.description", "s.max_applicants",
			"(SELECT COUNT(*) FROM applications a WHERE a.shift_id = s.id) AS applicant_count",
		).
		From("shifts s").
		Join("users u ON u.id = s.hospital_id").
		LeftJoin("hospital_profiles hp ON hp.user_id = s.hospital_id")
}

func (dao *ShiftDAO) Find(ctx context.Context, filter model.ShiftFilter, opts model.FindOptions) ([]model.Shift, error) {
	logger := dao.Logger.With("query", "find")

	b := applyScope(dao.selectShifts(), filter.Scope, shiftOwners)
	if filter.Status != nil {
		b = b.Where(squirrel.Eq{"s.status": *filter.Status})
	}
	if filter.Department != nil {
		b = b.Where(squirrel.Eq{"s.department": *filter.Department})
	}
	if filter.Urgency != nil {
		b = b.Where(squirrel.Eq{"s.urgency": *filter.Urgency})
	}
	if filter.Date != nil {
		b = b.Where(squirrel.Eq{"s.date": *filter.Date})
	}
	if filter.Location != nil {
		b = b.Where(squirrel.ILike{"s.location": contains(*filter.Location)})
	}
	if filter.Search != "" {
		pattern := contains(filter.Search)
		b = b.Where(squirrel.Or{
			squirrel.ILike{"s.role": pattern},
			squirrel.ILike{"s.department": pattern},
			squirrel.ILike{"s.requirements": pattern},
		})
	}
	if filter.NotAppliedBy != nil {
		b = b.Where(squirrel.Expr(
			"NOT EXISTS (SELECT 1 FROM applications x WHERE x.shift_id = s.id AND x.worker_id = ?)",
			*filter.NotAppliedBy,
		))
	}
	b = orderBy(b, filter.OrderBy, _shiftOrderColumns, "s.id DESC")

	shifts, err := selectMany[model.Shift](ctx, dao.DB, logger, paginate(b, opts))
	if err != nil {
		return nil, err
	}

	for i := range shifts {
		shifts[i].Derive()
	}

	return shifts, nil
}

func (dao *ShiftDAO) Get(ctx context.Context, id model.ID, scope model.Scope) (model.Shift, error) {
	logger := dao.Logger.With("query", "get")

	b := applyScope(dao.selectShifts(), scope, shiftOwners).Where(squirrel.Eq{"s.id": id})

	shift, err := selectOne[model.Shift](ctx, dao.DB, logger, _shiftEntity, b)
	if err != nil {
		return model.Shift{}, err
	}

	shift.Derive()

	return shift, nil
}

func (dao *ShiftDAO) Insert(ctx context.Context, dto model.InsertShiftDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	b := dao.Builder.
		Insert("shifts").
		Columns(
			"hospital_id", "department", "role", "date", "start_time", "end_time",
			"duration_hours", "pay_per_hour", "urgency", "requirements",
			"location", "description", "max_applicants",
		).
		Values(
			dto.HospitalID, dto.Department, dto.Position, dto.Date, dto.StartTime, dto.EndTime,
			dto.DurationHours, dto.PayPerHour, dto.Urgency, dto.Requirements,
			dto.Location, dto.Description, dto.MaxApplicants,
		)

	return insertReturningID(ctx, dao.DB, logger, _shiftEntity, b)
}

func (dao *ShiftDAO) Update(ctx context.Context, id model.ID, dto model.UpdateShiftDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 14)
	data["updated_at"] = time.Now()
	setIfPresent(data, "department", dto.Department)
	setIfPresent(data, "role", dto.Position)
	setIfPresent(data, "date", dto.Date)
	setIfPresent(data, "start_time", dto.StartTime)
	setIfPresent(data, "end_time", dto.EndTime)
	setIfPresent(data, "duration_hours", dto.DurationHours)
	setIfPresent(data, "pay_per_hour", dto.PayPerHour)
	setIfPresent(data, "urgency", dto.Urgency)
	setIfPresent(data, "status", dto.Status)
	setIfPresent(data, "requirements", dto.Requirements)
	setIfPresent(data, "location", dto.Location)
	setIfPresent(data, "description", dto.Description)
	setIfPresent(data, "max_applicants", dto.MaxApplicants)

	b := dao.Builder.
		Update("shifts").
		SetMap(data).
		Where(squirrel.Eq{"id": id})

	return execAffected(ctx, dao.DB, logger, _shiftEntity, b)
}

func (dao *ShiftDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	b := dao.Builder.
		Delete("shifts").
		Where(squirrel.Eq{"id": id})

	return execAffected(ctx, dao.DB, logger, _shiftEntity, b)
}

// FillIfApproved moves an active shift to filled when it has an approved
// application. It reports whether the status changed.
func (dao *ShiftDAO) FillIfApproved(ctx context.Context, id model.ID) (bool, error) {
	logger := dao.Logger.With("query", "fillIfApproved")

	query, args, err := dao.Builder.
		Update("shifts").
		Set("status", model.ShiftFilled).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "status": model.ShiftActive}).
		Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM applications a WHERE a.shift_id = shifts.id AND a.status = ?)",
			model.ApplicationApproved,
		)).
		ToSql()
	if err != nil {
		return false, err
	}

	logger.Debug("build query", "sql", query, "args", args)

	res, err := dao.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Warn("failed query execute", "error", err)

		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	logger.Debug("success query execute", "shiftId", id, "filled", affected > 0)

	return affected > 0, nil
}
