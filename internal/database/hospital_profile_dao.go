package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/protomem/medicall/internal/model"
)

const _hospitalProfileEntity = "hospital profile"

var _hospitalOrderColumns = map[string]string{
	"hospitalName": "hospital_name",
	"bedCount":     "bed_count",
}

type HospitalProfileDAO struct {
	Logger *slog.Logger
	*DB
}

func NewHospitalProfileDAO(logger *slog.Logger, db *DB) *HospitalProfileDAO {
	return &HospitalProfileDAO{
		Logger: logger.With("dao", "hospitalProfile"),
		DB:     db,
	}
}

func (dao *HospitalProfileDAO) selectProfiles() squirrel.SelectBuilder {
	return dao.Builder.
		Select(
			"id", "user_id", "hospital_name", "license_number",
			"address", "city", "state", "zip_code", "country",
			"phone", "website", "departments", "bed_count", "is_verified",
		).
		From("hospital_profiles")
}

func (dao *HospitalProfileDAO) Find(ctx context.Context, filter model.HospitalFilter, opts model.FindOptions) ([]model.HospitalProfile, error) {
	logger := dao.Logger.With("query", "find")

	b := dao.selectProfiles().Where(squirrel.Eq{"is_verified": true})
	if filter.Department != nil {
		b = b.Where(squirrel.Expr("? = ANY(departments)", *filter.Department))
	}
	if filter.City != nil {
		b = b.Where(squirrel.Eq{"city": *filter.City})
	}
	if filter.State != nil {
		b = b.Where(squirrel.Eq{"state": *filter.State})
	}
	if filter.Search != "" {
		pattern := contains(filter.Search)
		b = b.Where(squirrel.Or{
			squirrel.ILike{"hospital_name": pattern},
			squirrel.ILike{"city": pattern},
			squirrel.ILike{"state": pattern},
		})
	}
	b = orderBy(b, filter.OrderBy, _hospitalOrderColumns, "id")

	return selectMany[model.HospitalProfile](ctx, dao.DB, logger, paginate(b, opts))
}

func (dao *HospitalProfileDAO) GetByUser(ctx context.Context, userID model.ID) (model.HospitalProfile, error) {
	logger := dao.Logger.With("query", "getByUser")

	b := dao.selectProfiles().Where(squirrel.Eq{"user_id": userID})

	return selectOne[model.HospitalProfile](ctx, dao.DB, logger, _hospitalProfileEntity, b)
}

func (dao *HospitalProfileDAO) Insert(ctx context.Context, dto model.InsertHospitalProfileDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	b := dao.Builder.
		Insert("hospital_profiles").
		Columns(
			"user_id", "hospital_name", "license_number",
			"address", "city", "state", "zip_code", "country",
			"phone", "website", "departments", "bed_count",
		).
		Values(
			dto.UserID, dto.HospitalName, dto.LicenseNumber,
			dto.Address, dto.City, dto.State, dto.ZipCode, dto.Country,
			dto.Phone, dto.Website, pq.Array(dto.Departments), dto.BedCount,
		)

	return insertReturningID(ctx, dao.DB, logger, _hospitalProfileEntity, b)
}

func (dao *HospitalProfileDAO) Update(ctx context.Context, userID model.ID, dto model.UpdateHospitalProfileDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 11)
	setIfPresent(data, "hospital_name", dto.HospitalName)
	setIfPresent(data, "license_number", dto.LicenseNumber)
	setIfPresent(data, "address", dto.Address)
	setIfPresent(data, "city", dto.City)
	setIfPresent(data, "state", dto.State)
	setIfPresent(data, "zip_code", dto.ZipCode)
	setIfPresent(data, "country", dto.Country)
	setIfPresent(data, "phone", dto.Phone)
	setIfPresent(data, "website", dto.Website)
	if dto.Departments != nil {
		data["departments"] = pq.Array(*dto.Departments)
	}
	setIfPresent(data, "bed_count", dto.BedCount)

	if len(data) == 0 {
		_, err := dao.GetByUser(ctx, userID)
		return err
	}

	b := dao.Builder.
		Update("hospital_profiles").
		SetMap(data).
		Where(squirrel.Eq{"user_id": userID})

	return execAffected(ctx, dao.DB, logger, _hospitalProfileEntity, b)
}

// Verify marks the hospital as verified; administrative action only.
func (dao *HospitalProfileDAO) Verify(ctx context.Context, userID model.ID) error {
	logger := dao.Logger.With("query", "verify")

	b := dao.Builder.
		Update("hospital_profiles").
		Set("is_verified", true).
		Where(squirrel.Eq{"user_id": userID})

	return execAffected(ctx, dao.DB, logger, _hospitalProfileEntity, b)
}
