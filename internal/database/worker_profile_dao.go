package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/protomem/medicall/internal/model"
)

const _workerProfileEntity = "worker profile"

var _workerOrderColumns = map[string]string{
	"rating":          "wp.rating",
	"experienceYears": "wp.experience_years",
	"hourlyRate":      "wp.hourly_rate",
}

type WorkerProfileDAO struct {
	Logger *slog.Logger
	*DB
}

func NewWorkerProfileDAO(logger *slog.Logger, db *DB) *WorkerProfileDAO {
	return &WorkerProfileDAO{
		Logger: logger.With("dao", "workerProfile"),
		DB:     db,
	}
}

func (dao *WorkerProfileDAO) selectProfiles() squirrel.SelectBuilder {
	return dao.Builder.
		Select(
			"wp.id", "wp.user_id", "u.username", "u.first_name", "u.last_name",
			"wp.license_number", "wp.specialties", "wp.experience_years", "wp.certifications",
			"wp.availability", "wp.hourly_rate", "wp.rating", "wp.total_reviews",
			"wp.is_available", "wp.country",
		).
		From("worker_profiles wp").
		Join("users u ON u.id = wp.user_id")
}

func (dao *WorkerProfileDAO) Find(ctx context.Context, filter model.WorkerFilter, opts model.FindOptions) ([]model.WorkerProfile, error) {
	logger := dao.Logger.With("query", "find")

	b := dao.selectProfiles().Where(squirrel.Eq{"wp.is_available": true})
	if filter.Specialty != nil {
		b = b.Where(squirrel.Expr("? = ANY(wp.specialties)", *filter.Specialty))
	}
	if filter.ExperienceYears != nil {
		b = b.Where(squirrel.Eq{"wp.experience_years": *filter.ExperienceYears})
	}
	if filter.MinRating != nil {
		b = b.Where(squirrel.GtOrEq{"wp.rating": *filter.MinRating})
	}
	if filter.Search != "" {
		pattern := contains(filter.Search)
		b = b.Where(squirrel.Or{
			squirrel.ILike{"u.username": pattern},
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
		})
	}
	b = orderBy(b, filter.OrderBy, _workerOrderColumns, "wp.id")

	return selectMany[model.WorkerProfile](ctx, dao.DB, logger, paginate(b, opts))
}

func (dao *WorkerProfileDAO) GetByUser(ctx context.Context, userID model.ID) (model.WorkerProfile, error) {
	logger := dao.Logger.With("query", "getByUser")

	b := dao.selectProfiles().Where(squirrel.Eq{"wp.user_id": userID})

	return selectOne[model.WorkerProfile](ctx, dao.DB, logger, _workerProfileEntity, b)
}

func (dao *WorkerProfileDAO) Insert(ctx context.Context, dto model.InsertWorkerProfileDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	b := dao.Builder.
		Insert("worker_profiles").
		Columns(
			"user_id", "license_number", "specialties", "experience_years",
			"certifications", "availability", "hourly_rate", "country",
		).
		Values(
			dto.UserID, dto.LicenseNumber, pq.Array(dto.Specialties), dto.ExperienceYears,
			pq.Array(dto.Certifications), dto.Availability, dto.HourlyRate, dto.Country,
		)

	return insertReturningID(ctx, dao.DB, logger, _workerProfileEntity, b)
}

func (dao *WorkerProfileDAO) Update(ctx context.Context, userID model.ID, dto model.UpdateWorkerProfileDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 8)
	setIfPresent(data, "license_number", dto.LicenseNumber)
	if dto.Specialties != nil {
		data["specialties"] = pq.Array(*dto.Specialties)
	}
	setIfPresent(data, "experience_years", dto.ExperienceYears)
	if dto.Certifications != nil {
		data["certifications"] = pq.Array(*dto.Certifications)
	}
	setIfPresent(data, "availability", dto.Availability)
	setIfPresent(data, "hourly_rate", dto.HourlyRate)
	setIfPresent(data, "is_available", dto.IsAvailable)
	setIfPresent(data, "country", dto.Country)

	if len(data) == 0 {
		_, err := dao.GetByUser(ctx, userID)
		return err
	}

	b := dao.Builder.
		Update("worker_profiles").
		SetMap(data).
		Where(squirrel.Eq{"user_id": userID})

	return execAffected(ctx, dao.DB, logger, _workerProfileEntity, b)
}
