package database

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/protomem/medicall/internal/model"
)

const _reviewEntity = "review"

var _reviewOrderColumns = map[string]string{
	"createdAt": "r.created_at",
	"rating":    "r.rating",
}

type ReviewDAO struct {
	Logger *slog.Logger
	*DB
}

func NewReviewDAO(logger *slog.Logger, db *DB) *ReviewDAO {
	return &ReviewDAO{
		Logger: logger.With("dao", "review"),
		DB:     db,
	}
}

func (dao *ReviewDAO) selectReviews() squirrel.SelectBuilder {
	return dao.Builder.
		Select(
			"r.id", "r.created_at", "r.shift_id", "r.reviewer_id",
			"r.reviewed_user_id", "r.rating", "r.comment",
		).
		From("shift_reviews r")
}

func (dao *ReviewDAO) Find(ctx context.Context, filter model.ReviewFilter, opts model.FindOptions) ([]model.ShiftReview, error) {
	logger := dao.Logger.With("query", "find")

	b := applyScope(dao.selectReviews(), filter.Scope, reviewOwners)
	if filter.ShiftID != nil {
		b = b.Where(squirrel.Eq{"r.shift_id": *filter.ShiftID})
	}
	if filter.ReviewedUserID != nil {
		b = b.Where(squirrel.Eq{"r.reviewed_user_id": *filter.ReviewedUserID})
	}

	ordering := filter.OrderBy
	if ordering.Field == "" {
		ordering = model.Ordering{Field: "createdAt", Desc: true}
	}
	b = orderBy(b, ordering, _reviewOrderColumns, "r.id DESC")

	return selectMany[model.ShiftReview](ctx, dao.DB, logger, paginate(b, opts))
}

func (dao *ReviewDAO) Get(ctx context.Context, id model.ID, scope model.Scope) (model.ShiftReview, error) {
	logger := dao.Logger.With("query", "get")

	b := applyScope(dao.selectReviews(), scope, reviewOwners).Where(squirrel.Eq{"r.id": id})

	return selectOne[model.ShiftReview](ctx, dao.DB, logger, _reviewEntity, b)
}

func (dao *ReviewDAO) Insert(ctx context.Context, dto model.InsertReviewDTO) (model.ID, error) {
	logger := dao.Logger.With("query", "insert")

	b := dao.Builder.
		Insert("shift_reviews").
		Columns("shift_id", "reviewer_id", "reviewed_user_id", "rating", "comment").
		Values(dto.ShiftID, dto.ReviewerID, dto.ReviewedUserID, dto.Rating, dto.Comment)

	return insertReturningID(ctx, dao.DB, logger, _reviewEntity, b)
}

func (dao *ReviewDAO) Update(ctx context.Context, id model.ID, dto model.UpdateReviewDTO) error {
	logger := dao.Logger.With("query", "update")

	data := make(map[string]any, 2)
	setIfPresent(data, "rating", dto.Rating)
	setIfPresent(data, "comment", dto.Comment)

	if len(data) == 0 {
		_, err := dao.Get(ctx, id, model.Unscoped())
		return err
	}

	b := dao.Builder.
		Update("shift_reviews").
		SetMap(data).
		Where(squirrel.Eq{"id": id})

	return execAffected(ctx, dao.DB, logger, _reviewEntity, b)
}

func (dao *ReviewDAO) Delete(ctx context.Context, id model.ID) error {
	logger := dao.Logger.With("query", "delete")

	b := dao.Builder.
		Delete("shift_reviews").
		Where(squirrel.Eq{"id": id})

	return execAffected(ctx, dao.DB, logger, _reviewEntity, b)
}
