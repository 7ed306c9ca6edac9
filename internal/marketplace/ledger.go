package marketplace

import (
	"context"
	"log/slog"
	"strings"

	"github.com/protomem/medicall/internal/model"
)

// Ledger records peer reviews after a shift. Profile rating aggregates are
// not recomputed here.
type Ledger struct {
	logger  *slog.Logger
	reviews ReviewStore
}

func NewLedger(logger *slog.Logger, reviews ReviewStore) *Ledger {
	return &Ledger{
		logger:  logger.With("service", "ledger"),
		reviews: reviews,
	}
}

func reviewerScope(caller model.Caller) model.Scope {
	return model.OwnedBy(model.OwnerReviewer, caller.ID)
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return model.NewValidationError("rating must be between 1 and 5")
	}
	return nil
}

// Create fails with ErrExists when the caller already reviewed the same
// user for the same shift.
func (l *Ledger) Create(ctx context.Context, caller model.Caller, dto model.InsertReviewDTO) (model.ShiftReview, error) {
	if err := validateRating(dto.Rating); err != nil {
		return model.ShiftReview{}, err
	}
	if strings.TrimSpace(dto.Comment) == "" {
		return model.ShiftReview{}, model.NewValidationError("comment must not be blank")
	}
	if dto.ReviewedUserID == caller.ID {
		return model.ShiftReview{}, model.NewValidationError("you cannot review yourself")
	}

	dto.ReviewerID = caller.ID

	id, err := l.reviews.Insert(ctx, dto)
	if err != nil {
		return model.ShiftReview{}, err
	}

	l.logger.Info("review recorded", "reviewId", id, "shiftId", dto.ShiftID, "reviewerId", caller.ID)

	return l.reviews.Get(ctx, id, reviewerScope(caller))
}

func (l *Ledger) ListMine(ctx context.Context, caller model.Caller, filter model.ReviewFilter, opts model.FindOptions) ([]model.ShiftReview, error) {
	filter.Scope = reviewerScope(caller)
	return l.reviews.Find(ctx, filter, opts)
}

func (l *Ledger) GetMine(ctx context.Context, caller model.Caller, id model.ID) (model.ShiftReview, error) {
	return l.reviews.Get(ctx, id, reviewerScope(caller))
}

func (l *Ledger) UpdateMine(ctx context.Context, caller model.Caller, id model.ID, dto model.UpdateReviewDTO) (model.ShiftReview, error) {
	if dto.Rating != nil {
		if err := validateRating(*dto.Rating); err != nil {
			return model.ShiftReview{}, err
		}
	}
	if dto.Comment != nil && strings.TrimSpace(*dto.Comment) == "" {
		return model.ShiftReview{}, model.NewValidationError("comment must not be blank")
	}

	if _, err := l.reviews.Get(ctx, id, reviewerScope(caller)); err != nil {
		return model.ShiftReview{}, err
	}
	if err := l.reviews.Update(ctx, id, dto); err != nil {
		return model.ShiftReview{}, err
	}

	return l.reviews.Get(ctx, id, reviewerScope(caller))
}

func (l *Ledger) DeleteMine(ctx context.Context, caller model.Caller, id model.ID) error {
	if _, err := l.reviews.Get(ctx, id, reviewerScope(caller)); err != nil {
		return err
	}
	return l.reviews.Delete(ctx, id)
}
