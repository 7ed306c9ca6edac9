package memstore

import (
	"context"

	"github.com/protomem/medicall/internal/model"
)

type ReviewStore struct{ s *Store }

var reviewOrderings = map[string]func(a, b model.ShiftReview) int{
	"createdAt": func(a, b model.ShiftReview) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"rating":    func(a, b model.ShiftReview) int { return a.Rating - b.Rating },
}

func reviewOwner(r model.ShiftReview) func(model.Ownership) model.ID {
	return func(o model.Ownership) model.ID {
		if o == model.OwnerReviewer {
			return r.ReviewerID
		}
		return 0
	}
}

func (rs *ReviewStore) Find(_ context.Context, filter model.ReviewFilter, opts model.FindOptions) ([]model.ShiftReview, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	items := make([]model.ShiftReview, 0)
	for _, r := range rs.s.reviews {
		if !filter.Scope.Admits(reviewOwner(r)) {
			continue
		}
		if filter.ShiftID != nil && r.ShiftID != *filter.ShiftID {
			continue
		}
		if filter.ReviewedUserID != nil && r.ReviewedUserID != *filter.ReviewedUserID {
			continue
		}
		items = append(items, r)
	}

	ordering := filter.OrderBy
	if ordering.Field == "" {
		ordering = model.Ordering{Field: "createdAt", Desc: true}
	}
	sortBy(items, ordering, reviewOrderings, func(a, b model.ShiftReview) int {
		return compareIDs(b.ID, a.ID)
	})

	return paginate(items, opts), nil
}

func (rs *ReviewStore) Get(_ context.Context, id model.ID, scope model.Scope) (model.ShiftReview, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	r, ok := rs.s.reviews[id]
	if !ok || !scope.Admits(reviewOwner(r)) {
		return model.ShiftReview{}, model.NewError("review", model.ErrNotFound)
	}
	return r, nil
}

func (rs *ReviewStore) Insert(_ context.Context, dto model.InsertReviewDTO) (model.ID, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	if _, ok := rs.s.shifts[dto.ShiftID]; !ok {
		return 0, model.NewError("review", model.ErrNotFound)
	}
	if _, ok := rs.s.users[dto.ReviewedUserID]; !ok {
		return 0, model.NewError("review", model.ErrNotFound)
	}
	for _, r := range rs.s.reviews {
		if r.ShiftID == dto.ShiftID && r.ReviewerID == dto.ReviewerID && r.ReviewedUserID == dto.ReviewedUserID {
			return 0, model.NewError("review", model.ErrExists)
		}
	}

	r := model.ShiftReview{
		ID:             rs.s.next("shift_reviews"),
		CreatedAt:      rs.s.now(),
		ShiftID:        dto.ShiftID,
		ReviewerID:     dto.ReviewerID,
		ReviewedUserID: dto.ReviewedUserID,
		Rating:         dto.Rating,
		Comment:        dto.Comment,
	}
	rs.s.reviews[r.ID] = r

	return r.ID, nil
}

func (rs *ReviewStore) Update(_ context.Context, id model.ID, dto model.UpdateReviewDTO) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	r, ok := rs.s.reviews[id]
	if !ok {
		return model.NewError("review", model.ErrNotFound)
	}
	setIfPresent(&r.Rating, dto.Rating)
	setIfPresent(&r.Comment, dto.Comment)
	rs.s.reviews[id] = r

	return nil
}

func (rs *ReviewStore) Delete(_ context.Context, id model.ID) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	if _, ok := rs.s.reviews[id]; !ok {
		return model.NewError("review", model.ErrNotFound)
	}
	delete(rs.s.reviews, id)

	return nil
}
