package marketplace

import (
	"context"

	"github.com/protomem/medicall/internal/model"
)

type ShiftStore interface {
	Find(ctx context.Context, filter model.ShiftFilter, opts model.FindOptions) ([]model.Shift, error)
	Get(ctx context.Context, id model.ID, scope model.Scope) (model.Shift, error)
	Insert(ctx context.Context, dto model.InsertShiftDTO) (model.ID, error)
	Update(ctx context.Context, id model.ID, dto model.UpdateShiftDTO) error
	Delete(ctx context.Context, id model.ID) error
	// FillIfApproved moves an active shift with an approved application to filled.
	FillIfApproved(ctx context.Context, id model.ID) (bool, error)
}

type ApplicationStore interface {
	Find(ctx context.Context, filter model.ApplicationFilter, opts model.FindOptions) ([]model.Application, error)
	Get(ctx context.Context, id model.ID, scope model.Scope) (model.Application, error)
	Insert(ctx context.Context, dto model.InsertApplicationDTO) (model.ID, error)
	Update(ctx context.Context, id model.ID, dto model.UpdateApplicationDTO) error
	// SetStatus is a compare-and-set; false means the status was no longer from.
	SetStatus(ctx context.Context, id model.ID, from, to model.ApplicationStatus) (bool, error)
	Delete(ctx context.Context, id model.ID) error
}

type ReviewStore interface {
	Find(ctx context.Context, filter model.ReviewFilter, opts model.FindOptions) ([]model.ShiftReview, error)
	Get(ctx context.Context, id model.ID, scope model.Scope) (model.ShiftReview, error)
	Insert(ctx context.Context, dto model.InsertReviewDTO) (model.ID, error)
	Update(ctx context.Context, id model.ID, dto model.UpdateReviewDTO) error
	Delete(ctx context.Context, id model.ID) error
}

type Notifier interface {
	Deliver(ctx context.Context, dto model.InsertNotificationDTO) (model.Notification, error)
}
