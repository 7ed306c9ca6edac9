package marketplace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/protomem/medicall/internal/model"
	"github.com/shopspring/decimal"
)

// Workflow carries applications through pending -> approved|rejected|withdrawn.
type Workflow struct {
	logger       *slog.Logger
	shifts       ShiftStore
	applications ApplicationStore
	notifier     Notifier
}

func NewWorkflow(logger *slog.Logger, shifts ShiftStore, applications ApplicationStore, notifier Notifier) *Workflow {
	return &Workflow{
		logger:       logger.With("service", "workflow"),
		shifts:       shifts,
		applications: applications,
		notifier:     notifier,
	}
}

func workerScope(caller model.Caller) model.Scope {
	return model.OwnedBy(model.OwnerWorker, caller.ID)
}

type ApplyInput struct {
	ShiftID      model.ID
	CoverLetter  string
	ProposedRate decimal.NullDecimal
}

// Apply creates a pending application. A second application for the same
// shift by the same worker fails with ErrExists whatever the first one's status.
func (wf *Workflow) Apply(ctx context.Context, caller model.Caller, in ApplyInput) (model.Application, error) {
	if !caller.Can(model.CapApplyToShifts) {
		return model.Application{}, forbidden("application")
	}
	if in.ProposedRate.Valid {
		if err := model.CheckAmount("proposedRate", in.ProposedRate.Decimal); err != nil {
			return model.Application{}, err
		}
	}

	shift, err := wf.shifts.Get(ctx, in.ShiftID, model.Unscoped())
	if err != nil {
		return model.Application{}, err
	}

	id, err := wf.applications.Insert(ctx, model.InsertApplicationDTO{
		ShiftID:      shift.ID,
		WorkerID:     caller.ID,
		CoverLetter:  in.CoverLetter,
		ProposedRate: in.ProposedRate,
	})
	if err != nil {
		return model.Application{}, err
	}

	app, err := wf.applications.Get(ctx, id, model.Unscoped())
	if err != nil {
		return model.Application{}, err
	}

	wf.logger.Info("application submitted", "applicationId", app.ID, "shiftId", shift.ID, "workerId", caller.ID)

	wf.notify(ctx, model.InsertNotificationDTO{
		RecipientID:          shift.HospitalID,
		SenderID:             &caller.ID,
		Type:                 model.NotificationApplicationReceived,
		Title:                "New application received",
		Message:              fmt.Sprintf("%s applied for %s on %s.", app.WorkerUsername, shift.Position, shift.Date),
		RelatedShiftID:       &shift.ID,
		RelatedApplicationID: &app.ID,
	})

	return app, nil
}

func (wf *Workflow) ListMine(ctx context.Context, caller model.Caller, filter model.ApplicationFilter, opts model.FindOptions) ([]model.Application, error) {
	filter.Scope = workerScope(caller)
	return wf.applications.Find(ctx, filter, opts)
}

func (wf *Workflow) GetMine(ctx context.Context, caller model.Caller, id model.ID) (model.Application, error) {
	return wf.applications.Get(ctx, id, workerScope(caller))
}

// UpdateMine edits cover letter or proposed rate while the application is pending.
func (wf *Workflow) UpdateMine(ctx context.Context, caller model.Caller, id model.ID, dto model.UpdateApplicationDTO) (model.Application, error) {
	app, err := wf.applications.Get(ctx, id, workerScope(caller))
	if err != nil {
		return model.Application{}, err
	}
	if app.Status != model.ApplicationPending {
		return model.Application{}, model.NewValidationError("only pending applications can be edited")
	}
	if dto.ProposedRate != nil {
		if err := model.CheckAmount("proposedRate", *dto.ProposedRate); err != nil {
			return model.Application{}, err
		}
	}

	if err := wf.applications.Update(ctx, id, dto); err != nil {
		return model.Application{}, err
	}

	return wf.applications.Get(ctx, id, workerScope(caller))
}

func (wf *Workflow) DeleteMine(ctx context.Context, caller model.Caller, id model.ID) error {
	if _, err := wf.applications.Get(ctx, id, workerScope(caller)); err != nil {
		return err
	}
	return wf.applications.Delete(ctx, id)
}

func (wf *Workflow) Withdraw(ctx context.Context, caller model.Caller, id model.ID) (model.Application, error) {
	app, err := wf.applications.Get(ctx, id, workerScope(caller))
	if err != nil {
		return model.Application{}, err
	}
	return wf.transition(ctx, caller, app, model.ApplicationWithdrawn, workerScope(caller))
}

// ListForShift returns applications for one of the caller's shifts; any
// other shift yields an empty list.
func (wf *Workflow) ListForShift(ctx context.Context, caller model.Caller, shiftID model.ID, opts model.FindOptions) ([]model.Application, error) {
	filter := model.ApplicationFilter{
		Scope:   scopeFor(caller, model.CapReviewApplications, model.OwnerHospital),
		ShiftID: &shiftID,
	}
	return wf.applications.Find(ctx, filter, opts)
}

// ListAllForHospital returns applications across all of the caller's
// shifts; non-hospital callers get an empty list.
func (wf *Workflow) ListAllForHospital(ctx context.Context, caller model.Caller, filter model.ApplicationFilter, opts model.FindOptions) ([]model.Application, error) {
	filter.Scope = scopeFor(caller, model.CapReviewApplications, model.OwnerHospital)
	return wf.applications.Find(ctx, filter, opts)
}

// UpdateStatus accepts only approved or rejected. Applications on shifts
// the caller does not own are not found.
func (wf *Workflow) UpdateStatus(ctx context.Context, caller model.Caller, id model.ID, status string) (model.Application, error) {
	to, err := model.ParseApplicationStatus(status)
	if err != nil || !model.IsHospitalDecision(to) {
		return model.Application{}, model.NewValidationError("invalid status %q: want approved or rejected", status)
	}

	scope := scopeFor(caller, model.CapReviewApplications, model.OwnerHospital)

	app, err := wf.applications.Get(ctx, id, scope)
	if err != nil {
		return model.Application{}, err
	}

	return wf.transition(ctx, caller, app, to, scope)
}

// Approve differs from UpdateStatus only in rejecting non-hospital callers outright.
func (wf *Workflow) Approve(ctx context.Context, caller model.Caller, id model.ID) (model.Application, error) {
	if !caller.Can(model.CapReviewApplications) {
		return model.Application{}, forbidden("application")
	}
	return wf.UpdateStatus(ctx, caller, id, string(model.ApplicationApproved))
}

func (wf *Workflow) Reject(ctx context.Context, caller model.Caller, id model.ID) (model.Application, error) {
	if !caller.Can(model.CapReviewApplications) {
		return model.Application{}, forbidden("application")
	}
	return wf.UpdateStatus(ctx, caller, id, string(model.ApplicationRejected))
}

func (wf *Workflow) transition(
	ctx context.Context,
	caller model.Caller,
	app model.Application,
	to model.ApplicationStatus,
	scope model.Scope,
) (model.Application, error) {
	logger := wf.logger.With("applicationId", app.ID, "from", app.Status, "to", to)

	if app.Status == to {
		if to == model.ApplicationApproved {
			if err := wf.fill(ctx, app.ShiftID); err != nil {
				return model.Application{}, err
			}
		}
		return app, nil
	}

	if !model.IsApplicationTransitionAllowed(app.Status, to) {
		return model.Application{}, model.NewValidationError("application is %s and cannot become %s", app.Status, to)
	}

	ok, err := wf.applications.SetStatus(ctx, app.ID, app.Status, to)
	if err != nil {
		return model.Application{}, err
	}

	updated, err := wf.applications.Get(ctx, app.ID, scope)
	if err != nil {
		return model.Application{}, err
	}

	if !ok {
		// Lost a race with another status change.
		if updated.Status == to {
			return updated, nil
		}
		return model.Application{}, model.NewValidationError("application is %s and cannot become %s", updated.Status, to)
	}

	logger.Info("application status changed")

	switch to {
	case model.ApplicationApproved:
		if err := wf.fill(ctx, app.ShiftID); err != nil {
			return model.Application{}, err
		}
		wf.notify(ctx, model.InsertNotificationDTO{
			RecipientID:          app.WorkerID,
			SenderID:             &caller.ID,
			Type:                 model.NotificationApplicationApproved,
			Title:                "Application approved",
			Message:              fmt.Sprintf("Your application for %s on %s was approved.", app.ShiftRole, app.ShiftDate),
			RelatedShiftID:       &app.ShiftID,
			RelatedApplicationID: &app.ID,
		})
	case model.ApplicationRejected:
		wf.notify(ctx, model.InsertNotificationDTO{
			RecipientID:          app.WorkerID,
			SenderID:             &caller.ID,
			Type:                 model.NotificationApplicationRejected,
			Title:                "Application rejected",
			Message:              fmt.Sprintf("Your application for %s on %s was not accepted.", app.ShiftRole, app.ShiftDate),
			RelatedShiftID:       &app.ShiftID,
			RelatedApplicationID: &app.ID,
		})
	}

	return updated, nil
}

// fill never reverts a filled shift. On failure the approval stays stored
// and approving again retries the fill.
func (wf *Workflow) fill(ctx context.Context, shiftID model.ID) error {
	filled, err := wf.shifts.FillIfApproved(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("fill shift %d: %w", shiftID, err)
	}
	if filled {
		wf.logger.Info("shift filled", "shiftId", shiftID)
	}
	return nil
}

func (wf *Workflow) notify(ctx context.Context, dto model.InsertNotificationDTO) {
	if wf.notifier == nil {
		return
	}
	if _, err := wf.notifier.Deliver(ctx, dto); err != nil {
		wf.logger.Warn("failed to deliver notification", "type", dto.Type, "recipientId", dto.RecipientID, "error", err)
	}
}
