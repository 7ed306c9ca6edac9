package marketplace

import (
	"context"
	"log/slog"
	"strings"

	"github.com/protomem/medicall/internal/model"
	"github.com/shopspring/decimal"
)

const (
	_defaultMaxApplicants = 10
)

var _maxDuration = decimal.RequireFromString("99.99")

// Catalog manages hospital-owned shift postings.
type Catalog struct {
	logger *slog.Logger
	shifts ShiftStore
}

func NewCatalog(logger *slog.Logger, shifts ShiftStore) *Catalog {
	return &Catalog{
		logger: logger.With("service", "catalog"),
		shifts: shifts,
	}
}

func (c *Catalog) Create(ctx context.Context, caller model.Caller, dto model.InsertShiftDTO) (model.Shift, error) {
	if !caller.Can(model.CapPostShifts) {
		return model.Shift{}, forbidden("shift")
	}

	if dto.Urgency == "" {
		dto.Urgency = model.UrgencyMedium
	}
	if dto.MaxApplicants == 0 {
		dto.MaxApplicants = _defaultMaxApplicants
	}
	if err := normalizeShift(&dto); err != nil {
		return model.Shift{}, err
	}
	dto.HospitalID = caller.ID

	id, err := c.shifts.Insert(ctx, dto)
	if err != nil {
		return model.Shift{}, err
	}

	c.logger.Info("shift posted", "shiftId", id, "hospitalId", caller.ID)

	return c.shifts.Get(ctx, id, model.Unscoped())
}

func normalizeShift(dto *model.InsertShiftDTO) error {
	for field, value := range map[string]string{
		"department":   dto.Department,
		"role":         dto.Position,
		"requirements": dto.Requirements,
		"location":     dto.Location,
	} {
		if strings.TrimSpace(value) == "" {
			return model.NewValidationError("%s must not be blank", field)
		}
	}
	if dto.Date.IsZero() {
		return model.NewValidationError("date is required")
	}

	var err error
	if dto.StartTime, err = model.ParseClock(dto.StartTime); err != nil {
		return model.NewValidationError("startTime: %s", err.Error())
	}
	if dto.EndTime, err = model.ParseClock(dto.EndTime); err != nil {
		return model.NewValidationError("endTime: %s", err.Error())
	}

	return validateShiftNumbers(&dto.DurationHours, &dto.PayPerHour, &dto.Urgency, &dto.MaxApplicants)
}

func validateShiftNumbers(duration, pay *decimal.Decimal, urgency *model.Urgency, maxApplicants *int) error {
	if duration != nil && (!duration.IsPositive() || duration.GreaterThan(_maxDuration)) {
		return model.NewValidationError("durationHours must be greater than 0 and at most %s", _maxDuration)
	}
	if pay != nil {
		if err := model.CheckAmount("payPerHour", *pay); err != nil {
			return err
		}
	}
	if urgency != nil {
		if _, err := model.ParseUrgency(string(*urgency)); err != nil {
			return model.NewValidationError("%s", err.Error())
		}
	}
	if maxApplicants != nil && *maxApplicants <= 0 {
		return model.NewValidationError("maxApplicants must be positive")
	}
	return nil
}

// List returns every shift matching filter.
func (c *Catalog) List(ctx context.Context, filter model.ShiftFilter, opts model.FindOptions) ([]model.Shift, error) {
	filter.Scope = model.Unscoped()
	filter.NotAppliedBy = nil
	return c.shifts.Find(ctx, filter, opts)
}

// ListForWorker returns active shifts the caller has not applied to,
// whatever the state of that application.
func (c *Catalog) ListForWorker(ctx context.Context, caller model.Caller, filter model.ShiftFilter, opts model.FindOptions) ([]model.Shift, error) {
	active := model.ShiftActive
	filter.Scope = model.Unscoped()
	filter.Status = &active
	filter.NotAppliedBy = &caller.ID
	return c.shifts.Find(ctx, filter, opts)
}

// ListForHospital returns the caller's own shifts; non-hospitals get none.
func (c *Catalog) ListForHospital(ctx context.Context, caller model.Caller, filter model.ShiftFilter, opts model.FindOptions) ([]model.Shift, error) {
	filter.Scope = scopeFor(caller, model.CapPostShifts, model.OwnerHospital)
	filter.NotAppliedBy = nil
	return c.shifts.Find(ctx, filter, opts)
}

// ExportForHospital collects all of the caller's shifts for a report.
func (c *Catalog) ExportForHospital(ctx context.Context, caller model.Caller) ([]model.Shift, error) {
	if !caller.Can(model.CapPostShifts) {
		return nil, forbidden("shift")
	}

	filter := model.ShiftFilter{
		Scope:   model.OwnedBy(model.OwnerHospital, caller.ID),
		OrderBy: model.Ordering{Field: "date"},
	}

	all := make([]model.Shift, 0)
	for offset := 0; ; offset += model.MaxLimit {
		page, err := c.shifts.Find(ctx, filter, model.NewFindOptions(model.MaxLimit, offset))
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < model.MaxLimit {
			return all, nil
		}
	}
}

// Get, Update and Delete are open to any authenticated caller.
func (c *Catalog) Get(ctx context.Context, id model.ID) (model.Shift, error) {
	return c.shifts.Get(ctx, id, model.Unscoped())
}

func (c *Catalog) Update(ctx context.Context, caller model.Caller, id model.ID, dto model.UpdateShiftDTO) (model.Shift, error) {
	for field, value := range map[string]*string{
		"department":   dto.Department,
		"role":         dto.Position,
		"requirements": dto.Requirements,
		"location":     dto.Location,
	} {
		if value != nil && strings.TrimSpace(*value) == "" {
			return model.Shift{}, model.NewValidationError("%s must not be blank", field)
		}
	}
	for field, value := range map[string]*string{"startTime": dto.StartTime, "endTime": dto.EndTime} {
		if value == nil {
			continue
		}
		clock, err := model.ParseClock(*value)
		if err != nil {
			return model.Shift{}, model.NewValidationError("%s: %s", field, err.Error())
		}
		*value = clock
	}
	if dto.Status != nil {
		if _, err := model.ParseShiftStatus(string(*dto.Status)); err != nil {
			return model.Shift{}, model.NewValidationError("%s", err.Error())
		}
	}
	if err := validateShiftNumbers(dto.DurationHours, dto.PayPerHour, dto.Urgency, dto.MaxApplicants); err != nil {
		return model.Shift{}, err
	}

	if err := c.shifts.Update(ctx, id, dto); err != nil {
		return model.Shift{}, err
	}

	c.logger.Debug("shift updated", "shiftId", id, "callerId", caller.ID)

	return c.shifts.Get(ctx, id, model.Unscoped())
}

func (c *Catalog) Delete(ctx context.Context, caller model.Caller, id model.ID) error {
	if err := c.shifts.Delete(ctx, id); err != nil {
		return err
	}

	c.logger.Info("shift deleted", "shiftId", id, "callerId", caller.ID)

	return nil
}
