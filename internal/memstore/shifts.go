package memstore

import (
	"context"

	"github.com/protomem/medicall/internal/model"
)

type ShiftStore struct{ s *Store }

var shiftOrderings = map[string]func(a, b model.Shift) int{
	"date":       func(a, b model.Shift) int { return a.Date.Compare(b.Date.Time) },
	"payPerHour": func(a, b model.Shift) int { return a.PayPerHour.Cmp(b.PayPerHour) },
	"createdAt":  func(a, b model.Shift) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func shiftOwner(sh model.Shift) func(model.Ownership) model.ID {
	return func(o model.Ownership) model.ID {
		if o == model.OwnerHospital {
			return sh.HospitalID
		}
		return 0
	}
}

func (st *ShiftStore) Find(_ context.Context, filter model.ShiftFilter, opts model.FindOptions) ([]model.Shift, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	items := make([]model.Shift, 0)
	for _, sh := range st.s.shifts {
		if !filter.Scope.Admits(shiftOwner(sh)) {
			continue
		}
		if filter.Status != nil && sh.Status != *filter.Status {
			continue
		}
		if filter.Department != nil && sh.Department != *filter.Department {
			continue
		}
		if filter.Urgency != nil && sh.Urgency != *filter.Urgency {
			continue
		}
		if filter.Date != nil && !sh.Date.Equal(filter.Date.Time) {
			continue
		}
		if filter.Location != nil && !containsFold(sh.Location, *filter.Location) {
			continue
		}
		if filter.Search != "" &&
			!containsFold(sh.Position, filter.Search) &&
			!containsFold(sh.Department, filter.Search) &&
			!containsFold(sh.Requirements, filter.Search) {
			continue
		}
		if filter.NotAppliedBy != nil && st.s.hasApplied(sh.ID, *filter.NotAppliedBy) {
			continue
		}
		items = append(items, st.s.derivedShift(sh))
	}

	sortBy(items, filter.OrderBy, shiftOrderings, func(a, b model.Shift) int {
		return compareIDs(b.ID, a.ID)
	})

	return paginate(items, opts), nil
}

func (st *ShiftStore) Get(_ context.Context, id model.ID, scope model.Scope) (model.Shift, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	sh, ok := st.s.shifts[id]
	if !ok || !scope.Admits(shiftOwner(sh)) {
		return model.Shift{}, model.NewError("shift", model.ErrNotFound)
	}
	return st.s.derivedShift(sh), nil
}

func (st *ShiftStore) Insert(_ context.Context, dto model.InsertShiftDTO) (model.ID, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if _, ok := st.s.users[dto.HospitalID]; !ok {
		return 0, model.NewError("shift", model.ErrNotFound)
	}

	now := st.s.now()
	sh := model.Shift{
		ID:            st.s.next("shifts"),
		CreatedAt:     now,
		UpdatedAt:     now,
		HospitalID:    dto.HospitalID,
		Department:    dto.Department,
		Position:      dto.Position,
		Date:          dto.Date,
		StartTime:     dto.StartTime,
		EndTime:       dto.EndTime,
		DurationHours: dto.DurationHours,
		PayPerHour:    dto.PayPerHour,
		Urgency:       dto.Urgency,
		Status:        model.ShiftActive,
		Requirements:  dto.Requirements,
		Location:      dto.Location,
		Description:   dto.Description,
		MaxApplicants: dto.MaxApplicants,
	}
	st.s.shifts[sh.ID] = sh

	return sh.ID, nil
}

func (st *ShiftStore) Update(_ context.Context, id model.ID, dto model.UpdateShiftDTO) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	sh, ok := st.s.shifts[id]
	if !ok {
		return model.NewError("shift", model.ErrNotFound)
	}

	setIfPresent(&sh.Department, dto.Department)
	setIfPresent(&sh.Position, dto.Position)
	setIfPresent(&sh.Date, dto.Date)
	setIfPresent(&sh.StartTime, dto.StartTime)
	setIfPresent(&sh.EndTime, dto.EndTime)
	setIfPresent(&sh.DurationHours, dto.DurationHours)
	setIfPresent(&sh.PayPerHour, dto.PayPerHour)
	setIfPresent(&sh.Urgency, dto.Urgency)
	setIfPresent(&sh.Status, dto.Status)
	setIfPresent(&sh.Requirements, dto.Requirements)
	setIfPresent(&sh.Location, dto.Location)
	setIfPresent(&sh.Description, dto.Description)
	setIfPresent(&sh.MaxApplicants, dto.MaxApplicants)
	sh.UpdatedAt = st.s.now()

	st.s.shifts[id] = sh

	return nil
}

// Delete cascades to the shift's applications, reviews and notifications.
func (st *ShiftStore) Delete(_ context.Context, id model.ID) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	if _, ok := st.s.shifts[id]; !ok {
		return model.NewError("shift", model.ErrNotFound)
	}
	delete(st.s.shifts, id)

	for aid, a := range st.s.applications {
		if a.ShiftID == id {
			st.s.deleteApplication(aid)
		}
	}
	for rid, r := range st.s.reviews {
		if r.ShiftID == id {
			delete(st.s.reviews, rid)
		}
	}
	for nid, n := range st.s.notifications {
		if n.RelatedShiftID != nil && *n.RelatedShiftID == id {
			delete(st.s.notifications, nid)
		}
	}

	return nil
}

func (st *ShiftStore) FillIfApproved(_ context.Context, id model.ID) (bool, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()

	sh, ok := st.s.shifts[id]
	if !ok || sh.Status != model.ShiftActive {
		return false, nil
	}

	for _, a := range st.s.applications {
		if a.ShiftID == id && a.Status == model.ApplicationApproved {
			sh.Status = model.ShiftFilled
			sh.UpdatedAt = st.s.now()
			st.s.shifts[id] = sh
			return true, nil
		}
	}

	return false, nil
}

// derivedShift must be called with mu held.
func (s *Store) derivedShift(sh model.Shift) model.Shift {
	sh.HospitalName = ""
	if u, ok := s.users[sh.HospitalID]; ok {
		sh.HospitalName = u.Username
	}
	if hp, ok := s.hospitals[sh.HospitalID]; ok {
		sh.HospitalName = hp.HospitalName
	}

	sh.ApplicantCount = 0
	for _, a := range s.applications {
		if a.ShiftID == sh.ID {
			sh.ApplicantCount++
		}
	}

	sh.Derive()
	return sh
}

// hasApplied must be called with mu held.
func (s *Store) hasApplied(shiftID, workerID model.ID) bool {
	for _, a := range s.applications {
		if a.ShiftID == shiftID && a.WorkerID == workerID {
			return true
		}
	}
	return false
}
