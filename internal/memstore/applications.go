package memstore

import (
	"context"
	"time"

	"github.com/protomem/medicall/internal/model"
)

type ApplicationStore struct{ s *Store }

var applicationOrderings = map[string]func(a, b model.Application) int{
	"createdAt": func(a, b model.Application) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

// applicationOwner must be called with mu held.
func (s *Store) applicationOwner(a model.Application) func(model.Ownership) model.ID {
	return func(o model.Ownership) model.ID {
		switch o {
		case model.OwnerWorker:
			return a.WorkerID
		case model.OwnerHospital:
			return s.shifts[a.ShiftID].HospitalID
		}
		return 0
	}
}

func (as *ApplicationStore) Find(_ context.Context, filter model.ApplicationFilter, opts model.FindOptions) ([]model.Application, error) {
	as.s.mu.RLock()
	defer as.s.mu.RUnlock()

	items := make([]model.Application, 0)
	for _, a := range as.s.applications {
		if !filter.Scope.Admits(as.s.applicationOwner(a)) {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.ShiftID != nil && a.ShiftID != *filter.ShiftID {
			continue
		}
		items = append(items, as.s.joinedApplication(a))
	}

	ordering := filter.OrderBy
	if ordering.Field == "" {
		ordering = model.Ordering{Field: "createdAt", Desc: true}
	}
	sortBy(items, ordering, applicationOrderings, func(a, b model.Application) int {
		return compareIDs(b.ID, a.ID)
	})

	return paginate(items, opts), nil
}

func (as *ApplicationStore) Get(_ context.Context, id model.ID, scope model.Scope) (model.Application, error) {
	as.s.mu.RLock()
	defer as.s.mu.RUnlock()

	a, ok := as.s.applications[id]
	if !ok || !scope.Admits(as.s.applicationOwner(a)) {
		return model.Application{}, model.NewError("application", model.ErrNotFound)
	}
	return as.s.joinedApplication(a), nil
}

func (as *ApplicationStore) Insert(_ context.Context, dto model.InsertApplicationDTO) (model.ID, error) {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	if _, ok := as.s.shifts[dto.ShiftID]; !ok {
		return 0, model.NewError("application", model.ErrNotFound)
	}
	if _, ok := as.s.users[dto.WorkerID]; !ok {
		return 0, model.NewError("application", model.ErrNotFound)
	}
	if as.s.hasApplied(dto.ShiftID, dto.WorkerID) {
		return 0, model.NewError("application", model.ErrExists)
	}

	now := as.s.now()
	a := model.Application{
		ID:           as.s.next("applications"),
		CreatedAt:    now,
		UpdatedAt:    now,
		ShiftID:      dto.ShiftID,
		WorkerID:     dto.WorkerID,
		Status:       model.ApplicationPending,
		CoverLetter:  dto.CoverLetter,
		ProposedRate: dto.ProposedRate,
	}
	as.s.applications[a.ID] = a

	return a.ID, nil
}

func (as *ApplicationStore) Update(_ context.Context, id model.ID, dto model.UpdateApplicationDTO) error {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	a, ok := as.s.applications[id]
	if !ok {
		return model.NewError("application", model.ErrNotFound)
	}

	setIfPresent(&a.CoverLetter, dto.CoverLetter)
	if dto.ProposedRate != nil {
		a.ProposedRate.Decimal = *dto.ProposedRate
		a.ProposedRate.Valid = true
	}
	a.UpdatedAt = as.s.now()

	as.s.applications[id] = a

	return nil
}

func (as *ApplicationStore) SetStatus(_ context.Context, id model.ID, from, to model.ApplicationStatus) (bool, error) {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	a, ok := as.s.applications[id]
	if !ok || a.Status != from {
		return false, nil
	}

	a.Status = to
	a.UpdatedAt = as.s.now()
	as.s.applications[id] = a

	return true, nil
}

func (as *ApplicationStore) Delete(_ context.Context, id model.ID) error {
	as.s.mu.Lock()
	defer as.s.mu.Unlock()

	if _, ok := as.s.applications[id]; !ok {
		return model.NewError("application", model.ErrNotFound)
	}
	as.s.deleteApplication(id)

	return nil
}

func (as *ApplicationStore) FindDueReminders(_ context.Context, from, to time.Time) ([]model.DueReminder, error) {
	as.s.mu.RLock()
	defer as.s.mu.RUnlock()

	items := make([]model.DueReminder, 0)
	for _, a := range as.s.applications {
		if a.Status != model.ApplicationApproved {
			continue
		}
		sh, ok := as.s.shifts[a.ShiftID]
		if !ok {
			continue
		}

		start, err := shiftStart(sh)
		if err != nil || start.Before(from.UTC()) || !start.Before(to.UTC()) {
			continue
		}
		if as.s.hasReminder(a.WorkerID, sh.ID) {
			continue
		}

		items = append(items, model.DueReminder{
			ApplicationID: a.ID,
			WorkerID:      a.WorkerID,
			HospitalID:    sh.HospitalID,
			ShiftID:       sh.ID,
			ShiftRole:     sh.Position,
			ShiftDate:     sh.Date,
			StartTime:     sh.StartTime,
			Location:      sh.Location,
		})
	}

	return items, nil
}

func shiftStart(sh model.Shift) (time.Time, error) {
	clock, err := time.Parse("15:04", sh.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := sh.Date.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

// hasReminder must be called with mu held.
func (s *Store) hasReminder(workerID, shiftID model.ID) bool {
	for _, n := range s.notifications {
		if n.RecipientID == workerID && n.Type == model.NotificationShiftReminder &&
			n.RelatedShiftID != nil && *n.RelatedShiftID == shiftID {
			return true
		}
	}
	return false
}

// joinedApplication must be called with mu held.
func (s *Store) joinedApplication(a model.Application) model.Application {
	if u, ok := s.users[a.WorkerID]; ok {
		a.WorkerUsername = u.Username
	}
	if sh, ok := s.shifts[a.ShiftID]; ok {
		a.HospitalID = sh.HospitalID
		a.ShiftRole = sh.Position
		a.ShiftDate = sh.Date
	}
	return a
}

// deleteApplication must be called with mu held.
func (s *Store) deleteApplication(id model.ID) {
	delete(s.applications, id)
	for nid, n := range s.notifications {
		if n.RelatedApplicationID != nil && *n.RelatedApplicationID == id {
			delete(s.notifications, nid)
		}
	}
}
