package memstore

import (
	"context"
	"strings"

	"github.com/protomem/medicall/internal/model"
)

type WorkerProfileStore struct{ s *Store }

var workerOrderings = map[string]func(a, b model.WorkerProfile) int{
	"rating":          func(a, b model.WorkerProfile) int { return a.Rating.Cmp(b.Rating) },
	"experienceYears": func(a, b model.WorkerProfile) int { return a.ExperienceYears - b.ExperienceYears },
	"hourlyRate": func(a, b model.WorkerProfile) int {
		return a.HourlyRate.Decimal.Cmp(b.HourlyRate.Decimal)
	},
}

func (w *WorkerProfileStore) Find(_ context.Context, filter model.WorkerFilter, opts model.FindOptions) ([]model.WorkerProfile, error) {
	w.s.mu.RLock()
	defer w.s.mu.RUnlock()

	items := make([]model.WorkerProfile, 0)
	for _, p := range w.s.workers {
		if !p.IsAvailable {
			continue
		}
		if filter.Specialty != nil && !has(p.Specialties, *filter.Specialty) {
			continue
		}
		if filter.ExperienceYears != nil && p.ExperienceYears != *filter.ExperienceYears {
			continue
		}
		if filter.MinRating != nil && p.Rating.LessThan(*filter.MinRating) {
			continue
		}
		p = w.s.withWorkerUser(p)
		if filter.Search != "" &&
			!containsFold(p.Username, filter.Search) &&
			!containsFold(p.FirstName, filter.Search) &&
			!containsFold(p.LastName, filter.Search) {
			continue
		}
		items = append(items, p)
	}

	sortBy(items, filter.OrderBy, workerOrderings, func(a, b model.WorkerProfile) int {
		return compareIDs(a.ID, b.ID)
	})

	return paginate(items, opts), nil
}

func (w *WorkerProfileStore) GetByUser(_ context.Context, userID model.ID) (model.WorkerProfile, error) {
	w.s.mu.RLock()
	defer w.s.mu.RUnlock()

	p, ok := w.s.workers[userID]
	if !ok {
		return model.WorkerProfile{}, model.NewError("worker profile", model.ErrNotFound)
	}
	return w.s.withWorkerUser(p), nil
}

func (w *WorkerProfileStore) Insert(_ context.Context, dto model.InsertWorkerProfileDTO) (model.ID, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	if _, ok := w.s.users[dto.UserID]; !ok {
		return 0, model.NewError("worker profile", model.ErrNotFound)
	}
	if _, ok := w.s.workers[dto.UserID]; ok {
		return 0, model.NewError("worker profile", model.ErrExists)
	}
	for _, p := range w.s.workers {
		if p.LicenseNumber == dto.LicenseNumber {
			return 0, model.NewError("worker profile", model.ErrExists)
		}
	}

	availability := dto.Availability
	if availability == nil {
		availability = model.Availability{}
	}

	p := model.WorkerProfile{
		ID:              w.s.next("worker_profiles"),
		UserID:          dto.UserID,
		LicenseNumber:   dto.LicenseNumber,
		Specialties:     append([]string{}, dto.Specialties...),
		ExperienceYears: dto.ExperienceYears,
		Certifications:  append([]string{}, dto.Certifications...),
		Availability:    availability,
		HourlyRate:      dto.HourlyRate,
		IsAvailable:     true,
		Country:         dto.Country,
	}
	w.s.workers[dto.UserID] = p

	return p.ID, nil
}

func (w *WorkerProfileStore) Update(_ context.Context, userID model.ID, dto model.UpdateWorkerProfileDTO) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	p, ok := w.s.workers[userID]
	if !ok {
		return model.NewError("worker profile", model.ErrNotFound)
	}

	if dto.LicenseNumber != nil {
		for _, other := range w.s.workers {
			if other.UserID != userID && other.LicenseNumber == *dto.LicenseNumber {
				return model.NewError("worker profile", model.ErrExists)
			}
		}
		p.LicenseNumber = *dto.LicenseNumber
	}
	if dto.Specialties != nil {
		p.Specialties = append([]string{}, (*dto.Specialties)...)
	}
	setIfPresent(&p.ExperienceYears, dto.ExperienceYears)
	if dto.Certifications != nil {
		p.Certifications = append([]string{}, (*dto.Certifications)...)
	}
	setIfPresent(&p.Availability, dto.Availability)
	if dto.HourlyRate != nil {
		p.HourlyRate.Decimal = *dto.HourlyRate
		p.HourlyRate.Valid = true
	}
	setIfPresent(&p.IsAvailable, dto.IsAvailable)
	setIfPresent(&p.Country, dto.Country)

	w.s.workers[userID] = p

	return nil
}

// withWorkerUser must be called with mu held.
func (s *Store) withWorkerUser(p model.WorkerProfile) model.WorkerProfile {
	if u, ok := s.users[p.UserID]; ok {
		p.Username, p.FirstName, p.LastName = u.Username, u.FirstName, u.LastName
	}
	return p
}

type HospitalProfileStore struct{ s *Store }

var hospitalOrderings = map[string]func(a, b model.HospitalProfile) int{
	"hospitalName": func(a, b model.HospitalProfile) int { return strings.Compare(a.HospitalName, b.HospitalName) },
	"bedCount":     func(a, b model.HospitalProfile) int { return a.BedCount - b.BedCount },
}

func (h *HospitalProfileStore) Find(_ context.Context, filter model.HospitalFilter, opts model.FindOptions) ([]model.HospitalProfile, error) {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()

	items := make([]model.HospitalProfile, 0)
	for _, p := range h.s.hospitals {
		if !p.IsVerified {
			continue
		}
		if filter.Department != nil && !has(p.Departments, *filter.Department) {
			continue
		}
		if filter.City != nil && p.City != *filter.City {
			continue
		}
		if filter.State != nil && p.State != *filter.State {
			continue
		}
		if filter.Search != "" &&
			!containsFold(p.HospitalName, filter.Search) &&
			!containsFold(p.City, filter.Search) &&
			!containsFold(p.State, filter.Search) {
			continue
		}
		items = append(items, p)
	}

	sortBy(items, filter.OrderBy, hospitalOrderings, func(a, b model.HospitalProfile) int {
		return compareIDs(a.ID, b.ID)
	})

	return paginate(items, opts), nil
}

func (h *HospitalProfileStore) GetByUser(_ context.Context, userID model.ID) (model.HospitalProfile, error) {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()

	p, ok := h.s.hospitals[userID]
	if !ok {
		return model.HospitalProfile{}, model.NewError("hospital profile", model.ErrNotFound)
	}
	return p, nil
}

func (h *HospitalProfileStore) Insert(_ context.Context, dto model.InsertHospitalProfileDTO) (model.ID, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	if _, ok := h.s.users[dto.UserID]; !ok {
		return 0, model.NewError("hospital profile", model.ErrNotFound)
	}
	if _, ok := h.s.hospitals[dto.UserID]; ok {
		return 0, model.NewError("hospital profile", model.ErrExists)
	}
	for _, p := range h.s.hospitals {
		if p.LicenseNumber == dto.LicenseNumber {
			return 0, model.NewError("hospital profile", model.ErrExists)
		}
	}

	p := model.HospitalProfile{
		ID:            h.s.next("hospital_profiles"),
		UserID:        dto.UserID,
		HospitalName:  dto.HospitalName,
		LicenseNumber: dto.LicenseNumber,
		Address:       dto.Address,
		City:          dto.City,
		State:         dto.State,
		ZipCode:       dto.ZipCode,
		Country:       dto.Country,
		Phone:         dto.Phone,
		Website:       dto.Website,
		Departments:   append([]string{}, dto.Departments...),
		BedCount:      dto.BedCount,
	}
	h.s.hospitals[dto.UserID] = p

	return p.ID, nil
}

func (h *HospitalProfileStore) Update(_ context.Context, userID model.ID, dto model.UpdateHospitalProfileDTO) error {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	p, ok := h.s.hospitals[userID]
	if !ok {
		return model.NewError("hospital profile", model.ErrNotFound)
	}

	if dto.LicenseNumber != nil {
		for _, other := range h.s.hospitals {
			if other.UserID != userID && other.LicenseNumber == *dto.LicenseNumber {
				return model.NewError("hospital profile", model.ErrExists)
			}
		}
		p.LicenseNumber = *dto.LicenseNumber
	}
	setIfPresent(&p.HospitalName, dto.HospitalName)
	setIfPresent(&p.Address, dto.Address)
	setIfPresent(&p.City, dto.City)
	setIfPresent(&p.State, dto.State)
	setIfPresent(&p.ZipCode, dto.ZipCode)
	setIfPresent(&p.Country, dto.Country)
	setIfPresent(&p.Phone, dto.Phone)
	setPtrIfPresent(&p.Website, dto.Website)
	if dto.Departments != nil {
		p.Departments = append([]string{}, (*dto.Departments)...)
	}
	setIfPresent(&p.BedCount, dto.BedCount)

	h.s.hospitals[userID] = p

	return nil
}

func (h *HospitalProfileStore) Verify(_ context.Context, userID model.ID) error {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	p, ok := h.s.hospitals[userID]
	if !ok {
		return model.NewError("hospital profile", model.ErrNotFound)
	}
	p.IsVerified = true
	h.s.hospitals[userID] = p

	return nil
}
