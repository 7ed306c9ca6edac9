package account

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/protomem/medicall/internal/model"
)

const MaxPictureSize = 5 << 20

var _pictureExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (s *Service) Profile(ctx context.Context, caller model.Caller) (model.User, error) {
	return s.deps.Users.Get(ctx, caller.ID)
}

func (s *Service) UpdateProfile(ctx context.Context, caller model.Caller, dto model.UpdateUserDTO) (model.User, error) {
	// The picture only changes through SetPicture.
	dto.ProfilePicture = nil

	if err := s.deps.Users.Update(ctx, caller.ID, dto); err != nil {
		return model.User{}, err
	}
	return s.deps.Users.Get(ctx, caller.ID)
}

// SetPicture stores an uploaded image and points the caller's profile at it.
func (s *Service) SetPicture(ctx context.Context, caller model.Caller, contentType string, data []byte) (model.User, error) {
	contentType = strings.TrimSpace(strings.Split(contentType, ";")[0])

	ext, ok := _pictureExtensions[contentType]
	if !ok {
		return model.User{}, model.NewValidationError("unsupported image type %q", contentType)
	}
	if len(data) == 0 {
		return model.User{}, model.NewValidationError("image is empty")
	}
	if len(data) > MaxPictureSize {
		return model.User{}, model.NewValidationError("image exceeds %d bytes", MaxPictureSize)
	}

	key := "profile_pictures/" + strings.ToLower(ulid.Make().String()) + ext

	url, err := s.deps.Pictures.Put(ctx, key, contentType, data)
	if err != nil {
		return model.User{}, err
	}

	if err := s.deps.Users.Update(ctx, caller.ID, model.UpdateUserDTO{ProfilePicture: &url}); err != nil {
		return model.User{}, err
	}

	s.logger.Debug("profile picture stored", "userId", caller.ID, "key", key)

	return s.deps.Users.Get(ctx, caller.ID)
}

func (s *Service) WorkerProfile(ctx context.Context, caller model.Caller) (model.WorkerProfile, error) {
	return s.deps.Workers.GetByUser(ctx, caller.ID)
}

func (s *Service) CreateWorkerProfile(ctx context.Context, caller model.Caller, dto model.InsertWorkerProfileDTO) (model.WorkerProfile, error) {
	if !caller.Can(model.CapKeepWorkerProfile) {
		return model.WorkerProfile{}, model.NewError("worker profile", model.ErrForbidden)
	}

	if err := validateWorker(dto.ExperienceYears, dto.Availability); err != nil {
		return model.WorkerProfile{}, err
	}
	if dto.HourlyRate.Valid {
		if err := model.CheckAmount("hourlyRate", dto.HourlyRate.Decimal); err != nil {
			return model.WorkerProfile{}, err
		}
	}
	if dto.Country == "" {
		dto.Country = "US"
	}

	dto.UserID = caller.ID
	if _, err := s.deps.Workers.Insert(ctx, dto); err != nil {
		return model.WorkerProfile{}, err
	}

	return s.deps.Workers.GetByUser(ctx, caller.ID)
}

// UpdateWorkerProfile never touches rating or total reviews.
func (s *Service) UpdateWorkerProfile(ctx context.Context, caller model.Caller, dto model.UpdateWorkerProfileDTO) (model.WorkerProfile, error) {
	if dto.ExperienceYears != nil || dto.Availability != nil {
		years := 0
		if dto.ExperienceYears != nil {
			years = *dto.ExperienceYears
		}
		var availability model.Availability
		if dto.Availability != nil {
			availability = *dto.Availability
		}
		if err := validateWorker(years, availability); err != nil {
			return model.WorkerProfile{}, err
		}
	}
	if dto.HourlyRate != nil {
		if err := model.CheckAmount("hourlyRate", *dto.HourlyRate); err != nil {
			return model.WorkerProfile{}, err
		}
	}

	if err := s.deps.Workers.Update(ctx, caller.ID, dto); err != nil {
		return model.WorkerProfile{}, err
	}

	return s.deps.Workers.GetByUser(ctx, caller.ID)
}

func validateWorker(years int, availability model.Availability) error {
	if years < 0 {
		return model.NewValidationError("experience years must not be negative")
	}
	if err := availability.Validate(); err != nil {
		return model.NewValidationError("availability: %s", err.Error())
	}
	return nil
}

func (s *Service) HospitalProfile(ctx context.Context, caller model.Caller) (model.HospitalProfile, error) {
	return s.deps.Hospitals.GetByUser(ctx, caller.ID)
}

func (s *Service) CreateHospitalProfile(ctx context.Context, caller model.Caller, dto model.InsertHospitalProfileDTO) (model.HospitalProfile, error) {
	if !caller.Can(model.CapKeepHospitalProfile) {
		return model.HospitalProfile{}, model.NewError("hospital profile", model.ErrForbidden)
	}
	if dto.BedCount < 0 {
		return model.HospitalProfile{}, model.NewValidationError("bed count must not be negative")
	}
	if dto.Country == "" {
		dto.Country = "US"
	}

	dto.UserID = caller.ID
	if _, err := s.deps.Hospitals.Insert(ctx, dto); err != nil {
		return model.HospitalProfile{}, err
	}

	return s.deps.Hospitals.GetByUser(ctx, caller.ID)
}

// UpdateHospitalProfile never touches the verification flag.
func (s *Service) UpdateHospitalProfile(ctx context.Context, caller model.Caller, dto model.UpdateHospitalProfileDTO) (model.HospitalProfile, error) {
	if dto.BedCount != nil && *dto.BedCount < 0 {
		return model.HospitalProfile{}, model.NewValidationError("bed count must not be negative")
	}

	if err := s.deps.Hospitals.Update(ctx, caller.ID, dto); err != nil {
		return model.HospitalProfile{}, err
	}

	return s.deps.Hospitals.GetByUser(ctx, caller.ID)
}

// ListWorkers returns available workers only.
func (s *Service) ListWorkers(ctx context.Context, filter model.WorkerFilter, opts model.FindOptions) ([]model.WorkerProfile, error) {
	return s.deps.Workers.Find(ctx, filter, opts)
}

// ListHospitals returns verified hospitals only.
func (s *Service) ListHospitals(ctx context.Context, filter model.HospitalFilter, opts model.FindOptions) ([]model.HospitalProfile, error) {
	return s.deps.Hospitals.Find(ctx, filter, opts)
}
