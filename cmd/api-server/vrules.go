package main

import (
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/validator"
	"github.com/shopspring/decimal"
)

// Validation rules

func validateRequestRegister(v *validator.Validator, request requestRegister) {
	v.CheckField(validator.NotBlank(request.Username), "username", "cannot be blank")
	v.CheckField(validator.MaxRunes(request.Username, 150), "username", "must not be more than 150 characters")
	v.CheckField(validator.IsEmail(request.Email), "email", "must be a valid email address")
	v.CheckField(validator.NotBlank(request.Password), "password", "cannot be blank")
	v.CheckField(validator.MinRunes(request.Password, 6), "password", "must be at least 6 characters")
	v.CheckField(validator.NotBlank(request.FirstName), "firstName", "cannot be blank")
	v.CheckField(validator.NotBlank(request.LastName), "lastName", "cannot be blank")
	v.Check(request.Password == request.PasswordConfirm, "password fields didn't match")

	if request.UserType != "" {
		v.CheckField(
			validator.In(request.UserType, string(model.RoleWorker), string(model.RoleHospital)),
			"userType", "must be worker or hospital",
		)
	}
	if request.PhoneNumber != nil && *request.PhoneNumber != "" {
		validatePhone(v, "phoneNumber", *request.PhoneNumber)
	}
}

func validatePhone(v *validator.Validator, field, phone string) {
	v.CheckField(
		validator.Matches(phone, validator.RgxPhone),
		field,
		"must be entered in the format '+999999999', up to 15 digits",
	)
}

func validateRequestUpdateProfile(v *validator.Validator, request requestUpdateProfile) {
	if request.Email != nil {
		v.CheckField(validator.IsEmail(*request.Email), "email", "must be a valid email address")
	}
	if request.FirstName != nil {
		v.CheckField(validator.NotBlank(*request.FirstName), "firstName", "cannot be blank")
	}
	if request.LastName != nil {
		v.CheckField(validator.NotBlank(*request.LastName), "lastName", "cannot be blank")
	}
	if request.PhoneNumber != nil && *request.PhoneNumber != "" {
		validatePhone(v, "phoneNumber", *request.PhoneNumber)
	}
}

func validateRequestWorkerProfile(v *validator.Validator, request requestWorkerProfile) {
	v.CheckField(validator.NotBlank(request.LicenseNumber), "licenseNumber", "cannot be blank")
	v.CheckField(validator.NoDuplicates(request.Specialties), "specialties", "must not contain duplicates")
	validateAmount(v, "hourlyRate", request.HourlyRate.Decimal)
}

func validateRequestUpdateWorkerProfile(v *validator.Validator, request requestUpdateWorkerProfile) {
	if request.LicenseNumber != nil {
		v.CheckField(validator.NotBlank(*request.LicenseNumber), "licenseNumber", "cannot be blank")
	}
	if request.Specialties != nil {
		v.CheckField(validator.NoDuplicates(*request.Specialties), "specialties", "must not contain duplicates")
	}
	if request.HourlyRate != nil {
		validateAmount(v, "hourlyRate", *request.HourlyRate)
	}
}

func validateRequestHospitalProfile(v *validator.Validator, request requestHospitalProfile) {
	v.CheckField(validator.NotBlank(request.HospitalName), "hospitalName", "cannot be blank")
	v.CheckField(validator.NotBlank(request.LicenseNumber), "licenseNumber", "cannot be blank")
	v.CheckField(validator.NotBlank(request.Address), "address", "cannot be blank")
	v.CheckField(validator.NotBlank(request.City), "city", "cannot be blank")
	v.CheckField(validator.NotBlank(request.State), "state", "cannot be blank")
	v.CheckField(validator.NotBlank(request.ZipCode), "zipCode", "cannot be blank")
	v.CheckField(validator.NotBlank(request.Phone), "phone", "cannot be blank")
	v.CheckField(request.BedCount >= 0, "bedCount", "must not be negative")
	if request.Website != nil && *request.Website != "" {
		v.CheckField(validator.IsURL(*request.Website), "website", "must be a valid URL")
	}
}

func validateRequestUpdateHospitalProfile(v *validator.Validator, request requestUpdateHospitalProfile) {
	for field, value := range map[string]*string{
		"hospitalName":  request.HospitalName,
		"licenseNumber": request.LicenseNumber,
		"address":       request.Address,
		"city":          request.City,
		"state":         request.State,
		"zipCode":       request.ZipCode,
		"phone":         request.Phone,
	} {
		if value != nil {
			v.CheckField(validator.NotBlank(*value), field, "cannot be blank")
		}
	}
	if request.Website != nil && *request.Website != "" {
		v.CheckField(validator.IsURL(*request.Website), "website", "must be a valid URL")
	}
	if request.BedCount != nil {
		v.CheckField(*request.BedCount >= 0, "bedCount", "must not be negative")
	}
}

func validateRequestShift(v *validator.Validator, request requestShift) {
	v.CheckField(validator.NotBlank(request.Date), "date", "cannot be blank")
	v.CheckField(validator.NotBlank(request.StartTime), "startTime", "cannot be blank")
	v.CheckField(validator.NotBlank(request.EndTime), "endTime", "cannot be blank")
	if request.Urgency != "" {
		validateUrgency(v, request.Urgency)
	}
}

func validateUrgency(v *validator.Validator, urgency string) {
	v.CheckField(
		validator.In(model.Urgency(urgency), model.UrgencyLow, model.UrgencyMedium, model.UrgencyHigh, model.UrgencyCritical),
		"urgency", "must be one of low, medium, high, critical",
	)
}

func validateRequestReview(v *validator.Validator, request requestReview) {
	v.CheckField(request.ShiftID != 0, "shiftId", "is required")
	v.CheckField(request.ReviewedUserID != 0, "reviewedUserId", "is required")
	v.CheckField(validator.Between(request.Rating, 1, 5), "rating", "must be between 1 and 5")
	v.CheckField(validator.NotBlank(request.Comment), "comment", "cannot be blank")
}

func validateAmount(v *validator.Validator, field string, d decimal.Decimal) {
	v.CheckField(!d.IsNegative(), field, "must not be negative")
	v.CheckField(!d.GreaterThan(model.MaxAmount), field, "must be at most "+model.MaxAmount.String())
}
