package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/protomem/medicall/internal/account"
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/request"
	"github.com/protomem/medicall/internal/response"
	"github.com/protomem/medicall/internal/validator"
	"github.com/shopspring/decimal"
)

// Handle Get Profile
// @Summary Own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Router /auth/profile [get]
func (app *application) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := app.accounts.Profile(r.Context(), callerFrom(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, user); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateProfile struct {
	Email       *string `json:"email"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zipCode"`
	Country     *string `json:"country"`
}

// Handle Update Profile
// @Summary Update own profile
// @Description Username, user type and verification flag are read-only and ignored
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestUpdateProfile true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} validator.Validator "Invalid input"
// @Router /auth/profile [put]
func (app *application) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input requestUpdateProfile
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestUpdateProfile(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	user, err := app.accounts.UpdateProfile(r.Context(), callerFrom(r), model.UpdateUserDTO{
		Email:       input.Email,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		ZipCode:     input.ZipCode,
		Country:     input.Country,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, user); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Upload Picture
// @Summary Upload profile picture
// @Description Raw image body (jpeg, png or webp, up to 5 MiB)
// @Tags profile
// @Accept image/jpeg,image/png,image/webp
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 400 {object} any "Unsupported or oversized image"
// @Router /auth/profile/picture [put]
func (app *application) handleUploadPicture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, account.MaxPictureSize)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			app.badRequest(w, r, fmt.Errorf("image must not be larger than %d bytes", maxBytesError.Limit))
			return
		}
		app.badRequest(w, r, err)
		return
	}

	user, err := app.accounts.SetPicture(r.Context(), callerFrom(r), r.Header.Get("Content-Type"), data)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, user); err != nil {
		app.serverError(w, r, err)
	}
}

type requestWorkerProfile struct {
	LicenseNumber   string              `json:"licenseNumber"`
	Specialties     []string            `json:"specialties"`
	ExperienceYears int                 `json:"experienceYears"`
	Certifications  []string            `json:"certifications"`
	Availability    model.Availability  `json:"availability"`
	HourlyRate      decimal.NullDecimal `json:"hourlyRate"`
	Country         string              `json:"country"`
}

type requestUpdateWorkerProfile struct {
	LicenseNumber   *string             `json:"licenseNumber"`
	Specialties     *[]string           `json:"specialties"`
	ExperienceYears *int                `json:"experienceYears"`
	Certifications  *[]string           `json:"certifications"`
	Availability    *model.Availability `json:"availability"`
	HourlyRate      *decimal.Decimal    `json:"hourlyRate"`
	IsAvailable     *bool               `json:"isAvailable"`
	Country         *string             `json:"country"`
}

// Handle Get Worker Profile
// @Summary Own worker profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.WorkerProfile
// @Failure 404 {object} any "Profile not created yet"
// @Router /auth/worker-profile [get]
func (app *application) handleGetWorkerProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := app.accounts.WorkerProfile(r.Context(), callerFrom(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, profile); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Create Worker Profile
// @Summary Create own worker profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestWorkerProfile true "Profile"
// @Success 201 {object} model.WorkerProfile
// @Failure 400 {object} any "Invalid input or profile exists"
// @Failure 403 {object} any "Caller is not a worker"
// @Router /auth/worker-profile [post]
func (app *application) handleCreateWorkerProfile(w http.ResponseWriter, r *http.Request) {
	var input requestWorkerProfile
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestWorkerProfile(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	profile, err := app.accounts.CreateWorkerProfile(r.Context(), callerFrom(r), model.InsertWorkerProfileDTO{
		LicenseNumber:   input.LicenseNumber,
		Specialties:     input.Specialties,
		ExperienceYears: input.ExperienceYears,
		Certifications:  input.Certifications,
		Availability:    input.Availability,
		HourlyRate:      input.HourlyRate,
		Country:         input.Country,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, profile); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Update Worker Profile
// @Summary Update own worker profile
// @Description Rating and total reviews are read-only
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestUpdateWorkerProfile true "Fields to change"
// @Success 200 {object} model.WorkerProfile
// @Router /auth/worker-profile [put]
func (app *application) handleUpdateWorkerProfile(w http.ResponseWriter, r *http.Request) {
	var input requestUpdateWorkerProfile
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestUpdateWorkerProfile(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	profile, err := app.accounts.UpdateWorkerProfile(r.Context(), callerFrom(r), model.UpdateWorkerProfileDTO{
		LicenseNumber:   input.LicenseNumber,
		Specialties:     input.Specialties,
		ExperienceYears: input.ExperienceYears,
		Certifications:  input.Certifications,
		Availability:    input.Availability,
		HourlyRate:      input.HourlyRate,
		IsAvailable:     input.IsAvailable,
		Country:         input.Country,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, profile); err != nil {
		app.serverError(w, r, err)
	}
}

type requestHospitalProfile struct {
	HospitalName  string   `json:"hospitalName"`
	LicenseNumber string   `json:"licenseNumber"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	ZipCode       string   `json:"zipCode"`
	Country       string   `json:"country"`
	Phone         string   `json:"phone"`
	Website       *string  `json:"website"`
	Departments   []string `json:"departments"`
	BedCount      int      `json:"bedCount"`
}

type requestUpdateHospitalProfile struct {
	HospitalName  *string   `json:"hospitalName"`
	LicenseNumber *string   `json:"licenseNumber"`
	Address       *string   `json:"address"`
	City          *string   `json:"city"`
	State         *string   `json:"state"`
	ZipCode       *string   `json:"zipCode"`
	Country       *string   `json:"country"`
	Phone         *string   `json:"phone"`
	Website       *string   `json:"website"`
	Departments   *[]string `json:"departments"`
	BedCount      *int      `json:"bedCount"`
}

// Handle Get Hospital Profile
// @Summary Own hospital profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.HospitalProfile
// @Failure 404 {object} any "Profile not created yet"
// @Router /auth/hospital-profile [get]
func (app *application) handleGetHospitalProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := app.accounts.HospitalProfile(r.Context(), callerFrom(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, profile); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Create Hospital Profile
// @Summary Create own hospital profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestHospitalProfile true "Profile"
// @Success 201 {object} model.HospitalProfile
// @Failure 400 {object} any "Invalid input or profile exists"
// @Failure 403 {object} any "Caller is not a hospital"
// @Router /auth/hospital-profile [post]
func (app *application) handleCreateHospitalProfile(w http.ResponseWriter, r *http.Request) {
	var input requestHospitalProfile
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestHospitalProfile(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	profile, err := app.accounts.CreateHospitalProfile(r.Context(), callerFrom(r), model.InsertHospitalProfileDTO{
		HospitalName:  input.HospitalName,
		LicenseNumber: input.LicenseNumber,
		Address:       input.Address,
		City:          input.City,
		State:         input.State,
		ZipCode:       input.ZipCode,
		Country:       input.Country,
		Phone:         input.Phone,
		Website:       input.Website,
		Departments:   input.Departments,
		BedCount:      input.BedCount,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, profile); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Update Hospital Profile
// @Summary Update own hospital profile
// @Description The verification flag is read-only
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestUpdateHospitalProfile true "Fields to change"
// @Success 200 {object} model.HospitalProfile
// @Router /auth/hospital-profile [put]
func (app *application) handleUpdateHospitalProfile(w http.ResponseWriter, r *http.Request) {
	var input requestUpdateHospitalProfile
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestUpdateHospitalProfile(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	profile, err := app.accounts.UpdateHospitalProfile(r.Context(), callerFrom(r), model.UpdateHospitalProfileDTO{
		HospitalName:  input.HospitalName,
		LicenseNumber: input.LicenseNumber,
		Address:       input.Address,
		City:          input.City,
		State:         input.State,
		ZipCode:       input.ZipCode,
		Country:       input.Country,
		Phone:         input.Phone,
		Website:       input.Website,
		Departments:   input.Departments,
		BedCount:      input.BedCount,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, profile); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Workers
// @Summary Available workers
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param specialty query string false "Specialty"
// @Param experienceYears query int false "Years of experience"
// @Param minRating query number false "Minimum rating"
// @Param search query string false "Username or name"
// @Param ordering query string false "rating, experienceYears or hourlyRate; prefix - for descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} model.WorkerProfile
// @Router /auth/workers [get]
func (app *application) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	var filter model.WorkerFilter
	var err error

	filter.Specialty = optionalStringQueryParams(r, "specialty")
	filter.Search = r.URL.Query().Get("search")
	if filter.ExperienceYears, err = optionalIntQueryParams[int](r, "experienceYears"); err != nil {
		app.badRequest(w, r, err)
		return
	}
	if filter.MinRating, err = optionalDecimalQueryParams(r, "minRating"); err != nil {
		app.badRequest(w, r, err)
		return
	}
	if filter.OrderBy, err = orderingQueryParams(r, model.WorkerOrderings); err != nil {
		app.badRequest(w, r, err)
		return
	}

	workers, err := app.accounts.ListWorkers(r.Context(), filter, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, workers); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Hospitals
// @Summary Verified hospitals
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department"
// @Param city query string false "City"
// @Param state query string false "State"
// @Param search query string false "Hospital name, city or state"
// @Param ordering query string false "hospitalName or bedCount; prefix - for descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} model.HospitalProfile
// @Router /auth/hospitals [get]
func (app *application) handleListHospitals(w http.ResponseWriter, r *http.Request) {
	filter := model.HospitalFilter{
		Department: optionalStringQueryParams(r, "department"),
		City:       optionalStringQueryParams(r, "city"),
		State:      optionalStringQueryParams(r, "state"),
		Search:     r.URL.Query().Get("search"),
	}

	var err error
	if filter.OrderBy, err = orderingQueryParams(r, model.HospitalOrderings); err != nil {
		app.badRequest(w, r, err)
		return
	}

	hospitals, err := app.accounts.ListHospitals(r.Context(), filter, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, hospitals); err != nil {
		app.serverError(w, r, err)
	}
}
