package main

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/report"
	"github.com/protomem/medicall/internal/request"
	"github.com/protomem/medicall/internal/response"
	"github.com/protomem/medicall/internal/validator"
	"github.com/shopspring/decimal"
)

type requestShift struct {
	Department    string          `json:"department"`
	Role          string          `json:"role"`
	Date          string          `json:"date"`
	StartTime     string          `json:"startTime"`
	EndTime       string          `json:"endTime"`
	DurationHours decimal.Decimal `json:"durationHours"`
	PayPerHour    decimal.Decimal `json:"payPerHour"`
	Urgency       string          `json:"urgency"`
	Requirements  string          `json:"requirements"`
	Location      string          `json:"location"`
	Description   string          `json:"description"`
	MaxApplicants int             `json:"maxApplicants"`
}

type requestUpdateShift struct {
	Department    *string          `json:"department"`
	Role          *string          `json:"role"`
	Date          *string          `json:"date"`
	StartTime     *string          `json:"startTime"`
	EndTime       *string          `json:"endTime"`
	DurationHours *decimal.Decimal `json:"durationHours"`
	PayPerHour    *decimal.Decimal `json:"payPerHour"`
	Urgency       *string          `json:"urgency"`
	Status        *string          `json:"status"`
	Requirements  *string          `json:"requirements"`
	Location      *string          `json:"location"`
	Description   *string          `json:"description"`
	MaxApplicants *int             `json:"maxApplicants"`
}

func shiftFilterQueryParams(r *http.Request) (model.ShiftFilter, error) {
	filter := model.ShiftFilter{
		Department: optionalStringQueryParams(r, "department"),
		Location:   optionalStringQueryParams(r, "location"),
		Search:     r.URL.Query().Get("search"),
	}

	if raw := optionalStringQueryParams(r, "status"); raw != nil {
		status, err := model.ParseShiftStatus(*raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if raw := optionalStringQueryParams(r, "urgency"); raw != nil {
		urgency, err := model.ParseUrgency(*raw)
		if err != nil {
			return filter, err
		}
		filter.Urgency = &urgency
	}
	if raw := optionalStringQueryParams(r, "date"); raw != nil {
		date, err := model.ParseDate(*raw)
		if err != nil {
			return filter, err
		}
		filter.Date = &date
	}

	var err error
	filter.OrderBy, err = orderingQueryParams(r, model.ShiftOrderings)
	return filter, err
}

// Handle List Shifts
// @Summary All shifts
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param status query string false "active, filled, cancelled or expired"
// @Param department query string false "Department"
// @Param urgency query string false "low, medium, high or critical"
// @Param date query string false "YYYY-MM-DD"
// @Param location query string false "Location"
// @Param search query string false "Role, department or requirements"
// @Param ordering query string false "date, payPerHour or createdAt; prefix - for descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} model.Shift
// @Router /shifts [get]
func (app *application) handleListShifts(w http.ResponseWriter, r *http.Request) {
	filter, err := shiftFilterQueryParams(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	shifts, err := app.catalog.List(r.Context(), filter, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, shifts); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Worker Shifts
// @Summary Open shifts for the caller
// @Description Active shifts the caller has not applied to
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param department query string false "Department"
// @Param urgency query string false "low, medium, high or critical"
// @Param date query string false "YYYY-MM-DD"
// @Param search query string false "Role, department or requirements"
// @Param ordering query string false "date, payPerHour or createdAt"
// @Success 200 {array} model.Shift
// @Router /shifts/worker [get]
func (app *application) handleListWorkerShifts(w http.ResponseWriter, r *http.Request) {
	filter, err := shiftFilterQueryParams(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	shifts, err := app.catalog.ListForWorker(r.Context(), callerFrom(r), filter, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, shifts); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Hospital Shifts
// @Summary Shifts posted by the caller
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param status query string false "active, filled, cancelled or expired"
// @Param ordering query string false "date, payPerHour or createdAt"
// @Success 200 {array} model.Shift
// @Router /shifts/hospital [get]
func (app *application) handleListHospitalShifts(w http.ResponseWriter, r *http.Request) {
	filter, err := shiftFilterQueryParams(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	shifts, err := app.catalog.ListForHospital(r.Context(), callerFrom(r), filter, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, shifts); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Export Hospital Shifts
// @Summary Export the caller's shifts
// @Tags shifts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 403 {object} any "Caller is not a hospital"
// @Router /shifts/hospital/export [get]
func (app *application) handleExportHospitalShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := app.catalog.ExportForHospital(r.Context(), callerFrom(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	today := time.Now().UTC().Format(model.DateLayout)

	var buf bytes.Buffer
	if err := report.WriteShifts(&buf, "Shifts exported "+today, shifts); err != nil {
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="shifts-%s.xlsx"`, today))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		app.reportServerError(r, err)
	}
}

// Handle Create Shift
// @Summary Post a shift
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestShift true "Shift"
// @Success 201 {object} model.Shift
// @Failure 400 {object} any "Invalid input"
// @Failure 403 {object} any "Caller is not a hospital"
// @Router /shifts [post]
func (app *application) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	var input requestShift
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestShift(&v, input)
	date, err := model.ParseDate(input.Date)
	if input.Date != "" && err != nil {
		v.AddFieldError("date", "must be in the format YYYY-MM-DD")
	}
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	shift, err := app.catalog.Create(r.Context(), callerFrom(r), model.InsertShiftDTO{
		Department:    input.Department,
		Position:      input.Role,
		Date:          date,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		DurationHours: input.DurationHours,
		PayPerHour:    input.PayPerHour,
		Urgency:       model.Urgency(input.Urgency),
		Requirements:  input.Requirements,
		Location:      input.Location,
		Description:   input.Description,
		MaxApplicants: input.MaxApplicants,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, shift); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Get Shift
// @Summary Shift detail
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param shiftId path int true "Shift ID"
// @Success 200 {object} model.Shift
// @Failure 404 {object} any "Not found"
// @Router /shifts/{shiftId} [get]
func (app *application) handleGetShift(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "shiftId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	shift, err := app.catalog.Get(r.Context(), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, shift); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Update Shift
// @Summary Update a shift
// @Description PUT and PATCH both apply only the fields present
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shiftId path int true "Shift ID"
// @Param input body main.requestUpdateShift true "Fields to change"
// @Success 200 {object} model.Shift
// @Router /shifts/{shiftId} [put]
// @Router /shifts/{shiftId} [patch]
func (app *application) handleUpdateShift(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "shiftId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	var input requestUpdateShift
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	dto := model.UpdateShiftDTO{
		Department:    input.Department,
		Position:      input.Role,
		StartTime:     input.StartTime,
		EndTime:       input.EndTime,
		DurationHours: input.DurationHours,
		PayPerHour:    input.PayPerHour,
		Requirements:  input.Requirements,
		Location:      input.Location,
		Description:   input.Description,
		MaxApplicants: input.MaxApplicants,
	}

	var v validator.Validator
	if input.Date != nil {
		date, err := model.ParseDate(*input.Date)
		v.CheckField(err == nil, "date", "must be in the format YYYY-MM-DD")
		dto.Date = &date
	}
	if input.Urgency != nil {
		validateUrgency(&v, *input.Urgency)
		urgency := model.Urgency(*input.Urgency)
		dto.Urgency = &urgency
	}
	if input.Status != nil {
		status := model.ShiftStatus(*input.Status)
		dto.Status = &status
	}
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	shift, err := app.catalog.Update(r.Context(), callerFrom(r), id, dto)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, shift); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Delete Shift
// @Summary Delete a shift
// @Tags shifts
// @Security BearerAuth
// @Param shiftId path int true "Shift ID"
// @Success 204 "No Content"
// @Failure 404 {object} any "Not found"
// @Router /shifts/{shiftId} [delete]
func (app *application) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "shiftId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	if err := app.catalog.Delete(r.Context(), callerFrom(r), id); err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
