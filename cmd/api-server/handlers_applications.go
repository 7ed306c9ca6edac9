package main

import (
	"net/http"

	"github.com/protomem/medicall/internal/marketplace"
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/request"
	"github.com/protomem/medicall/internal/response"
	"github.com/protomem/medicall/internal/validator"
	"github.com/shopspring/decimal"
)

type requestApply struct {
	ShiftID      model.ID            `json:"shiftId"`
	CoverLetter  string              `json:"coverLetter"`
	ProposedRate decimal.NullDecimal `json:"proposedRate"`
}

type requestUpdateApplication struct {
	CoverLetter  *string          `json:"coverLetter"`
	ProposedRate *decimal.Decimal `json:"proposedRate"`
}

type requestApplicationStatus struct {
	Status string `json:"status"`
}

func applicationFilterQueryParams(r *http.Request) (model.ApplicationFilter, error) {
	var filter model.ApplicationFilter

	if raw := optionalStringQueryParams(r, "status"); raw != nil {
		status, err := model.ParseApplicationStatus(*raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	var err error
	if filter.ShiftID, err = optionalIntQueryParams[model.ID](r, "shiftId"); err != nil {
		return filter, err
	}
	filter.OrderBy, err = orderingQueryParams(r, model.ApplicationOrderings)
	return filter, err
}

// Handle List My Applications
// @Summary The caller's applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved, rejected or withdrawn"
// @Param shiftId query int false "Shift ID"
// @Success 200 {array} model.Application
// @Router /shifts/applications [get]
func (app *application) handleListMyApplications(w http.ResponseWriter, r *http.Request) {
	filter, err := applicationFilterQueryParams(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	apps, err := app.workflow.ListMine(r.Context(), callerFrom(r), filter, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, apps); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Apply
// @Summary Apply to a shift
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestApply true "Application"
// @Success 201 {object} model.Application
// @Failure 400 {object} any "Already applied or invalid input"
// @Failure 403 {object} any "Caller is not a worker"
// @Router /shifts/applications [post]
func (app *application) handleApply(w http.ResponseWriter, r *http.Request) {
	var input requestApply
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(input.ShiftID != 0, "shiftId", "is required")
	if input.ProposedRate.Valid {
		validateAmount(&v, "proposedRate", input.ProposedRate.Decimal)
	}
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	item, err := app.workflow.Apply(r.Context(), callerFrom(r), marketplace.ApplyInput{
		ShiftID:      input.ShiftID,
		CoverLetter:  input.CoverLetter,
		ProposedRate: input.ProposedRate,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, item); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Hospital Applications
// @Summary Applications across the caller's shifts
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved, rejected or withdrawn"
// @Param shiftId query int false "Shift ID"
// @Success 200 {array} model.Application
// @Router /shifts/applications/hospital [get]
func (app *application) handleListHospitalApplications(w http.ResponseWriter, r *http.Request) {
	filter, err := applicationFilterQueryParams(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	apps, err := app.workflow.ListAllForHospital(r.Context(), callerFrom(r), filter, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, apps); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Shift Applications
// @Summary Applications for one of the caller's shifts
// @Description Shifts owned by someone else yield an empty list
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param shiftId path int true "Shift ID"
// @Success 200 {array} model.Application
// @Router /shifts/{shiftId}/applications [get]
func (app *application) handleListShiftApplications(w http.ResponseWriter, r *http.Request) {
	shiftID, err := idParam(r, "shiftId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	apps, err := app.workflow.ListForShift(r.Context(), callerFrom(r), shiftID, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, apps); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Get My Application
// @Summary One of the caller's applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationId path int true "Application ID"
// @Success 200 {object} model.Application
// @Failure 404 {object} any "Not found"
// @Router /shifts/applications/{applicationId} [get]
func (app *application) handleGetMyApplication(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "applicationId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	item, err := app.workflow.GetMine(r.Context(), callerFrom(r), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, item); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Update My Application
// @Summary Edit a pending application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationId path int true "Application ID"
// @Param input body main.requestUpdateApplication true "Fields to change"
// @Success 200 {object} model.Application
// @Router /shifts/applications/{applicationId} [put]
func (app *application) handleUpdateMyApplication(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "applicationId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	var input requestUpdateApplication
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if input.ProposedRate != nil {
		validateAmount(&v, "proposedRate", *input.ProposedRate)
	}
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	item, err := app.workflow.UpdateMine(r.Context(), callerFrom(r), id, model.UpdateApplicationDTO{
		CoverLetter:  input.CoverLetter,
		ProposedRate: input.ProposedRate,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, item); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Delete My Application
// @Summary Delete one of the caller's applications
// @Tags applications
// @Security BearerAuth
// @Param applicationId path int true "Application ID"
// @Success 204 "No Content"
// @Router /shifts/applications/{applicationId} [delete]
func (app *application) handleDeleteMyApplication(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "applicationId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	if err := app.workflow.DeleteMine(r.Context(), callerFrom(r), id); err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Handle Update Application Status
// @Summary Set an application's status
// @Description Hospitals approve or reject pending applications
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationId path int true "Application ID"
// @Param input body main.requestApplicationStatus true "New status"
// @Success 200 {object} model.Application
// @Failure 400 {object} any "Invalid status or transition"
// @Router /shifts/applications/{applicationId}/status [put]
// @Router /shifts/applications/{applicationId}/status [patch]
func (app *application) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "applicationId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	var input requestApplicationStatus
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Status), "status", "cannot be blank")
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	item, err := app.workflow.UpdateStatus(r.Context(), callerFrom(r), id, input.Status)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, item); err != nil {
		app.serverError(w, r, err)
	}
}

type applicationAction func(*marketplace.Workflow, *http.Request, model.ID) (model.Application, error)

func (app *application) applicationActionHandler(action applicationAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "applicationId")
		if err != nil {
			app.notFound(w, r)
			return
		}

		item, err := action(app.workflow, r, id)
		if err != nil {
			app.serviceError(w, r, err)
			return
		}

		if err := response.JSON(w, http.StatusOK, item); err != nil {
			app.serverError(w, r, err)
		}
	}
}

// Handle Approve Application
// @Summary Approve an application
// @Description Marks the shift filled
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationId path int true "Application ID"
// @Success 200 {object} model.Application
// @Router /shifts/applications/{applicationId}/approve [post]
func (app *application) handleApproveApplication() http.HandlerFunc {
	return app.applicationActionHandler(func(wf *marketplace.Workflow, r *http.Request, id model.ID) (model.Application, error) {
		return wf.Approve(r.Context(), callerFrom(r), id)
	})
}

// Handle Reject Application
// @Summary Reject an application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationId path int true "Application ID"
// @Success 200 {object} model.Application
// @Router /shifts/applications/{applicationId}/reject [post]
func (app *application) handleRejectApplication() http.HandlerFunc {
	return app.applicationActionHandler(func(wf *marketplace.Workflow, r *http.Request, id model.ID) (model.Application, error) {
		return wf.Reject(r.Context(), callerFrom(r), id)
	})
}

// Handle Withdraw Application
// @Summary Withdraw one of the caller's applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationId path int true "Application ID"
// @Success 200 {object} model.Application
// @Router /shifts/applications/{applicationId}/withdraw [post]
func (app *application) handleWithdrawApplication() http.HandlerFunc {
	return app.applicationActionHandler(func(wf *marketplace.Workflow, r *http.Request, id model.ID) (model.Application, error) {
		return wf.Withdraw(r.Context(), callerFrom(r), id)
	})
}
