package main

import (
	"net/http"

	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/request"
	"github.com/protomem/medicall/internal/response"
	"github.com/protomem/medicall/internal/validator"
)

type requestReview struct {
	ShiftID        model.ID `json:"shiftId"`
	ReviewedUserID model.ID `json:"reviewedUserId"`
	Rating         int      `json:"rating"`
	Comment        string   `json:"comment"`
}

type requestUpdateReview struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Handle List My Reviews
// @Summary Reviews written by the caller
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param shiftId query int false "Shift ID"
// @Param reviewedUserId query int false "Reviewed user ID"
// @Param ordering query string false "createdAt or rating; prefix - for descending"
// @Success 200 {array} model.ShiftReview
// @Router /shifts/reviews [get]
func (app *application) handleListMyReviews(w http.ResponseWriter, r *http.Request) {
	var filter model.ReviewFilter
	var err error

	if filter.ShiftID, err = optionalIntQueryParams[model.ID](r, "shiftId"); err != nil {
		app.badRequest(w, r, err)
		return
	}
	if filter.ReviewedUserID, err = optionalIntQueryParams[model.ID](r, "reviewedUserId"); err != nil {
		app.badRequest(w, r, err)
		return
	}
	if filter.OrderBy, err = orderingQueryParams(r, model.ReviewOrderings); err != nil {
		app.badRequest(w, r, err)
		return
	}

	reviews, err := app.ledger.ListMine(r.Context(), callerFrom(r), filter, findOptions(r))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, reviews); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Create Review
// @Summary Review a user for a shift
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestReview true "Review"
// @Success 201 {object} model.ShiftReview
// @Failure 400 {object} any "Invalid input or already reviewed"
// @Router /shifts/reviews [post]
func (app *application) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var input requestReview
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestReview(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	review, err := app.ledger.Create(r.Context(), callerFrom(r), model.InsertReviewDTO{
		ShiftID:        input.ShiftID,
		ReviewedUserID: input.ReviewedUserID,
		Rating:         input.Rating,
		Comment:        input.Comment,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, review); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Get My Review
// @Summary One of the caller's reviews
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "Review ID"
// @Success 200 {object} model.ShiftReview
// @Failure 404 {object} any "Not found"
// @Router /shifts/reviews/{reviewId} [get]
func (app *application) handleGetMyReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "reviewId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	review, err := app.ledger.GetMine(r.Context(), callerFrom(r), id)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, review); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Update My Review
// @Summary Edit one of the caller's reviews
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewId path int true "Review ID"
// @Param input body main.requestUpdateReview true "Fields to change"
// @Success 200 {object} model.ShiftReview
// @Router /shifts/reviews/{reviewId} [put]
func (app *application) handleUpdateMyReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "reviewId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	var input requestUpdateReview
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if input.Rating != nil {
		v.CheckField(validator.Between(*input.Rating, 1, 5), "rating", "must be between 1 and 5")
	}
	if input.Comment != nil {
		v.CheckField(validator.NotBlank(*input.Comment), "comment", "cannot be blank")
	}
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	review, err := app.ledger.UpdateMine(r.Context(), callerFrom(r), id, model.UpdateReviewDTO{
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, review); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Delete My Review
// @Summary Delete one of the caller's reviews
// @Tags reviews
// @Security BearerAuth
// @Param reviewId path int true "Review ID"
// @Success 204 "No Content"
// @Router /shifts/reviews/{reviewId} [delete]
func (app *application) handleDeleteMyReview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "reviewId")
	if err != nil {
		app.notFound(w, r)
		return
	}

	if err := app.ledger.DeleteMine(r.Context(), callerFrom(r), id); err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
