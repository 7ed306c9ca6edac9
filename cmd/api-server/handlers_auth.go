package main

import (
	"errors"
	"net/http"

	"github.com/protomem/medicall/internal/account"
	"github.com/protomem/medicall/internal/model"
	"github.com/protomem/medicall/internal/request"
	"github.com/protomem/medicall/internal/response"
	"github.com/protomem/medicall/internal/validator"
)

type requestRegister struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	PasswordConfirm string  `json:"passwordConfirm"`
	UserType        string  `json:"userType"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	PhoneNumber     *string `json:"phoneNumber"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	ZipCode         *string `json:"zipCode"`
	Country         *string `json:"country"`
}

// Handle Register
// @Summary Register
// @Description Create a worker or hospital account and return a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param input body main.requestRegister true "Account data"
// @Success 201 {object} account.Session
// @Failure 400 {object} validator.Validator "Invalid input or username/email taken"
// @Failure 500 {object} any "Internal server error"
// @Router /auth/register [post]
func (app *application) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input requestRegister
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestRegister(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	session, err := app.accounts.Register(r.Context(), account.RegisterInput{
		Username:        input.Username,
		Email:           input.Email,
		Password:        input.Password,
		PasswordConfirm: input.PasswordConfirm,
		Role:            input.UserType,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		PhoneNumber:     input.PhoneNumber,
		Address:         input.Address,
		City:            input.City,
		State:           input.State,
		ZipCode:         input.ZipCode,
		Country:         input.Country,
	})
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, session); err != nil {
		app.serverError(w, r, err)
	}
}

type requestLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Handle Login
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body main.requestLogin true "Credentials"
// @Success 200 {object} account.Session
// @Failure 400 {object} any "Invalid credentials or disabled account"
// @Router /auth/login [post]
func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input requestLogin
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Username), "username", "cannot be blank")
	v.CheckField(validator.NotBlank(input.Password), "password", "cannot be blank")
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	session, err := app.accounts.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	app.requestLogger(r).Info("user logged in", "userId", session.User.ID)

	if err := response.JSON(w, http.StatusOK, session); err != nil {
		app.serverError(w, r, err)
	}
}

type requestRefresh struct {
	Refresh string `json:"refresh"`
}

// Handle Refresh
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param input body main.requestRefresh true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} any "Invalid, expired or revoked token"
// @Router /auth/token/refresh [post]
func (app *application) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var input requestRefresh
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	if !validator.NotBlank(input.Refresh) {
		app.unauthorized(w, r, "refresh token is required")
		return
	}

	access, err := app.accounts.Refresh(r.Context(), input.Refresh)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"access": access}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Logout
// @Summary Logout
// @Description Blacklist a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body main.requestRefresh true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 400 {object} any "Missing or invalid token"
// @Router /auth/logout [post]
func (app *application) handleLogout(w http.ResponseWriter, r *http.Request) {
	var input requestRefresh
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	if !validator.NotBlank(input.Refresh) {
		app.errorMessage(w, r, http.StatusBadRequest, "refresh token is required", nil)
		return
	}

	if err := app.accounts.Logout(r.Context(), input.Refresh); err != nil {
		if errors.Is(err, model.ErrInvalidToken) {
			app.errorMessage(w, r, http.StatusBadRequest, "invalid token", nil)
			return
		}
		app.serviceError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"message": "Successfully logged out"}); err != nil {
		app.serverError(w, r, err)
	}
}
