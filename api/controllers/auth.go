package controllers

import (
	"fmt"
	"net/http"

	"github.com/pawfinder/pawfinder-backend/api/middleware"
	"github.com/pawfinder/pawfinder-backend/api/responses"
	"github.com/pawfinder/pawfinder-backend/api/validators"
	"github.com/pawfinder/pawfinder-backend/internal/accounts"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
	"github.com/pawfinder/pawfinder-backend/pkg/logger"
)

// AuthRegister wires the signup endpoint into the HTTP layer.
func AuthRegister(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body accounts.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message := fmt.Sprintf("%s account created", account.Role)
		if account.Role == enums.RoleRefugio {
			message += "; pending approval"
		}
		responses.WriteMessage(w, http.StatusCreated, message, account)
	}
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "accounts service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body accounts.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "login successful", result)
	}
}

// AuthValidate echoes the account behind a valid bearer token.
func AuthValidate(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := middleware.AccountFromContext(r.Context())
		if account == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		responses.WriteMessage(w, http.StatusOK, "token valid", account)
	}
}
