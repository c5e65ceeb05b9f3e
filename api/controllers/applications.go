package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pawfinder/pawfinder-backend/api/middleware"
	"github.com/pawfinder/pawfinder-backend/api/responses"
	"github.com/pawfinder/pawfinder-backend/api/validators"
	"github.com/pawfinder/pawfinder-backend/internal/applications"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
	"github.com/pawfinder/pawfinder-backend/pkg/logger"
)

// ApplicationsSubmit files an adoption application for a pet. Adoptante only.
func ApplicationsSubmit(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		petID, err := validators.ParseUUIDParam(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body applications.SubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.Submit(r.Context(), petID, middleware.AccountIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "application submitted", app)
	}
}

// ApplicationsMine lists the adopter's applications, optionally filtered by
// pet name.
func ApplicationsMine(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		petName := strings.TrimSpace(r.URL.Query().Get("petName"))

		apps, err := svc.ListMine(r.Context(), middleware.AccountIDFromContext(r.Context()), petName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, apps)
	}
}

// ApplicationsReceived lists the shelter's inbox, optionally filtered by
// status or pet.
func ApplicationsReceived(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		apps, err := svc.ListReceived(r.Context(), middleware.AccountIDFromContext(r.Context()),
			strings.TrimSpace(query.Get("status")), strings.TrimSpace(query.Get("petId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, apps)
	}
}

// ApplicationsForPet lists every application for one pet. Owner shelter or
// Admin.
func ApplicationsForPet(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		petID, err := validators.ParseUUIDParam(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		apps, err := svc.ListForPet(r.Context(), petID, middleware.AccountIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, apps)
	}
}

// ApplicationsCheckMine reports whether the adopter already applied to a pet.
func ApplicationsCheckMine(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		petID, err := validators.ParseUUIDParam(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CheckMineForPet(r.Context(), petID, middleware.AccountIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ApplicationsSetStatus transitions an application through the workflow and
// reconciles the pet's availability.
func ApplicationsSetStatus(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "applications service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "applicationId"), "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body applications.SetStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.SetStatus(r.Context(), id, middleware.AccountIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()), body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "application status updated", app)
	}
}
