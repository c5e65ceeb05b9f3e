package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/api/middleware"
	"github.com/pawfinder/pawfinder-backend/api/responses"
	"github.com/pawfinder/pawfinder-backend/api/validators"
	"github.com/pawfinder/pawfinder-backend/internal/pets"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
	"github.com/pawfinder/pawfinder-backend/pkg/logger"
	"github.com/pawfinder/pawfinder-backend/pkg/pagination"
)

// PetsList serves the public browse grid. With select=name it returns the
// lightweight id/name projection instead of full records.
func PetsList(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pets service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := listParams(r, pets.DefaultPageLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filters := pets.Filters{
			Species: strings.TrimSpace(query.Get("species")),
			Size:    strings.TrimSpace(query.Get("size")),
			Age:     strings.TrimSpace(query.Get("age")),
			Sex:     strings.TrimSpace(query.Get("sex")),
		}

		if raw := strings.TrimSpace(query.Get("shelterId")); raw != "" {
			shelterID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "shelterId must be a valid UUID"))
				return
			}
			filters.ShelterID = &shelterID
		}

		if strings.EqualFold(strings.TrimSpace(query.Get("select")), "name") {
			names, meta, err := svc.ListNames(r.Context(), filters, params)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteList(w, names, meta)
			return
		}

		items, meta, err := svc.List(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, items, meta)
	}
}

// PetsGetOne serves the public detail view with the expanded shelter card.
func PetsGetOne(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pets service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pet, err := svc.GetOne(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pet)
	}
}

// PetsCreate lists a new pet for the authenticated shelter.
func PetsCreate(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pets service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body pets.CreatePetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pet, err := svc.Create(r.Context(), middleware.AccountIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "pet listed", pet)
	}
}

// PetsUpdate patches a pet. Owner shelter or Admin.
func PetsUpdate(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pets service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body pets.UpdatePetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pet, err := svc.Update(r.Context(), id, middleware.AccountIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "pet updated", pet)
	}
}

// PetsDelete removes a pet and every application referencing it.
func PetsDelete(svc pets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pets service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "petId"), "petId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id, middleware.AccountIDFromContext(r.Context()), middleware.RoleFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "pet deleted", nil)
	}
}

func listParams(r *http.Request, defaultLimit int) (pagination.Params, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1000000)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Page: page, Limit: limit}, nil
}
