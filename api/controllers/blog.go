package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawfinder/pawfinder-backend/api/middleware"
	"github.com/pawfinder/pawfinder-backend/api/responses"
	"github.com/pawfinder/pawfinder-backend/api/validators"
	"github.com/pawfinder/pawfinder-backend/internal/blog"
	pkgerrors "github.com/pawfinder/pawfinder-backend/pkg/errors"
	"github.com/pawfinder/pawfinder-backend/pkg/logger"
)

// BlogList serves the public post feed.
func BlogList(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := listParams(r, blog.DefaultPageLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		posts, meta, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, posts, meta)
	}
}

// BlogGetOne serves a single post with its author card.
func BlogGetOne(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "postId"), "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.GetOne(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, post)
	}
}

// BlogCreate publishes a post. Refugio or Admin.
func BlogCreate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body blog.CreatePostRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Create(r.Context(), middleware.AccountIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusCreated, "post published", post)
	}
}

// BlogUpdate patches a post. Author or Admin.
func BlogUpdate(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "postId"), "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body blog.UpdatePostRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.Update(r.Context(), id, middleware.AccountIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "post updated", post)
	}
}

// BlogDelete removes a post. Author or Admin.
func BlogDelete(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "postId"), "postId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id, middleware.AccountIDFromContext(r.Context()), middleware.RoleFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "post deleted", nil)
	}
}
