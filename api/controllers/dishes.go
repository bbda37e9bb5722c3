package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/api/middleware"
	"github.com/wakelni/wakelni-backend/api/responses"
	"github.com/wakelni/wakelni-backend/api/validators"
	"github.com/wakelni/wakelni-backend/internal/dishes"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
	"github.com/wakelni/wakelni-backend/pkg/logger"
)

// DishList returns the public catalog of active dishes, optionally filtered
// by city, paginated by cursor.
func DishList(svc dishes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dishes service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params := dishes.ListParams{
			City:   validators.SanitizeString(r.URL.Query().Get("city"), 120),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		result, err := svc.List(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// DishGet returns a single dish. Inactive dishes stay visible to their cook
// only; the handler works for anonymous callers as well.
func DishGet(svc dishes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dishes service unavailable"))
			return
		}

		dishID, err := parseUUIDParam(chi.URLParam(r, "dishId"), "dish id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		actorID := uuid.Nil
		if raw := middleware.UserIDFromContext(ctx); raw != "" {
			if parsed, parseErr := uuid.Parse(raw); parseErr == nil {
				actorID = parsed
			}
		}

		dish, err := svc.Get(ctx, dishID, actorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dish)
	}
}

// DishMine lists every dish owned by the authenticated cook, inactive ones
// included.
func DishMine(svc dishes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dishes service unavailable"))
			return
		}

		cookID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := svc.Mine(ctx, cookID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// DishCreate publishes a new dish for the authenticated cook.
func DishCreate(svc dishes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dishes service unavailable"))
			return
		}

		cookID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req dishes.CreateDishRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dish, err := svc.Create(ctx, cookID, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dish)
	}
}

// DishUpdate patches a dish owned by the authenticated cook.
func DishUpdate(svc dishes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dishes service unavailable"))
			return
		}

		cookID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dishID, err := parseUUIDParam(chi.URLParam(r, "dishId"), "dish id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req dishes.UpdateDishRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dish, err := svc.Update(ctx, cookID, dishID, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, dish)
	}
}

// DishDelete removes a dish owned by the authenticated cook.
func DishDelete(svc dishes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dishes service unavailable"))
			return
		}

		cookID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dishID, err := parseUUIDParam(chi.URLParam(r, "dishId"), "dish id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, cookID, dishID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
