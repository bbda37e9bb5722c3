package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wakelni/wakelni-backend/api/responses"
	"github.com/wakelni/wakelni-backend/api/validators"
	"github.com/wakelni/wakelni-backend/internal/complaints"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
	"github.com/wakelni/wakelni-backend/pkg/logger"
)

// ComplaintCreate files a complaint about one of the client's orders.
func ComplaintCreate(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		clientID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req complaints.CreateComplaintRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		complaint, err := svc.Create(ctx, clientID, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, complaint)
	}
}

// ComplaintMine lists complaints filed by the authenticated client.
func ComplaintMine(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		clientID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := svc.Mine(ctx, clientID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// ComplaintsReceived lists complaints targeting the authenticated cook's
// dishes.
func ComplaintsReceived(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		cookID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := svc.Received(ctx, cookID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// ComplaintChangeStatus lets the cook handling the complaint move it through
// the triage states.
func ComplaintChangeStatus(svc complaints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "complaints service unavailable"))
			return
		}

		cookID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		complaintID, err := parseUUIDParam(chi.URLParam(r, "complaintId"), "complaint id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req complaints.ChangeStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		complaint, err := svc.ChangeStatus(ctx, cookID, complaintID, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, complaint)
	}
}
