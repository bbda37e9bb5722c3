package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/api/middleware"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
)

// currentUserID resolves the authenticated user's UUID from the request
// context populated by the auth middleware.
func currentUserID(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id in session")
	}
	return id, nil
}

func parseUUIDParam(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}
