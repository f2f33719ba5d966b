package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/internal/middleware"
	"github.com/aditya/worknearby/internal/models"
	"github.com/aditya/worknearby/pkg/utils"
)

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := apperrors.As(err); ok {
		utils.Error(w, apiErr)
		return
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		utils.Error(w, apperrors.NewAPIError("request_cancelled", "request was cancelled", http.StatusServiceUnavailable, err))
	default:
		log.Printf("unhandled error: %v", err)
		utils.InternalError(w, "internal server error")
	}
}

// currentSession returns the session RequireSession attached, or writes 401.
func currentSession(w http.ResponseWriter, r *http.Request) (*models.Session, bool) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.Error(w, apperrors.Unauthorized("login required"))
		return nil, false
	}
	return session, true
}
