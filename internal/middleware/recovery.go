package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	apperrors "github.com/aditya/worknearby/internal/errors"
	"github.com/aditya/worknearby/pkg/utils"
	"github.com/go-chi/chi/v5/middleware"
)

// Recovery turns a panic in a handler into a 500 with the standard error body.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("[%s] panic recovered on %s %s: %v\n%s",
					middleware.GetReqID(r.Context()), r.Method, r.URL.Path, rec, debug.Stack())

				utils.Error(w, apperrors.InternalError("an unexpected error occurred"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
