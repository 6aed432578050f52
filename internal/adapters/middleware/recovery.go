package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recovery is the top-level error boundary. A panic becomes a generic 500
// offering retry and home actions; development mode also returns the raw
// message and the digest it was logged under.
func Recovery(development bool, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("recovery")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				digest := uuid.NewString()
				message := fmt.Sprint(rec)
				logger.Error("unhandled error",
					zap.String("digest", digest),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("panic", message),
					zap.ByteString("stack", debug.Stack()))

				resp := ErrorResponse{
					Error:   "Something went wrong",
					Actions: []string{"retry", "home"},
				}
				if development {
					resp.Message = message
					resp.Digest = digest
				}
				WriteJSON(w, http.StatusInternalServerError, resp)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
