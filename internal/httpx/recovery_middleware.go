package httpx

import (
	"net/http"
	"runtime/debug"

	"gamehub/internal/logging"
)

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := wrapResponseWriter(w)
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logging.Ctx(r.Context()).Error().
					Interface("panic", err).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				if !rw.wroteHeader() {
					JSONError(rw, r, http.StatusInternalServerError, "INTERNAL", "An internal error occurred", nil)
				}
			}
		}()
		next.ServeHTTP(rw, r)
	})
}
