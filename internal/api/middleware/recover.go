package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"

	"github.com/matiasleandrokruk/coffee-api/internal/api/handlers"
)

// Recoverer turns a handler panic into the INTERNAL_ERROR JSON response,
// logs it with the stack and reports it to the request's Sentry hub.
// http.ErrAbortHandler is re-raised untouched.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
					panic(rec)
				}

				ctx := r.Context()
				hub := sentry.GetHubFromContext(ctx)
				if hub == nil {
					hub = sentry.CurrentHub()
				}
				hub.RecoverWithContext(ctx, rec)

				log.ErrorContext(ctx, "Recovered from panic",
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()))
				handlers.WriteInternalError(w, panicType(rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// panicType names the panic value's type, e.g. "runtime.Error" or "string".
func panicType(rec any) string {
	if _, ok := rec.(interface{ RuntimeError() }); ok {
		return "runtime.Error"
	}
	return fmt.Sprintf("%T", rec)
}
