package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID takes the caller-supplied X-Request-Id, or mints one, echoes it
// back on the response and binds it to the request's log context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
