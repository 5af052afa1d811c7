package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/DanielPopoola/sberbank-gateway/internal/application"
)

var timeoutBody = `{"success":false,"error":{"code":"` + application.ErrCodeTimeout + `","message":"Request timeout"}}`

func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			timeoutHandler := http.TimeoutHandler(next, timeout, timeoutBody)

			timeoutHandler.ServeHTTP(w, r)
		})
	}
}
