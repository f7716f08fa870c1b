package middleware

import (
	"crypto/subtle"
	"net/http"
)

const cronSecretHeader = "X-Cron-Secret"

// CronSecret authenticates the external hourly trigger with a shared secret
// header. Constant-time comparison; a wrong or missing secret is a 401.
func CronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(cronSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
