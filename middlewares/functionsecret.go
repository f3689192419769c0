package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/pkg/errors"

	"unilance/utils"
)

const FunctionSecretHeader = "X-Function-Secret"

// FunctionSecret guards function invocations with a shared secret instead of
// a user session. An unset secret disables the endpoints entirely.
func (s *Service) FunctionSecret() func(http.Handler) http.Handler {
	secret := []byte(s.cfg.Functions.Secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				utils.RespondError(w, http.StatusServiceUnavailable, errors.New("functions secret not configured"), "functions disabled")
				return
			}
			got := []byte(r.Header.Get(FunctionSecretHeader))
			if subtle.ConstantTimeCompare(got, secret) != 1 {
				utils.RespondError(w, http.StatusUnauthorized, errors.New("bad function secret"), "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
