package auth

import (
	"net/http"
	"strings"

	"github.com/farmstead/farmstead-backend/internal/auth/jwt"
	"github.com/farmstead/farmstead-backend/pkg/errors"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
)

// Middleware validates Bearer tokens and threads the user identity into the
// request context
func Middleware(manager *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.Error(w, errors.Unauthorized("invalid authorization header"))
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				httputil.Error(w, err)
				return
			}

			ctx := httputil.WithUserContext(r.Context(), claims.UserID, claims.Email, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
