package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/evn/pointeuse_backendl/internal/pkg/response"
	"github.com/evn/pointeuse_backendl/internal/services"
)

// CheckRevoked отклоняет токены, отозванные через /api/logout
func CheckRevoked(jwtSvc *services.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			if jwtSvc.IsRevoked(r.Context(), token.JwtID()) {
				response.RespondWithError(w, http.StatusUnauthorized, "Token revoked")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
