package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/evn/pointeuse_backendl/internal/pkg/response"
	"github.com/evn/pointeuse_backendl/internal/services"
)

// AuthHandler вход в админку: один служебный аккаунт из окружения
type AuthHandler struct {
	jwt          *services.JWTService
	username     string
	passwordHash string
}

func NewAuthHandler(jwt *services.JWTService, username, passwordHash string) *AuthHandler {
	return &AuthHandler{
		jwt:          jwt,
		username:     username,
		passwordHash: passwordHash,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if h.passwordHash == "" {
		log.Println("❌ ADMIN_PASSWORD_HASH не задан, вход в админку закрыт")
		response.RespondWithError(w, http.StatusForbidden, "Admin login disabled")
		return
	}

	if input.Username != h.username ||
		bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(input.Password)) != nil {
		response.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(input.Username)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		response.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	jti := token.JwtID()
	exp := token.Expiration()
	if jti != "" && !exp.IsZero() {
		if err := h.jwt.RevokeToken(r.Context(), jti, exp); err != nil {
			log.Printf("Failed to revoke token: %v", err)
		}
	}

	response.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
