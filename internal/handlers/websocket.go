// internal/handlers/websocket.go
package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/gorilla/websocket"

	"github.com/evn/pointeuse_backendl/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler живой фид событий смен. Браузерный клиент не может
// поставить заголовок Authorization, токен приходит query-параметром.
func WebSocketHandler(ja *jwtauth.JWTAuth, manager *services.EventsManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			http.Error(w, "token required", http.StatusUnauthorized)
			return
		}
		if _, err := jwtauth.VerifyToken(ja, tokenString); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Print("Upgrade error:", err)
			return
		}

		client := &services.Client{
			Conn: conn,
			Send: make(chan []byte, 256),
		}

		manager.Register(client)

		go manager.ReadPump(client)
		go manager.WritePump(client)
	}
}
