package services

import (
	"log"
	"net/http"
	"time"
)

// KeepAlive пингует собственный URL, чтобы хостинг не усыплял процесс.
// Запускается отдельной горутиной из main.
func KeepAlive(selfURL string, interval time.Duration) {
	if selfURL == "" {
		log.Println("⚠️ SELF_URL не задан, автопинг отключен")
		return
	}

	log.Printf("🔄 Автопинг включен: %s каждые %s", selfURL, interval)
	client := &http.Client{Timeout: 30 * time.Second}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		resp, err := client.Get(selfURL)
		if err != nil {
			log.Printf("[AUTO PING ERROR] %s: %v", selfURL, err)
			continue
		}
		resp.Body.Close()
		log.Printf("[AUTO PING] %s - Status: %d", selfURL, resp.StatusCode)
	}
}
