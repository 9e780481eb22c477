package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Универсальные ответы
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// FormatDuration человекочитаемая длительность для сводок ("1 h 30 min")
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0 min"
	}
	hours := seconds / 3600
	mins := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%d h %d min", hours, mins)
	}
	return fmt.Sprintf("%d min", mins)
}

// FormatEuros сумма с двумя знаками, как в выплатных сообщениях
func FormatEuros(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
