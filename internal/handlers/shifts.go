package handlers

import (
	"net/http"
	"time"

	"github.com/evn/pointeuse_backendl/internal/ledger"
	"github.com/evn/pointeuse_backendl/internal/models"
	"github.com/evn/pointeuse_backendl/internal/pkg/response"
)

// ActiveShiftsHandler открытые смены всех пользователей с наработанным временем
func ActiveShiftsHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shifts := []map[string]interface{}{}
		for _, rec := range led.ActiveShifts() {
			worked := time.Since(rec.StartTime) - rec.PausedTime()
			if idx := rec.OpenPause(); idx >= 0 {
				worked -= time.Since(rec.Pauses[idx].Start)
			}
			shifts = append(shifts, map[string]interface{}{
				"user_id":     rec.UserID,
				"username":    rec.Username,
				"grade":       rec.Grade,
				"start_time":  rec.StartTime,
				"status":      rec.Status,
				"rate":        rec.Rate,
				"worked_time": response.FormatDuration(int(worked.Seconds())),
			})
		}
		response.RespondWithJSON(w, http.StatusOK, shifts)
	}
}

// EndedShiftsHandler завершённые смены с часами и оплатой
func EndedShiftsHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shifts := led.EndedShifts()
		if shifts == nil {
			shifts = []models.ShiftRecord{}
		}
		response.RespondWithJSON(w, http.StatusOK, shifts)
	}
}

// SummaryHandler агрегат по пользователям (только завершённые смены)
func SummaryHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithJSON(w, http.StatusOK, led.Summary())
	}
}
