package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/evn/pointeuse_backendl/internal/pkg/response"
	"github.com/evn/pointeuse_backendl/internal/rates"
)

func GetRatesHandler(tbl *rates.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithJSON(w, http.StatusOK, tbl.Snapshot())
	}
}

type setRateRequest struct {
	Grade string  `json:"grade"`
	Rate  float64 `json:"rate"`
}

func SetRateHandler(tbl *rates.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input setRateRequest
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			response.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if input.Grade == "" {
			response.RespondWithError(w, http.StatusBadRequest, "Grade is required")
			return
		}

		if err := tbl.SetRate(r.Context(), input.Grade, input.Rate); err != nil {
			if errors.Is(err, rates.ErrNegativeRate) {
				response.RespondWithError(w, http.StatusBadRequest, "Rate must be non-negative")
				return
			}
			log.Printf("Failed to save rate %s: %v", input.Grade, err)
			response.RespondWithError(w, http.StatusInternalServerError, "Failed to save rate")
			return
		}

		response.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Rate saved"})
	}
}
