package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/evn/pointeuse_backendl/internal/ledger"
	"github.com/evn/pointeuse_backendl/internal/pkg/response"
	"github.com/evn/pointeuse_backendl/internal/services"
)

// ExportXLSXHandler отчёт по завершённым сменам в .xlsx
func ExportXLSXHandler(led *ledger.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)

		headers := []string{"Employé", "Date", "Début", "Fin", "Heures", "Taux", "Salaire", "Payé"}
		for col, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for row, rec := range led.EndedShifts() {
			values := []interface{}{
				rec.Username,
				rec.StartTime.Format("02/01/2006"),
				rec.StartTime.Format("15:04"),
				rec.EndTime.Format("15:04"),
				rec.DurationHours,
				rec.Rate,
				rec.Pay,
				map[bool]string{true: "oui", false: "non"}[rec.Paid],
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="pointeuse.xlsx"`)
		if err := f.Write(w); err != nil {
			log.Printf("Failed to write xlsx: %v", err)
		}
	}
}

// ExportSheetsHandler выгрузка завершённых смен в Google-таблицу
func ExportSheetsHandler(led *ledger.Ledger, exporter *services.SheetsExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !exporter.Configured() {
			response.RespondWithError(w, http.StatusBadRequest, "SPREADSHEET_ID is not configured")
			return
		}

		count, err := exporter.AppendShifts(r.Context(), led.EndedShifts())
		if err != nil {
			log.Printf("Sheets export failed: %v", err)
			response.RespondWithError(w, http.StatusBadGateway, "Sheets export failed")
			return
		}

		response.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": fmt.Sprintf("Exported %d shifts", count),
			"rows":    count,
		})
	}
}
