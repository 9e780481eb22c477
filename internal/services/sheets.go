package services

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/evn/pointeuse_backendl/internal/models"
)

// SheetsExporter выгружает завершённые смены в Google-таблицу
type SheetsExporter struct {
	spreadsheetID   string
	credentialsFile string
}

func NewSheetsExporter(spreadsheetID, credentialsFile string) *SheetsExporter {
	return &SheetsExporter{
		spreadsheetID:   spreadsheetID,
		credentialsFile: credentialsFile,
	}
}

func (e *SheetsExporter) Configured() bool {
	return e.spreadsheetID != ""
}

// AppendShifts дописывает строки [сотрудник, дата, часы, оплата, статус]
// в конец листа, возвращает число добавленных строк
func (e *SheetsExporter) AppendShifts(ctx context.Context, records []models.ShiftRecord) (int, error) {
	if !e.Configured() {
		return 0, fmt.Errorf("SPREADSHEET_ID не задан")
	}

	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(e.credentialsFile))
	if err != nil {
		return 0, fmt.Errorf("ошибка инициализации Google API: %w", err)
	}

	var values [][]interface{}
	for _, rec := range records {
		if !rec.Ended() {
			continue
		}
		paid := "non payé"
		if rec.Paid {
			paid = "payé"
		}
		values = append(values, []interface{}{
			rec.Username,
			rec.StartTime.Format("02/01/2006"),
			rec.DurationHours,
			rec.Pay,
			paid,
		})
	}
	if len(values) == 0 {
		return 0, nil
	}

	vr := &sheets.ValueRange{Values: values}
	_, err = srv.Spreadsheets.Values.Append(e.spreadsheetID, "A1", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("ошибка записи в таблицу: %w", err)
	}
	return len(values), nil
}
