package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/evn/pointeuse_backendl/internal/models"
)

// SQLiteRepository две таблицы: sessions (одна открытая строка с "end" IS NULL
// на пользователя) и roles (тариф по грейду)
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{
		Grades: make(map[string]float64),
		Shifts: make(map[string][]models.ShiftRecord),
	}

	rateRows, err := r.db.QueryContext(ctx, `SELECT role, rate FROM roles`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query roles: %w", err)
	}
	defer rateRows.Close()
	for rateRows.Next() {
		var role string
		var rate float64
		if err := rateRows.Scan(&role, &rate); err != nil {
			log.Printf("Error scanning role row: %v", err)
			continue
		}
		snap.Grades[role] = rate
	}
	if err := rateRows.Err(); err != nil {
		return Snapshot{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, username, grade, start, "end", rate, pauses, duration_hours, pay, paid
		FROM sessions
		ORDER BY start
	`)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.ShiftRecord
		var end sql.NullTime
		var pausesJSON string
		var durationHours, pay sql.NullFloat64
		var paid int
		if err := rows.Scan(&rec.UserID, &rec.Username, &rec.Grade, &rec.StartTime,
			&end, &rec.Rate, &pausesJSON, &durationHours, &pay, &paid); err != nil {
			log.Printf("Error scanning session row: %v", err)
			continue
		}
		if pausesJSON != "" {
			if err := json.Unmarshal([]byte(pausesJSON), &rec.Pauses); err != nil {
				log.Printf("Bad pauses payload for user %s: %v", rec.UserID, err)
			}
		}
		if end.Valid {
			t := end.Time
			rec.EndTime = &t
			// Закрытая строка - это архив, а не состояние пользователя.
			// Кулдаун после рестарта восстанавливает леджер по EndTime.
			rec.Status = models.StatusIdle
			rec.DurationHours = durationHours.Float64
			rec.Pay = pay.Float64
		} else if rec.OpenPause() >= 0 {
			rec.Status = models.StatusPaused
		} else {
			rec.Status = models.StatusActive
		}
		rec.Paid = paid != 0
		snap.Shifts[rec.UserID] = append(snap.Shifts[rec.UserID], rec)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *SQLiteRepository) RecordShift(ctx context.Context, ev Event) error {
	pauses, err := json.Marshal(ev.Record.Pauses)
	if err != nil {
		return fmt.Errorf("marshal pauses: %w", err)
	}

	switch ev.Action {
	case ActionStart:
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO sessions (user_id, username, grade, start, rate, pauses, paid)
			VALUES (?, ?, ?, ?, ?, ?, 0)
		`, ev.UserID, ev.Username, ev.Grade, ev.Record.StartTime, ev.Rate, string(pauses))
	case ActionPause, ActionResume:
		_, err = r.db.ExecContext(ctx, `
			UPDATE sessions SET pauses = ? WHERE user_id = ? AND "end" IS NULL
		`, string(pauses), ev.UserID)
	case ActionEnd:
		_, err = r.db.ExecContext(ctx, `
			UPDATE sessions SET "end" = ?, pauses = ?, duration_hours = ?, pay = ?
			WHERE user_id = ? AND "end" IS NULL
		`, ev.Record.EndTime, string(pauses), ev.Record.DurationHours, ev.Record.Pay, ev.UserID)
	case ActionPay:
		_, err = r.db.ExecContext(ctx, `
			UPDATE sessions SET paid = 1 WHERE user_id = ? AND start = ?
		`, ev.UserID, ev.Record.StartTime)
	default:
		return fmt.Errorf("unknown action: %s", ev.Action)
	}
	if err != nil {
		return fmt.Errorf("record %s for user %s: %w", ev.Action, ev.UserID, err)
	}
	return nil
}

func (r *SQLiteRepository) SaveRates(ctx context.Context, grades map[string]float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM roles`); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}
	for role, rate := range grades {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO roles (role, rate) VALUES (?, ?)`, role, rate); err != nil {
			return fmt.Errorf("insert role %s: %w", role, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
