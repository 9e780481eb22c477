package models

import "time"

type ShiftStatus string

const (
	StatusIdle     ShiftStatus = "idle"
	StatusActive   ShiftStatus = "active"
	StatusPaused   ShiftStatus = "paused"
	StatusCooldown ShiftStatus = "cooldown"
)

// PauseInterval одна пауза внутри смены. End == nil пока пауза открыта.
type PauseInterval struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// ShiftRecord запись одной смены пользователя
type ShiftRecord struct {
	UserID        string          `json:"user_id"`
	Username      string          `json:"username"`
	Grade         string          `json:"grade"`
	StartTime     time.Time       `json:"start_time"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	Pauses        []PauseInterval `json:"pauses,omitempty"`
	Rate          float64         `json:"rate"`
	Status        ShiftStatus     `json:"status"`
	CooldownUntil *time.Time      `json:"cooldown_until,omitempty"`
	DurationHours float64         `json:"duration_hours,omitempty"`
	Pay           float64         `json:"pay,omitempty"`
	Paid          bool            `json:"paid,omitempty"`
}

func (r *ShiftRecord) Ended() bool {
	return r.EndTime != nil
}

// PausedTime суммирует только закрытые паузы
func (r *ShiftRecord) PausedTime() time.Duration {
	var total time.Duration
	for _, p := range r.Pauses {
		if p.End != nil {
			total += p.End.Sub(p.Start)
		}
	}
	return total
}

// OpenPause возвращает индекс открытой паузы или -1
func (r *ShiftRecord) OpenPause() int {
	for i := len(r.Pauses) - 1; i >= 0; i-- {
		if r.Pauses[i].End == nil {
			return i
		}
	}
	return -1
}
