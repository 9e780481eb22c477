package repositories

import (
	"context"
	"time"

	"github.com/evn/pointeuse_backendl/internal/models"
)

// Действия пуантёзы, в том виде в каком они уходят в хранилище
const (
	ActionStart  = "start"
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionEnd    = "end"
	ActionPay    = "pay"
)

// Event одно действие пользователя вместе с состоянием записи после перехода
type Event struct {
	Action   string
	UserID   string
	Username string
	Grade    string
	Rate     float64
	At       time.Time
	Record   models.ShiftRecord
}

// Snapshot полное состояние, прочитанное при старте
type Snapshot struct {
	Grades map[string]float64
	Shifts map[string][]models.ShiftRecord
}

// ShiftRepository абстракция над тремя бэкендами (json / sqlite / webhook).
// RecordShift должен завершиться успешно до того, как леджер зафиксирует
// переход в памяти.
type ShiftRepository interface {
	Load(ctx context.Context) (Snapshot, error)
	RecordShift(ctx context.Context, ev Event) error
	SaveRates(ctx context.Context, grades map[string]float64) error
	Close() error
}
