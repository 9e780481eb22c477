package rates

import (
	"context"
	"errors"
	"sync"

	"github.com/evn/pointeuse_backendl/internal/repositories"
)

// DefaultGrade запись-фолбэк, существует всегда
const DefaultGrade = "everyone"

var ErrNegativeRate = errors.New("rate must be non-negative")

// Table почасовые тарифы по названию роли/грейда.
// Читается на каждом старте смены, пишется только админ-командами.
type Table struct {
	repo repositories.ShiftRepository

	mu      sync.RWMutex
	entries map[string]float64
}

func NewTable(repo repositories.ShiftRepository, defaultRate float64) *Table {
	return &Table{
		repo:    repo,
		entries: map[string]float64{DefaultGrade: defaultRate},
	}
}

// Restore загружает тарифы из снимка хранилища, не теряя фолбэк
func (t *Table) Restore(grades map[string]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for grade, rate := range grades {
		t.entries[grade] = rate
	}
}

// SetRate вставляет или перезаписывает тариф. Сначала запись в хранилище,
// потом фиксация в памяти.
func (t *Table) SetRate(ctx context.Context, grade string, rate float64) error {
	if rate < 0 {
		return ErrNegativeRate
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := make(map[string]float64, len(t.entries)+1)
	for k, v := range t.entries {
		next[k] = v
	}
	next[grade] = rate

	if err := t.repo.SaveRates(ctx, next); err != nil {
		return err
	}
	t.entries = next
	return nil
}

func (t *Table) GetRate(grade string) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rate, ok := t.entries[grade]
	return rate, ok
}

// ResolveRate максимальный тариф среди ролей пользователя,
// иначе запись по умолчанию
func (t *Table) ResolveRate(held []string) float64 {
	rate, _ := t.Resolve(held)
	return rate
}

// Resolve как ResolveRate, но возвращает и выбранный грейд
func (t *Table) Resolve(held []string) (float64, string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	best := t.entries[DefaultGrade]
	grade := DefaultGrade
	found := false
	for _, name := range held {
		rate, ok := t.entries[name]
		if !ok {
			continue
		}
		if !found || rate > best {
			best = rate
			grade = name
			found = true
		}
	}
	return best, grade
}

// Snapshot копия всех тарифов
func (t *Table) Snapshot() map[string]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]float64, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}
