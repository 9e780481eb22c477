package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/evn/pointeuse_backendl/internal/models"
)

// jsonDocument плоский документ { grades, users }, переписывается целиком
// при каждой мутации
type jsonDocument struct {
	Grades map[string]float64              `json:"grades"`
	Users  map[string][]models.ShiftRecord `json:"users"`
}

// JSONRepository хранит всё в одном локальном JSON-файле
type JSONRepository struct {
	mu   sync.Mutex
	path string
	doc  jsonDocument
}

func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{
		path: path,
		doc: jsonDocument{
			Grades: make(map[string]float64),
			Users:  make(map[string][]models.ShiftRecord),
		},
	}
}

func (r *JSONRepository) Load(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		log.Printf("📄 Data file %s not found, starting empty", r.path)
		return r.snapshotLocked(), nil
	} else if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", r.path, err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("parse %s: %w", r.path, err)
	}
	if doc.Grades == nil {
		doc.Grades = make(map[string]float64)
	}
	if doc.Users == nil {
		doc.Users = make(map[string][]models.ShiftRecord)
	}
	r.doc = doc
	return r.snapshotLocked(), nil
}

func (r *JSONRepository) RecordShift(ctx context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.doc.Users[ev.UserID]
	recs := append([]models.ShiftRecord(nil), prev...)
	if ev.Action == ActionStart {
		recs = append(recs, ev.Record)
	} else {
		// Находим запись той же смены по времени начала и заменяем её
		replaced := false
		for i := len(recs) - 1; i >= 0; i-- {
			if recs[i].StartTime.Equal(ev.Record.StartTime) {
				recs[i] = ev.Record
				replaced = true
				break
			}
		}
		if !replaced {
			recs = append(recs, ev.Record)
		}
	}
	r.doc.Users[ev.UserID] = recs

	if err := r.writeLocked(); err != nil {
		r.doc.Users[ev.UserID] = prev
		return err
	}
	return nil
}

func (r *JSONRepository) SaveRates(ctx context.Context, grades map[string]float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.doc.Grades
	next := make(map[string]float64, len(grades))
	for k, v := range grades {
		next[k] = v
	}
	r.doc.Grades = next

	if err := r.writeLocked(); err != nil {
		r.doc.Grades = prev
		return err
	}
	return nil
}

func (r *JSONRepository) Close() error {
	return nil
}

// writeLocked переписывает файл атомарно через tmp + rename
func (r *JSONRepository) writeLocked() error {
	data, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (r *JSONRepository) snapshotLocked() Snapshot {
	snap := Snapshot{
		Grades: make(map[string]float64, len(r.doc.Grades)),
		Shifts: make(map[string][]models.ShiftRecord, len(r.doc.Users)),
	}
	for k, v := range r.doc.Grades {
		snap.Grades[k] = v
	}
	for userID, recs := range r.doc.Users {
		snap.Shifts[userID] = append([]models.ShiftRecord(nil), recs...)
	}
	return snap
}
