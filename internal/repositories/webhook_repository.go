package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/evn/pointeuse_backendl/internal/models"
)

// WebhookRepository шлёт каждое действие в таблицу (Apps Script webhook).
// Таблица append-only: Load всегда возвращает пустое состояние, а тарифы
// для этого бэкенда живут только в памяти процесса.
type WebhookRepository struct {
	url    string
	client *http.Client
}

func NewWebhookRepository(url string) *WebhookRepository {
	return &WebhookRepository{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Type      string  `json:"type"`
	Action    string  `json:"action"`
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	Grade     string  `json:"grade"`
	Rate      float64 `json:"rate"`
	Timestamp string  `json:"timestamp"`
	Hours     float64 `json:"hours,omitempty"`
	Salary    float64 `json:"salary,omitempty"`
}

type webhookResponse struct {
	Date  string `json:"date"`
	Error string `json:"error"`
}

func (r *WebhookRepository) Load(ctx context.Context) (Snapshot, error) {
	return Snapshot{
		Grades: make(map[string]float64),
		Shifts: make(map[string][]models.ShiftRecord),
	}, nil
}

func (r *WebhookRepository) RecordShift(ctx context.Context, ev Event) error {
	payload := webhookPayload{
		Type:      "shift",
		Action:    ev.Action,
		UserID:    ev.UserID,
		Username:  ev.Username,
		Grade:     ev.Grade,
		Rate:      ev.Rate,
		Timestamp: ev.At.Format(time.RFC3339),
	}
	if ev.Action == ActionEnd {
		payload.Hours = ev.Record.DurationHours
		payload.Salary = ev.Record.Pay
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	var parsed webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		// Некоторые скрипты отвечают пустым телом, это не ошибка
		log.Printf("Webhook response decode: %v", err)
		return nil
	}
	if parsed.Error != "" {
		return fmt.Errorf("webhook rejected %s: %s", ev.Action, parsed.Error)
	}
	return nil
}

// SaveRates тарифы в таблицу не уходят, ими владеет сам скрипт
func (r *WebhookRepository) SaveRates(ctx context.Context, grades map[string]float64) error {
	return nil
}

func (r *WebhookRepository) Close() error {
	return nil
}
