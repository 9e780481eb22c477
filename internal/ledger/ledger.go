package ledger

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/evn/pointeuse_backendl/internal/models"
	"github.com/evn/pointeuse_backendl/internal/repositories"
)

// Ledger владеет записями смен и машиной состояний
// Idle -> Active -> (Paused <-> Active) -> Cooldown -> Idle.
// Все четыре перехода атомарны по userID: на пользователя берётся
// отдельный мьютекс, и переход фиксируется в памяти только после
// успешной записи в хранилище.
type Ledger struct {
	repo     repositories.ShiftRepository
	cooldown time.Duration
	now      func() time.Time

	mu    sync.Mutex
	open  map[string]*models.ShiftRecord
	ended map[string][]models.ShiftRecord
	locks map[string]*sync.Mutex
}

// EndResult итог завершённой смены
type EndResult struct {
	DurationHours float64
	Pay           float64
	Record        models.ShiftRecord
}

func New(repo repositories.ShiftRepository, cooldown time.Duration) *Ledger {
	return &Ledger{
		repo:     repo,
		cooldown: cooldown,
		now:      time.Now,
		open:     make(map[string]*models.ShiftRecord),
		ended:    make(map[string][]models.ShiftRecord),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Restore заполняет леджер из снимка хранилища. Кулдаун восстанавливается
// по последней завершённой смене: рестарт процесса его не сбрасывает.
func (l *Ledger) Restore(shifts map[string][]models.ShiftRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for userID, recs := range shifts {
		var latestEnded *models.ShiftRecord
		for i := range recs {
			rec := recs[i]
			if rec.Ended() {
				rec.Status = models.StatusIdle
				rec.CooldownUntil = nil
				l.ended[userID] = append(l.ended[userID], rec)
				if latestEnded == nil || rec.EndTime.After(*latestEnded.EndTime) {
					latestEnded = &recs[i]
				}
				continue
			}
			open := rec
			if open.OpenPause() >= 0 {
				open.Status = models.StatusPaused
			} else {
				open.Status = models.StatusActive
			}
			l.open[userID] = &open
		}
		if l.open[userID] == nil && latestEnded != nil {
			until := latestEnded.EndTime.Add(l.cooldown)
			if now.Before(until) {
				marker := *latestEnded
				marker.Status = models.StatusCooldown
				marker.CooldownUntil = &until
				l.open[userID] = &marker
			}
		}
	}
}

// Start Idle -> Active. Тариф снимается один раз и больше не меняется.
func (l *Ledger) Start(ctx context.Context, userID, username, grade string, rate float64) (models.ShiftRecord, error) {
	lk := l.userLock(userID)
	lk.Lock()
	defer lk.Unlock()

	now := l.now()
	cur := l.current(userID)
	if cur != nil {
		if cur.Status != models.StatusCooldown {
			return models.ShiftRecord{}, ErrAlreadyActive
		}
		if cur.CooldownUntil != nil && now.Before(*cur.CooldownUntil) {
			return models.ShiftRecord{}, ErrCooldown
		}
		// Кулдаун истёк, дальше как из Idle
	}

	rec := models.ShiftRecord{
		UserID:    userID,
		Username:  username,
		Grade:     grade,
		StartTime: now,
		Rate:      rate,
		Status:    models.StatusActive,
	}

	ev := repositories.Event{
		Action:   repositories.ActionStart,
		UserID:   userID,
		Username: username,
		Grade:    grade,
		Rate:     rate,
		At:       now,
		Record:   rec,
	}
	if err := l.repo.RecordShift(ctx, ev); err != nil {
		return models.ShiftRecord{}, &PersistenceError{Err: err}
	}

	l.commit(userID, &rec)
	return rec, nil
}

// Pause Active -> Paused, открывает интервал паузы
func (l *Ledger) Pause(ctx context.Context, userID string) error {
	lk := l.userLock(userID)
	lk.Lock()
	defer lk.Unlock()

	cur := l.current(userID)
	if cur == nil || cur.Status != models.StatusActive {
		return ErrNoActiveShift
	}

	now := l.now()
	next := cloneRecord(cur)
	next.Pauses = append(next.Pauses, models.PauseInterval{Start: now})
	next.Status = models.StatusPaused

	if err := l.persist(ctx, repositories.ActionPause, now, next); err != nil {
		return err
	}
	l.commit(userID, next)
	return nil
}

// Resume Paused -> Active, закрывает текущий интервал паузы
func (l *Ledger) Resume(ctx context.Context, userID string) error {
	lk := l.userLock(userID)
	lk.Lock()
	defer lk.Unlock()

	cur := l.current(userID)
	if cur == nil || cur.Status != models.StatusPaused {
		return ErrNotPaused
	}

	now := l.now()
	next := cloneRecord(cur)
	if i := next.OpenPause(); i >= 0 {
		next.Pauses[i].End = &now
	}
	next.Status = models.StatusActive

	if err := l.persist(ctx, repositories.ActionResume, now, next); err != nil {
		return err
	}
	l.commit(userID, next)
	return nil
}

// End Active|Paused -> Cooldown. Часы считаются без закрытых пауз,
// часы и оплата округляются до двух знаков.
func (l *Ledger) End(ctx context.Context, userID string) (EndResult, error) {
	lk := l.userLock(userID)
	lk.Lock()
	defer lk.Unlock()

	cur := l.current(userID)
	if cur == nil || (cur.Status != models.StatusActive && cur.Status != models.StatusPaused) {
		return EndResult{}, ErrNoActiveShift
	}

	now := l.now()
	next := cloneRecord(cur)
	if i := next.OpenPause(); i >= 0 {
		next.Pauses[i].End = &now
	}

	worked := now.Sub(next.StartTime) - next.PausedTime()
	hours := round2(worked.Hours())
	pay := round2(hours * next.Rate)
	until := now.Add(l.cooldown)

	next.EndTime = &now
	next.Status = models.StatusCooldown
	next.CooldownUntil = &until
	next.DurationHours = hours
	next.Pay = pay

	if err := l.persist(ctx, repositories.ActionEnd, now, next); err != nil {
		return EndResult{}, err
	}

	// В архив уходит нейтральная копия: кулдаун живёт только на маркере
	archived := *next
	archived.Status = models.StatusIdle
	archived.CooldownUntil = nil

	l.mu.Lock()
	l.ended[userID] = append(l.ended[userID], archived)
	l.open[userID] = next
	l.mu.Unlock()

	return EndResult{DurationHours: hours, Pay: pay, Record: *next}, nil
}

// MarkPaid отмечает оплаченной последнюю завершённую неоплаченную смену
func (l *Ledger) MarkPaid(ctx context.Context, userID string) (models.ShiftRecord, error) {
	lk := l.userLock(userID)
	lk.Lock()
	defer lk.Unlock()

	l.mu.Lock()
	recs := l.ended[userID]
	idx := -1
	for i := len(recs) - 1; i >= 0; i-- {
		if !recs[i].Paid {
			idx = i
			break
		}
	}
	l.mu.Unlock()
	if idx < 0 {
		return models.ShiftRecord{}, ErrNothingToPay
	}

	next := recs[idx]
	next.Paid = true
	if err := l.persist(ctx, repositories.ActionPay, l.now(), &next); err != nil {
		return models.ShiftRecord{}, err
	}

	l.mu.Lock()
	l.ended[userID][idx] = next
	if cur := l.open[userID]; cur != nil && cur.Ended() && cur.StartTime.Equal(next.StartTime) {
		cur.Paid = true
	}
	l.mu.Unlock()
	return next, nil
}

// Status текущее состояние пользователя (для кулдауна учитывает истечение)
func (l *Ledger) Status(userID string) models.ShiftStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.open[userID]
	if !ok {
		return models.StatusIdle
	}
	if cur.Status == models.StatusCooldown &&
		(cur.CooldownUntil == nil || !l.now().Before(*cur.CooldownUntil)) {
		return models.StatusIdle
	}
	return cur.Status
}

// ActiveShifts открытые смены (Active и Paused), отсортированы по началу
func (l *Ledger) ActiveShifts() []models.ShiftRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []models.ShiftRecord
	for _, rec := range l.open {
		if rec.Status == models.StatusActive || rec.Status == models.StatusPaused {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// EndedShifts завершённые смены всех пользователей
func (l *Ledger) EndedShifts() []models.ShiftRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []models.ShiftRecord
	for _, recs := range l.ended {
		out = append(out, recs...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// Summary агрегат Summarize по всем завершённым сменам леджера
func (l *Ledger) Summary() map[string]models.ShiftSummary {
	return Summarize(l.EndedShifts())
}

// PurgeExpired убирает маркеры кулдауна с истёкшим сроком,
// возвращает сколько снято
func (l *Ledger) PurgeExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	purged := 0
	for userID, rec := range l.open {
		if rec.Status != models.StatusCooldown {
			continue
		}
		if rec.CooldownUntil == nil || !now.Before(*rec.CooldownUntil) {
			delete(l.open, userID)
			purged++
		}
	}
	return purged
}

// Summarize чистая агрегация: только завершённые смены, аддитивно
// по пользователю
func Summarize(records []models.ShiftRecord) map[string]models.ShiftSummary {
	out := make(map[string]models.ShiftSummary)
	for _, rec := range records {
		if !rec.Ended() {
			continue
		}
		s := out[rec.UserID]
		s.UserID = rec.UserID
		s.Username = rec.Username
		s.Shifts++
		s.TotalHours = round2(s.TotalHours + rec.DurationHours)
		s.TotalPay = round2(s.TotalPay + rec.Pay)
		out[rec.UserID] = s
	}
	return out
}

// userLock выдаёт мьютекс пользователя. Записи из карты не удаляются:
// перевыдача мьютекса под незавершённым вызовом сломала бы взаимное
// исключение, а карта ограничена числом различных userID гильдии.
func (l *Ledger) userLock(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[userID]
	if !ok {
		lk = &sync.Mutex{}
		l.locks[userID] = lk
	}
	return lk
}

func (l *Ledger) current(userID string) *models.ShiftRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open[userID]
}

func (l *Ledger) commit(userID string, rec *models.ShiftRecord) {
	l.mu.Lock()
	l.open[userID] = rec
	l.mu.Unlock()
}

func (l *Ledger) persist(ctx context.Context, action string, at time.Time, rec *models.ShiftRecord) error {
	ev := repositories.Event{
		Action:   action,
		UserID:   rec.UserID,
		Username: rec.Username,
		Grade:    rec.Grade,
		Rate:     rec.Rate,
		At:       at,
		Record:   *rec,
	}
	if err := l.repo.RecordShift(ctx, ev); err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}

func cloneRecord(rec *models.ShiftRecord) *models.ShiftRecord {
	next := *rec
	next.Pauses = append([]models.PauseInterval(nil), rec.Pauses...)
	return &next
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
