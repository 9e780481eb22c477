package rates

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evn/pointeuse_backendl/internal/repositories"
)

type stubRepo struct {
	saved map[string]float64
	fail  error
}

func (s *stubRepo) Load(ctx context.Context) (repositories.Snapshot, error) {
	return repositories.Snapshot{}, nil
}

func (s *stubRepo) RecordShift(ctx context.Context, ev repositories.Event) error {
	return nil
}

func (s *stubRepo) SaveRates(ctx context.Context, grades map[string]float64) error {
	if s.fail != nil {
		return s.fail
	}
	s.saved = grades
	return nil
}

func (s *stubRepo) Close() error { return nil }

func TestResolveMaxHeldRole(t *testing.T) {
	tbl := NewTable(&stubRepo{}, 5)
	ctx := context.Background()
	require.NoError(t, tbl.SetRate(ctx, "A", 10))
	require.NoError(t, tbl.SetRate(ctx, "B", 20))

	assert.Equal(t, 20.0, tbl.ResolveRate([]string{"A", "B"}))
	assert.Equal(t, 10.0, tbl.ResolveRate([]string{"A", "C"}))
	// Роли без тарифа -> фолбэк
	assert.Equal(t, 5.0, tbl.ResolveRate([]string{"C", "D"}))
	assert.Equal(t, 5.0, tbl.ResolveRate(nil))
}

func TestResolveReturnsGradeName(t *testing.T) {
	tbl := NewTable(&stubRepo{}, 5)
	ctx := context.Background()
	require.NoError(t, tbl.SetRate(ctx, "serveur", 11))

	rate, grade := tbl.Resolve([]string{"serveur"})
	assert.Equal(t, 11.0, rate)
	assert.Equal(t, "serveur", grade)

	rate, grade = tbl.Resolve([]string{"inconnu"})
	assert.Equal(t, 5.0, rate)
	assert.Equal(t, DefaultGrade, grade)
}

func TestSetRateValidation(t *testing.T) {
	tbl := NewTable(&stubRepo{}, 5)
	err := tbl.SetRate(context.Background(), "A", -1)
	assert.ErrorIs(t, err, ErrNegativeRate)
	_, ok := tbl.GetRate("A")
	assert.False(t, ok)
}

func TestSetRatePersistsBeforeCommit(t *testing.T) {
	repo := &stubRepo{fail: errors.New("disk full")}
	tbl := NewTable(repo, 5)

	err := tbl.SetRate(context.Background(), "A", 10)
	require.Error(t, err)
	_, ok := tbl.GetRate("A")
	assert.False(t, ok)

	repo.fail = nil
	require.NoError(t, tbl.SetRate(context.Background(), "A", 10))
	assert.Equal(t, 10.0, repo.saved["A"])
	assert.Equal(t, 5.0, repo.saved[DefaultGrade])
}

func TestDefaultEntryAlwaysPresent(t *testing.T) {
	tbl := NewTable(&stubRepo{}, 7)
	rate, ok := tbl.GetRate(DefaultGrade)
	require.True(t, ok)
	assert.Equal(t, 7.0, rate)

	// Restore не затирает фолбэк, если его нет в снимке
	tbl.Restore(map[string]float64{"A": 3})
	rate, ok = tbl.GetRate(DefaultGrade)
	require.True(t, ok)
	assert.Equal(t, 7.0, rate)
}

func TestRestoreOverridesDefault(t *testing.T) {
	tbl := NewTable(&stubRepo{}, 7)
	tbl.Restore(map[string]float64{DefaultGrade: 9})
	assert.Equal(t, 9.0, tbl.ResolveRate(nil))
}
