package ledger

import (
	"errors"
	"fmt"
)

// Все отказы по состоянию заворачивают ErrActionNotAllowed,
// чтобы вызывающий мог отличать их одной проверкой errors.Is
var (
	ErrActionNotAllowed = errors.New("action not allowed")
	ErrAlreadyActive    = fmt.Errorf("%w: shift already active", ErrActionNotAllowed)
	ErrNoActiveShift    = fmt.Errorf("%w: no active shift", ErrActionNotAllowed)
	ErrNotPaused        = fmt.Errorf("%w: shift is not paused", ErrActionNotAllowed)
	ErrCooldown         = fmt.Errorf("%w: cooldown in progress", ErrActionNotAllowed)
	ErrNothingToPay     = errors.New("no ended shift awaiting payment")
)

// PersistenceError запись в хранилище не прошла, состояние в памяти
// не менялось
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failure: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
