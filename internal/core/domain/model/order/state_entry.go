package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrStateEntryIsNotConstructed is returned when a StateEntry was not
	// created through NewStateEntry or RestoreStateEntry.
	ErrStateEntryIsNotConstructed = errors.New("StateEntry must be created via NewStateEntry constructor")

	// ErrStateEntryAlreadyClosed is returned when closing an entry twice.
	ErrStateEntryAlreadyClosed = errors.New("state entry is already closed")
)

// StateEntry is one row of the order's append-only state ledger: the order
// occupied one state, under one operator, from start until end. An entry with
// no end timestamp is the order's current state; the aggregate guarantees at
// most one of those exists.
type StateEntry struct {
	id kernel.UUID

	state State

	// operatorID is the operator responsible while this entry is open.
	// It is nil only for the initial Unassigned entry.
	operatorID *kernel.UUID

	comment string

	startedAt time.Time

	// endedAt is nil while the entry is open.
	endedAt *time.Time

	// delayedUntil schedules an automatic transition back to Confirmed.
	// Only Postponed entries carry it.
	delayedUntil *time.Time

	guard guard.ConstructorGuard
}

// NewStateEntry opens a new ledger entry. Only the aggregate calls this.
func NewStateEntry(
	id kernel.UUID,
	state State,
	operatorID *kernel.UUID,
	comment string,
	startedAt time.Time,
	delayedUntil *time.Time,
) (*StateEntry, error) {
	entry := &StateEntry{
		comment:      comment,
		startedAt:    startedAt,
		delayedUntil: delayedUntil,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		entry.setID(id),
		entry.setState(state),
		entry.setOperatorID(operatorID),
	); err != nil {
		return nil, err
	}

	if startedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("state entry start timestamp")
	}

	return entry, nil
}

// RestoreStateEntry reconstructs an entry from persistence, including a
// possibly already-set end timestamp.
func RestoreStateEntry(
	id kernel.UUID,
	state State,
	operatorID *kernel.UUID,
	comment string,
	startedAt time.Time,
	endedAt *time.Time,
	delayedUntil *time.Time,
) (*StateEntry, error) {
	entry, err := NewStateEntry(id, state, operatorID, comment, startedAt, delayedUntil)
	if err != nil {
		return nil, err
	}

	if endedAt != nil {
		if endedAt.Before(startedAt) {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"state entry end timestamp",
				fmt.Errorf("end %s precedes start %s", endedAt, startedAt),
			)
		}
		entry.endedAt = endedAt
	}

	return entry, nil
}

// Validate ensures the entry was built via a constructor.
func (e *StateEntry) Validate() error {
	if e == nil {
		return ErrStateEntryIsNotConstructed
	}
	return e.guard.Validate(ErrStateEntryIsNotConstructed)
}

// ID returns the entry's identifier.
func (e *StateEntry) ID() kernel.UUID {
	return e.id
}

// State returns the state this entry records.
func (e *StateEntry) State() State {
	return e.state
}

// OperatorID returns the responsible operator, nil for the initial entry.
func (e *StateEntry) OperatorID() *kernel.UUID {
	return e.operatorID
}

// Comment returns the free-text comment recorded with the transition.
func (e *StateEntry) Comment() string {
	return e.comment
}

// StartedAt returns when the order entered this state.
func (e *StateEntry) StartedAt() time.Time {
	return e.startedAt
}

// EndedAt returns when the order left this state, nil while open.
func (e *StateEntry) EndedAt() *time.Time {
	return e.endedAt
}

// DelayedUntil returns the scheduled automatic-transition timestamp, if any.
func (e *StateEntry) DelayedUntil() *time.Time {
	return e.delayedUntil
}

// IsOpen reports whether this entry is the order's current state.
func (e *StateEntry) IsOpen() bool {
	return e.endedAt == nil
}

// IsDelayedTransitionDue reports whether the entry carries a delayed
// transition whose timestamp has elapsed.
func (e *StateEntry) IsDelayedTransitionDue(now time.Time) bool {
	return e.IsOpen() && e.delayedUntil != nil && !e.delayedUntil.After(now)
}

// close stamps the end timestamp. The aggregate is the only caller; the
// start-before-end invariant is enforced by clamping to the start.
func (e *StateEntry) close(at time.Time) error {
	if e.endedAt != nil {
		return ErrStateEntryAlreadyClosed
	}
	if at.Before(e.startedAt) {
		at = e.startedAt
	}
	e.endedAt = &at
	return nil
}

func (e *StateEntry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *StateEntry) setState(state State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	e.state = state
	return nil
}

func (e *StateEntry) setOperatorID(operatorID *kernel.UUID) error {
	if operatorID == nil {
		return nil
	}
	if err := operatorID.Validate(); err != nil {
		return err
	}
	e.operatorID = operatorID
	return nil
}
