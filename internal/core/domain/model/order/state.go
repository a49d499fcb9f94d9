package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/pkg/errs"
)

// ErrIllegalTransition is the sentinel for state transitions the machine does
// not permit, either because of the current state or the acting role.
var ErrIllegalTransition = errors.New("illegal state transition")

// IllegalTransitionError reports a rejected state transition with enough
// detail for the caller to display a precise message.
type IllegalTransitionError struct {
	From  State
	To    State
	Cause error
}

func newIllegalTransitionError(from, to State, cause error) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, To: to, Cause: cause}
}

func (e *IllegalTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s -> %s (cause: %s)", ErrIllegalTransition, e.From, e.To, e.Cause)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// State is the closed set of positions an order can occupy in the fulfillment
// pipeline. Transition legality is encoded in the table below rather than in
// string comparisons at call sites; states never exist outside this enum.
type State int

const (
	// StateUnknown catches uninitialized State values.
	StateUnknown State = iota

	// Unassigned is the intake state before any confirmation operator owns the order.
	Unassigned

	// Assigned means a confirmation operator owns the order but has not started on it.
	Assigned

	// InConfirmationProgress means the confirmation operator is actively working the order.
	InConfirmationProgress

	// Confirmed means the customer committed; stock is decremented and prices freeze.
	Confirmed

	// Erroneous is a terminal state for orders with unusable intake data.
	Erroneous

	// Duplicate is a terminal state for orders detected as duplicates of another.
	Duplicate

	// Cancelled is a terminal state; requires a recorded reason.
	Cancelled

	// Postponed parks the order, optionally with a scheduled return to Confirmed.
	Postponed

	// ToPrint means the order waits for its preparation sheet to be printed.
	ToPrint

	// InPreparation means a preparation operator is picking the order.
	InPreparation

	// Collected means all items were picked from the shelves.
	Collected

	// Packed means the parcel is closed.
	Packed

	// Prepared means the parcel is ready for hand-off to logistics.
	Prepared

	// ReturnToConfirmation sends a problematic order back into the confirmation flow.
	ReturnToConfirmation

	// InDistribution means the parcel is out with the carrier.
	InDistribution

	// Delivered is the terminal full-delivery outcome.
	Delivered

	// PartiallyDelivered is the terminal outcome when only part of the order reached the customer.
	PartiallyDelivered

	// DeliveredWithChange is the terminal outcome when the customer swapped items at the door.
	DeliveredWithChange

	// Returned is the terminal outcome when the whole parcel came back.
	Returned
)

// stateDefinition carries the catalog attributes of a state: its display
// name, its position when sorting pipelines for display, and its color.
type stateDefinition struct {
	name      string
	sortOrder int
	color     string
}

func stateCatalog() map[State]stateDefinition {
	return map[State]stateDefinition{
		Unassigned:             {name: "Unassigned", sortOrder: 10, color: "#9e9e9e"},
		Assigned:               {name: "Assigned", sortOrder: 20, color: "#03a9f4"},
		InConfirmationProgress: {name: "InConfirmationProgress", sortOrder: 30, color: "#00bcd4"},
		Confirmed:              {name: "Confirmed", sortOrder: 40, color: "#4caf50"},
		Erroneous:              {name: "Erroneous", sortOrder: 41, color: "#795548"},
		Duplicate:              {name: "Duplicate", sortOrder: 42, color: "#607d8b"},
		Cancelled:              {name: "Cancelled", sortOrder: 43, color: "#f44336"},
		Postponed:              {name: "Postponed", sortOrder: 44, color: "#ff9800"},
		ToPrint:                {name: "ToPrint", sortOrder: 50, color: "#8bc34a"},
		InPreparation:          {name: "InPreparation", sortOrder: 60, color: "#cddc39"},
		Collected:              {name: "Collected", sortOrder: 70, color: "#ffc107"},
		Packed:                 {name: "Packed", sortOrder: 80, color: "#ff5722"},
		Prepared:               {name: "Prepared", sortOrder: 90, color: "#9c27b0"},
		ReturnToConfirmation:   {name: "ReturnToConfirmation", sortOrder: 91, color: "#e91e63"},
		InDistribution:         {name: "InDistribution", sortOrder: 100, color: "#3f51b5"},
		Delivered:              {name: "Delivered", sortOrder: 110, color: "#2e7d32"},
		PartiallyDelivered:     {name: "PartiallyDelivered", sortOrder: 111, color: "#689f38"},
		DeliveredWithChange:    {name: "DeliveredWithChange", sortOrder: 112, color: "#558b2f"},
		Returned:               {name: "Returned", sortOrder: 113, color: "#d84315"},
	}
}

// StateRegistry is the typed lookup over the state catalog. It replaces
// free-text state names as the source of truth: building it fails fast when
// two states collide on a name.
type StateRegistry struct {
	byName map[string]State
}

// NewStateRegistry builds the registry from the catalog, failing on duplicate
// names.
func NewStateRegistry() (*StateRegistry, error) {
	byName := make(map[string]State, len(stateCatalog()))
	for state, def := range stateCatalog() {
		if _, exists := byName[def.name]; exists {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"state catalog",
				fmt.Errorf("duplicate state name %q", def.name),
			)
		}
		byName[def.name] = state
	}
	return &StateRegistry{byName: byName}, nil
}

// Get resolves a state by its display name.
func (r *StateRegistry) Get(name string) (State, error) {
	state, ok := r.byName[name]
	if !ok {
		return StateUnknown, errs.NewObjectNotFoundError("state", name)
	}
	return state, nil
}

// defaultRegistry is built once at package load; a name collision in the
// catalog is a programming error and must not survive startup.
var defaultRegistry = func() *StateRegistry {
	r, err := NewStateRegistry()
	if err != nil {
		panic(err)
	}
	return r
}()

// StateByName resolves a state by display name through the default registry.
func StateByName(name string) (State, error) {
	return defaultRegistry.Get(name)
}

// String returns the state's display name.
func (s State) String() string {
	if def, ok := stateCatalog()[s]; ok {
		return def.name
	}
	return "Unknown"
}

// SortOrder returns the display position of the state.
func (s State) SortOrder() int {
	return stateCatalog()[s].sortOrder
}

// Color returns the display color of the state.
func (s State) Color() string {
	return stateCatalog()[s].color
}

// Validate rejects StateUnknown and out-of-range values.
func (s State) Validate() error {
	if _, ok := stateCatalog()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// IsTerminal reports whether the state ends the order's lifecycle.
// Terminal orders are never physically deleted; the state is the soft end.
func (s State) IsTerminal() bool {
	switch s {
	case Erroneous, Duplicate, Cancelled, Delivered, PartiallyDelivered, DeliveredWithChange, Returned:
		return true
	default:
		return false
	}
}

// IsProtected reports whether line prices are frozen while the order sits in
// this state. Once a human has committed to a quoted total, recomputation
// must not silently move it.
func (s State) IsProtected() bool {
	switch s {
	case Confirmed, ToPrint, InPreparation, Collected, Packed, Prepared,
		InDistribution, Delivered, PartiallyDelivered, DeliveredWithChange,
		Returned, Postponed:
		return true
	default:
		return false
	}
}

// transitionRule describes one legal edge of the state machine.
type transitionRule struct {
	// role is the role required to drive this edge; operator.RoleUnknown
	// means any role may.
	role operator.Role

	// sameOperator requires the actor to be the operator on the currently
	// open state entry. A mismatch is a stale assignment.
	sameOperator bool
}

// transitionTable is the single source of truth for transition legality.
func transitionTable() map[State]map[State]transitionRule {
	confirm := operator.RoleConfirmation
	prep := operator.RolePreparation
	supervisor := operator.RoleSupervisor
	logistics := operator.RoleLogistics

	return map[State]map[State]transitionRule{
		Unassigned: {
			Assigned: {role: confirm},
		},
		Assigned: {
			InConfirmationProgress: {role: confirm, sameOperator: true},
			// Reassignment to another confirmation operator.
			Assigned: {role: confirm},
		},
		InConfirmationProgress: {
			Confirmed: {role: confirm, sameOperator: true},
			Erroneous: {role: confirm, sameOperator: true},
			Duplicate: {role: confirm, sameOperator: true},
			Cancelled: {role: confirm, sameOperator: true},
			Postponed: {role: confirm, sameOperator: true},
		},
		Postponed: {
			Confirmed:      {role: confirm},
			InDistribution: {role: logistics},
			Cancelled:      {role: confirm},
		},
		Confirmed: {
			ToPrint: {role: prep},
		},
		ToPrint: {
			InPreparation: {role: prep},
		},
		InPreparation: {
			Collected:            {role: prep, sameOperator: true},
			ReturnToConfirmation: {role: supervisor},
		},
		Collected: {
			Packed:               {role: prep, sameOperator: true},
			ReturnToConfirmation: {role: supervisor},
		},
		Packed: {
			Prepared:             {role: prep, sameOperator: true},
			ReturnToConfirmation: {role: supervisor},
		},
		Prepared: {
			InDistribution: {role: logistics},
		},
		ReturnToConfirmation: {
			Assigned:               {role: confirm},
			InConfirmationProgress: {role: confirm},
		},
		InDistribution: {
			Delivered:           {role: logistics},
			PartiallyDelivered:  {role: logistics},
			DeliveredWithChange: {role: logistics},
			Returned:            {role: logistics},
			Postponed:           {role: logistics},
		},
	}
}

// ruleFor returns the transition rule for the edge s -> target.
func (s State) ruleFor(target State) (transitionRule, error) {
	targets, ok := transitionTable()[s]
	if !ok {
		return transitionRule{}, newIllegalTransitionError(s, target,
			fmt.Errorf("%s permits no transitions", s))
	}
	rule, ok := targets[target]
	if !ok {
		return transitionRule{}, newIllegalTransitionError(s, target, nil)
	}
	return rule, nil
}

// CanTransitionTo checks whether the edge s -> target is legal for the given
// role. It does not check operator identity; the aggregate does that with
// the open ledger entry in hand.
func (s State) CanTransitionTo(target State, role operator.Role) error {
	rule, err := s.ruleFor(target)
	if err != nil {
		return err
	}
	if rule.role != operator.RoleUnknown && rule.role != role {
		return newIllegalTransitionError(s, target,
			fmt.Errorf("role %s is not permitted, %s required", role, rule.role))
	}
	return nil
}

// RequiresSameOperator reports whether the edge s -> target demands the
// actor to match the operator on the open state entry.
func (s State) RequiresSameOperator(target State) bool {
	rule, err := s.ruleFor(target)
	if err != nil {
		return false
	}
	return rule.sameOperator
}
