// Package operator models the people acting on orders and the role each of
// them holds. Transition legality in the order state machine is gated on
// these roles.
package operator

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrOperatorIsNotConstructed is returned when an Operator was not created
// through NewOperator.
var ErrOperatorIsNotConstructed = errors.New("Operator must be created via NewOperator constructor")

// Role identifies which part of the pipeline an operator works in.
type Role int

const (
	// RoleUnknown catches uninitialized Role values.
	RoleUnknown Role = iota

	// RoleConfirmation operators take orders from intake to Confirmed.
	RoleConfirmation

	// RolePreparation operators collect, pack and prepare confirmed orders.
	RolePreparation

	// RoleSupervisor operators arbitrate problems found during preparation.
	RoleSupervisor

	// RoleLogistics operators ship orders and record delivery outcomes.
	RoleLogistics
)

func roleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:      "Unknown",
		RoleConfirmation: "Confirmation",
		RolePreparation:  "Preparation",
		RoleSupervisor:   "Supervisor",
		RoleLogistics:    "Logistics",
	}
}

// Validate rejects RoleUnknown and out-of-range values.
func (r Role) Validate() error {
	if r == RoleUnknown {
		return errs.NewValueIsInvalidError("role")
	}
	if _, ok := roleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String implements fmt.Stringer.
func (r Role) String() string {
	if s, ok := roleStrings()[r]; ok {
		return s
	}
	return "Unknown"
}

// RoleFromString resolves a role by its display name.
func RoleFromString(s string) (Role, error) {
	for role, name := range roleStrings() {
		if role != RoleUnknown && name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("unknown role %q", s))
}

// Operator is a person acting on orders. It carries just enough identity for
// the ledger and the audit trail; authentication and sessions live outside
// the core.
type Operator struct {
	id   kernel.UUID
	name string
	role Role

	guard guard.ConstructorGuard
}

// NewOperator creates a validated Operator.
func NewOperator(id kernel.UUID, name string, role Role) (*Operator, error) {
	op := &Operator{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		op.setID(id),
		op.setName(name),
		op.setRole(role),
	); err != nil {
		return nil, err
	}

	return op, nil
}

// Validate ensures the Operator was built via NewOperator.
func (o *Operator) Validate() error {
	if o == nil {
		return ErrOperatorIsNotConstructed
	}
	return o.guard.Validate(ErrOperatorIsNotConstructed)
}

// ID returns the operator's identifier.
func (o *Operator) ID() kernel.UUID {
	return o.id
}

// Name returns the operator's display name.
func (o *Operator) Name() string {
	return o.name
}

// Role returns the operator's role.
func (o *Operator) Role() Role {
	return o.role
}

func (o *Operator) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Operator) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("operator name")
	}
	o.name = name
	return nil
}

func (o *Operator) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	o.role = role
	return nil
}
