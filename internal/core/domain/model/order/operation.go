package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrOperationIsNotConstructed is returned when an Operation was not created
// through NewOperation.
var ErrOperationIsNotConstructed = errors.New("Operation must be created via NewOperation constructor")

// OperationKind classifies an audit operation recorded against an order.
type OperationKind int

const (
	// OperationUnknown catches uninitialized values.
	OperationUnknown OperationKind = iota

	// OperationContactAttempt records a call or message to the customer.
	// Confirming an order requires at least one of these.
	OperationContactAttempt

	// OperationVariantRepair records the local recovery of a dangling
	// variant reference during confirmation.
	OperationVariantRepair

	// OperationDeliveryRecap carries the JSON recap of a partial delivery
	// (delivered and returned summaries with frozen prices).
	OperationDeliveryRecap

	// OperationCancellationNote records the mandatory reason of a cancel.
	OperationCancellationNote
)

func operationKindStrings() map[OperationKind]string {
	return map[OperationKind]string{
		OperationUnknown:          "Unknown",
		OperationContactAttempt:   "ContactAttempt",
		OperationVariantRepair:    "VariantRepair",
		OperationDeliveryRecap:    "DeliveryRecap",
		OperationCancellationNote: "CancellationNote",
	}
}

// String implements fmt.Stringer.
func (k OperationKind) String() string {
	if s, ok := operationKindStrings()[k]; ok {
		return s
	}
	return "Unknown"
}

// Validate rejects OperationUnknown and out-of-range values.
func (k OperationKind) Validate() error {
	if k == OperationUnknown {
		return errs.NewValueIsInvalidError("operation kind")
	}
	if _, ok := operationKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("operation kind", fmt.Errorf("%d is not a valid operation kind", k))
	}
	return nil
}

// Operation is an append-only audit record attached to an order: contact
// attempts, variant repairs, cancellation notes and delivery recaps. The
// payload is free text; recap payloads carry JSON (see DeliveryRecap) and
// are parsed into typed structures on read.
type Operation struct {
	id         kernel.UUID
	kind       OperationKind
	operatorID kernel.UUID
	payload    string
	recordedAt time.Time

	guard guard.ConstructorGuard
}

// NewOperation creates a validated Operation.
func NewOperation(
	id kernel.UUID,
	kind OperationKind,
	operatorID kernel.UUID,
	payload string,
	recordedAt time.Time,
) (*Operation, error) {
	op := &Operation{
		payload:    payload,
		recordedAt: recordedAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		kind.Validate(),
		operatorID.Validate(),
	); err != nil {
		return nil, err
	}
	if recordedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("operation timestamp")
	}

	op.id = id
	op.kind = kind
	op.operatorID = operatorID
	return op, nil
}

// Validate ensures the Operation was built via NewOperation.
func (o *Operation) Validate() error {
	if o == nil {
		return ErrOperationIsNotConstructed
	}
	return o.guard.Validate(ErrOperationIsNotConstructed)
}

// ID returns the operation's identifier.
func (o *Operation) ID() kernel.UUID {
	return o.id
}

// Kind returns the operation's classification.
func (o *Operation) Kind() OperationKind {
	return o.kind
}

// OperatorID returns who recorded the operation.
func (o *Operation) OperatorID() kernel.UUID {
	return o.operatorID
}

// Payload returns the free-text payload.
func (o *Operation) Payload() string {
	return o.payload
}

// RecordedAt returns when the operation was recorded.
func (o *Operation) RecordedAt() time.Time {
	return o.recordedAt
}
