package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created
	// through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrStaleAssignment is returned when the acting operator no longer
	// matches the operator on the currently open state entry.
	ErrStaleAssignment = errors.New("order is not assigned to the acting operator")

	// ErrMissingContactOperation is returned on confirmation attempts with
	// no recorded contact attempt.
	ErrMissingContactOperation = errors.New("at least one contact attempt must be recorded before confirmation")

	// ErrCartIsFrozen is returned for line item mutations while the order
	// sits in a protected state.
	ErrCartIsFrozen = errors.New("line items cannot change while the order is in a protected state")

	// ErrRoleCannotEditCart is returned for line item mutations by a role
	// that never handles order contents.
	ErrRoleCannotEditCart = errors.New("operator role is not permitted to edit line items")

	// ErrNoOpenStateEntry indicates a corrupt ledger with no current state.
	ErrNoOpenStateEntry = errors.New("order has no open state entry")

	// ErrMultipleOpenStateEntries indicates a corrupt ledger with more than
	// one current state.
	ErrMultipleOpenStateEntries = errors.New("order has more than one open state entry")
)

// PaymentStatus tracks how the order is paid, independent of its state.
type PaymentStatus int

const (
	// PaymentPending means no payment arrangement is recorded yet.
	PaymentPending PaymentStatus = iota

	// PaymentCashOnDelivery means the carrier collects on hand-off.
	PaymentCashOnDelivery

	// PaymentPaid means the order is settled.
	PaymentPaid
)

// String implements fmt.Stringer.
func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "Pending"
	case PaymentCashOnDelivery:
		return "CashOnDelivery"
	case PaymentPaid:
		return "Paid"
	default:
		return "Unknown"
	}
}

// Order is the root aggregate of the fulfillment core. It owns its line
// items, its append-only state ledger and its audit operations, and moves
// through the pipeline via Transition.
//
// Invariants:
//   - exactly one open state entry at any time (the current state)
//   - total equals the sum of line sub-totals, plus the delivery fee when
//     the inclusion flag is set, and never goes negative
//   - orders are never physically deleted; terminal states end the lifecycle
type Order struct {
	id kernel.UUID

	// number is the unique external order number.
	number string

	// source identifies the creation channel; sourceSequence is the
	// per-source sequential numeric id.
	source         string
	sourceSequence int

	address string

	paymentStatus PaymentStatus

	deliveryFee         kernel.Money
	deliveryFeeIncluded bool

	// upsellCounter selects the upsell pricing tier; derived from the
	// upsell-flagged, non-discounted line quantities.
	upsellCounter int

	total kernel.Money

	lineItems  []*LineItem
	history    []*StateEntry
	operations []*Operation

	guard guard.ConstructorGuard
}

// NewOrder creates an order at intake. The ledger opens with an Unassigned
// entry carrying no operator, so the single-open-entry invariant holds from
// birth.
func NewOrder(
	id kernel.UUID,
	number string,
	source string,
	sourceSequence int,
	address string,
	deliveryFee kernel.Money,
	deliveryFeeIncluded bool,
	now time.Time,
) (*Order, error) {
	o := &Order{
		deliveryFeeIncluded: deliveryFeeIncluded,
		paymentStatus:       PaymentPending,
		total:               kernel.ZeroMoney(),
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setSource(source, sourceSequence),
		o.setAddress(address),
		deliveryFee.Validate(),
	); err != nil {
		return nil, err
	}
	o.deliveryFee = deliveryFee

	entry, err := NewStateEntry(kernel.NewUUID(), Unassigned, nil, "", now, nil)
	if err != nil {
		return nil, err
	}
	o.history = append(o.history, entry)

	return o, nil
}

// RestoreOrder reconstructs the aggregate from persistence. The ledger must
// contain exactly one open entry; anything else is corrupt and refused.
func RestoreOrder(
	id kernel.UUID,
	number string,
	source string,
	sourceSequence int,
	address string,
	paymentStatus PaymentStatus,
	deliveryFee kernel.Money,
	deliveryFeeIncluded bool,
	upsellCounter int,
	total kernel.Money,
	lineItems []*LineItem,
	history []*StateEntry,
	operations []*Operation,
) (*Order, error) {
	o := &Order{
		paymentStatus:       paymentStatus,
		deliveryFeeIncluded: deliveryFeeIncluded,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setSource(source, sourceSequence),
		o.setAddress(address),
		deliveryFee.Validate(),
		total.Validate(),
	); err != nil {
		return nil, err
	}
	if upsellCounter < 0 {
		return nil, errs.NewValueIsInvalidError("upsell counter")
	}

	o.deliveryFee = deliveryFee
	o.total = total
	o.upsellCounter = upsellCounter

	open := 0
	for _, entry := range history {
		if err := entry.Validate(); err != nil {
			return nil, err
		}
		if entry.IsOpen() {
			open++
		}
	}
	switch {
	case open == 0:
		return nil, ErrNoOpenStateEntry
	case open > 1:
		return nil, ErrMultipleOpenStateEntries
	}

	for _, item := range lineItems {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}
	for _, op := range operations {
		if err := op.Validate(); err != nil {
			return nil, err
		}
	}

	o.lineItems = lineItems
	o.history = history
	o.operations = operations
	return o, nil
}

// Validate ensures the Order was built via a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order's identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the unique external order number.
func (o *Order) Number() string {
	return o.number
}

// Source returns the creation channel.
func (o *Order) Source() string {
	return o.source
}

// SourceSequence returns the per-source sequential id.
func (o *Order) SourceSequence() int {
	return o.sourceSequence
}

// Address returns the delivery address.
func (o *Order) Address() string {
	return o.address
}

// PaymentStatus returns the order's payment status.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// SetPaymentStatus records a payment status change.
func (o *Order) SetPaymentStatus(status PaymentStatus) {
	o.paymentStatus = status
}

// DeliveryFee returns the destination's delivery fee.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// DeliveryFeeIncluded reports whether the fee is part of the total.
func (o *Order) DeliveryFeeIncluded() bool {
	return o.deliveryFeeIncluded
}

// UpsellCounter returns the current upsell tier counter.
func (o *Order) UpsellCounter() int {
	return o.upsellCounter
}

// Total returns the order total.
func (o *Order) Total() kernel.Money {
	return o.total
}

// SetTotals is the pricing engine's write path for the recomputed total and
// the re-derived upsell counter.
func (o *Order) SetTotals(total kernel.Money, upsellCounter int) error {
	if err := total.Validate(); err != nil {
		return err
	}
	if upsellCounter < 0 {
		return errs.NewValueIsInvalidError("upsell counter")
	}
	o.total = total
	o.upsellCounter = upsellCounter
	return nil
}

// LineItems returns the order's cart.
func (o *Order) LineItems() []*LineItem {
	return o.lineItems
}

// FindLineItem returns the line with the given id.
func (o *Order) FindLineItem(id kernel.UUID) (*LineItem, error) {
	for _, item := range o.lineItems {
		if item.ID().IsEqual(id) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("lineItem", id.String())
}

// History returns the state ledger, oldest first.
func (o *Order) History() []*StateEntry {
	return o.history
}

// Operations returns the audit operations, oldest first.
func (o *Order) Operations() []*Operation {
	return o.operations
}

// CurrentEntry returns the single open ledger entry.
func (o *Order) CurrentEntry() (*StateEntry, error) {
	var open *StateEntry
	for _, entry := range o.history {
		if !entry.IsOpen() {
			continue
		}
		if open != nil {
			return nil, ErrMultipleOpenStateEntries
		}
		open = entry
	}
	if open == nil {
		return nil, ErrNoOpenStateEntry
	}
	return open, nil
}

// CurrentState returns the state of the open ledger entry.
func (o *Order) CurrentState() (State, error) {
	entry, err := o.CurrentEntry()
	if err != nil {
		return StateUnknown, err
	}
	return entry.State(), nil
}

// Transition moves the order to target under the acting operator: the open
// entry is closed and a new one opened in the same step. Legality is checked
// against the transition table (current state, target, role) and, where the
// table demands it, the actor must match the open entry's operator.
func (o *Order) Transition(actor *operator.Operator, target State, comment string, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	actorID := actor.ID()
	return o.applyTransition(actor, target, &actorID, comment, nil, now)
}

// TransitionAssigning moves the order to target while putting responsibility
// on assigneeID instead of the actor. Used for assignment and for sending a
// problem order back to its original confirmer; a nil assignee leaves the new
// entry unowned.
func (o *Order) TransitionAssigning(
	actor *operator.Operator,
	target State,
	assigneeID *kernel.UUID,
	comment string,
	now time.Time,
) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	return o.applyTransition(actor, target, assigneeID, comment, nil, now)
}

// Postpone parks the order in Postponed with an optional scheduled return to
// Confirmed at delayedUntil.
func (o *Order) Postpone(actor *operator.Operator, comment string, delayedUntil *time.Time, now time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if delayedUntil != nil && !delayedUntil.After(now) {
		return errs.NewValueIsInvalidErrorWithCause(
			"delayed transition timestamp",
			fmt.Errorf("%s is not in the future", delayedUntil),
		)
	}
	actorID := actor.ID()
	return o.applyTransition(actor, Postponed, &actorID, comment, delayedUntil, now)
}

func (o *Order) applyTransition(
	actor *operator.Operator,
	target State,
	assigneeID *kernel.UUID,
	comment string,
	delayedUntil *time.Time,
	now time.Time,
) error {
	open, err := o.CurrentEntry()
	if err != nil {
		return err
	}

	current := open.State()
	if err = current.CanTransitionTo(target, actor.Role()); err != nil {
		return err
	}

	if current.RequiresSameOperator(target) {
		owner := open.OperatorID()
		if owner == nil || !owner.IsEqual(actor.ID()) {
			return ErrStaleAssignment
		}
	}

	next, err := NewStateEntry(kernel.NewUUID(), target, assigneeID, comment, now, delayedUntil)
	if err != nil {
		return err
	}

	if err = open.close(now); err != nil {
		return err
	}
	o.history = append(o.history, next)
	return nil
}

// CompleteDelayedTransition applies a due delayed confirmation: when the open
// entry is Postponed with an elapsed timestamp, every open entry is closed
// defensively and a Confirmed entry opens under the operator who postponed.
// It reports whether a transition was applied.
func (o *Order) CompleteDelayedTransition(now time.Time) (bool, error) {
	open, err := o.CurrentEntry()
	if err != nil {
		return false, err
	}

	if open.State() != Postponed || !open.IsDelayedTransitionDue(now) {
		return false, nil
	}

	next, err := NewStateEntry(kernel.NewUUID(), Confirmed, open.OperatorID(), "delayed confirmation", now, nil)
	if err != nil {
		return false, err
	}

	// Close everything still open, not just the entry found above; a ledger
	// that somehow grew a second open entry must not survive the sweep.
	for _, entry := range o.history {
		if entry.IsOpen() {
			if err = entry.close(now); err != nil {
				return false, err
			}
		}
	}

	o.history = append(o.history, next)
	return true, nil
}

// OriginalConfirmerID returns the operator of the most recent Confirmed (or
// failing that, InConfirmationProgress) entry, nil when none exists. Used to
// route problem orders back to whoever confirmed them.
func (o *Order) OriginalConfirmerID() *kernel.UUID {
	var fallback *kernel.UUID
	var confirmed *kernel.UUID
	for _, entry := range o.history {
		switch entry.State() {
		case Confirmed:
			if entry.OperatorID() != nil {
				confirmed = entry.OperatorID()
			}
		case InConfirmationProgress:
			if entry.OperatorID() != nil {
				fallback = entry.OperatorID()
			}
		}
	}
	if confirmed != nil {
		return confirmed
	}
	return fallback
}

// RecordOperation appends an audit operation.
func (o *Order) RecordOperation(op *Operation) error {
	if err := op.Validate(); err != nil {
		return err
	}
	o.operations = append(o.operations, op)
	return nil
}

// HasContactAttempt reports whether at least one contact attempt is recorded.
func (o *Order) HasContactAttempt() bool {
	for _, op := range o.operations {
		if op.Kind() == OperationContactAttempt {
			return true
		}
	}
	return false
}

// AddLineItem adds a line to the cart. Refused in protected states.
func (o *Order) AddLineItem(item *LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if err := o.ensureCartMutable(); err != nil {
		return err
	}
	for _, existing := range o.lineItems {
		if existing.ID().IsEqual(item.ID()) {
			return errs.NewValueIsInvalidErrorWithCause("lineItem", fmt.Errorf("line %s already exists", item.ID()))
		}
	}
	o.lineItems = append(o.lineItems, item)
	return nil
}

// RemoveLineItem deletes a line from the cart. Refused in protected states.
func (o *Order) RemoveLineItem(id kernel.UUID) error {
	if err := o.ensureCartMutable(); err != nil {
		return err
	}
	return o.dropLine(id)
}

// ApplyLineDiscount locks a discount on one of the cart lines. Refused in
// protected states, where prices are sealed along with the cart.
func (o *Order) ApplyLineDiscount(id kernel.UUID, kind DiscountKind, subTotal kernel.Money) error {
	if err := o.ensureCartMutable(); err != nil {
		return err
	}
	item, err := o.FindLineItem(id)
	if err != nil {
		return err
	}
	return item.ApplyDiscount(kind, subTotal)
}

// ChangeLineItemQuantity sets a line's quantity; zero removes the line.
// Refused in protected states.
func (o *Order) ChangeLineItemQuantity(id kernel.UUID, quantity int) error {
	if err := o.ensureCartMutable(); err != nil {
		return err
	}
	if quantity == 0 {
		return o.dropLine(id)
	}
	item, err := o.FindLineItem(id)
	if err != nil {
		return err
	}
	return item.SetQuantity(quantity)
}

// RewriteLinesForDelivery is the partial-delivery reconciler's write path:
// it shrinks each line to its delivered quantity and drops fully-returned
// lines. It deliberately bypasses the protected-state cart guard: the
// reconciliation itself is the one legitimate cart change after shipping.
func (o *Order) RewriteLinesForDelivery(deliveredQuantities map[kernel.UUID]int) error {
	kept := make([]*LineItem, 0, len(o.lineItems))
	for _, item := range o.lineItems {
		delivered, ok := deliveredQuantities[item.ID()]
		if !ok {
			return errs.NewObjectNotFoundError("lineItem", item.ID().String())
		}
		if delivered == 0 {
			continue
		}
		if err := item.SetQuantity(delivered); err != nil {
			return err
		}
		kept = append(kept, item)
	}
	o.lineItems = kept
	return nil
}

// CanEditCart reports whether role may mutate an order's line items.
// Confirmation, preparation and logistics operators all handle order
// contents; supervisors arbitrate transitions and never touch the cart.
func CanEditCart(role operator.Role) error {
	switch role {
	case operator.RoleConfirmation, operator.RolePreparation, operator.RoleLogistics:
		return nil
	}
	return ErrRoleCannotEditCart
}

func (o *Order) ensureCartMutable() error {
	state, err := o.CurrentState()
	if err != nil {
		return err
	}
	if state.IsProtected() {
		return ErrCartIsFrozen
	}
	return nil
}

func (o *Order) dropLine(id kernel.UUID) error {
	for i, item := range o.lineItems {
		if item.ID().IsEqual(id) {
			o.lineItems = append(o.lineItems[:i], o.lineItems[i+1:]...)
			return nil
		}
	}
	return errs.NewObjectNotFoundError("lineItem", id.String())
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setSource(source string, sequence int) error {
	if source == "" {
		return errs.NewValueIsRequiredError("order source")
	}
	if sequence <= 0 {
		return errs.NewValueIsInvalidError("source sequence")
	}
	o.source = source
	o.sourceSequence = sequence
	return nil
}

func (o *Order) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.address = address
	return nil
}
