package order

import (
	"errors"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// CancellationPenalty is the fixed fee, in currency units, charged when an
// order is cancelled after the restaurant has started preparation work
// (Preparing or Ready). Cancelling earlier is free.
const CancellationPenalty = 50

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrAssignmentAlreadyBound is returned when attempting to bind a second
	// active assignment to an order that already has one. This is always a
	// programming error on the caller's side.
	ErrAssignmentAlreadyBound = errors.New("order already has an active assignment bound")

	// ErrItemsAreRequired is returned when attempting to create an order
	// without any line items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Order represents a food-delivery order. It is the aggregate root that
// manages the order lifecycle from placement through preparation, pickup and
// delivery, or cancellation.
//
// Order follows these invariants:
//   - Must have valid customer, restaurant and restaurant location references
//   - Must contain at least one valid line item
//   - Status only moves forward through the lifecycle or sideways into
//     Cancelled while still cancellable; the visited states always form a
//     subsequence of Placed, Accepted, Preparing, Ready, PickedUp, Delivered,
//     optionally ending in Cancelled
//   - At most one active delivery assignment may be bound
//   - Can only be created through the NewOrder constructor
//
// All state-changing operations and reads of mutable state take the order's
// own mutex, so a single Order instance is safe for concurrent use. Each
// order owns its own lock; there is no global ordering lock.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID references the customer who placed the order
	customerID kernel.UUID

	// restaurantID references the restaurant fulfilling the order
	restaurantID kernel.UUID

	// restaurantLocation is where the assigned driver picks the order up
	restaurantLocation kernel.Coordinate

	// items are the ordered line items (at least one)
	items []Item

	// status is the current state in the order lifecycle
	status Status

	// createdAt is when the order was placed
	createdAt time.Time

	// preparationStartedAt is set when the restaurant starts preparation
	preparationStartedAt *time.Time

	// cancellationPenalty is set when the order is cancelled (may be zero)
	cancellationPenalty *int

	// assignmentID references the active delivery assignment, if bound
	assignmentID *kernel.UUID

	// mu guards status, timestamps, penalty and assignment binding
	mu sync.Mutex

	// guard ensures the order was created via a constructor
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order with validation. This is the only way to
// create a valid Order, ensuring all business invariants are maintained.
// The order starts in Placed status with the creation timestamp recorded.
//
// Parameters:
//   - id: Unique identifier for the order (must be a valid UUID)
//   - customerID: The customer placing the order (must be a valid UUID)
//   - restaurantID: The fulfilling restaurant (must be a valid UUID)
//   - restaurantLocation: Pickup location (must be a valid coordinate)
//   - items: Ordered line items (at least one, all valid)
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Validation error if any parameter is invalid
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	restaurantLocation kernel.Coordinate,
	items []Item,
) (*Order, error) {
	order := &Order{
		status:    Placed,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setRestaurantID(restaurantID),
		order.setRestaurantLocation(restaurantLocation),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder, which creates fresh orders in Placed status, this
// constructor restores an order to its previously persisted state including
// status, timestamps, penalty and assignment binding. The restored order
// behaves identically to one created through normal domain operations.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	restaurantLocation kernel.Coordinate,
	items []Item,
	status Status,
	createdAt time.Time,
	preparationStartedAt *time.Time,
	cancellationPenalty *int,
	assignmentID *kernel.UUID,
) (*Order, error) {
	order := &Order{
		createdAt:            createdAt,
		preparationStartedAt: preparationStartedAt,
		cancellationPenalty:  cancellationPenalty,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setRestaurantID(restaurantID),
		order.setRestaurantLocation(restaurantLocation),
		order.setItems(items),
		order.setStatus(status),
		order.setAssignmentID(assignmentID),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed through a
// constructor. This prevents bypassing validation by directly instantiating
// the struct.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
// Orders are considered equal if they have the same ID.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the identifier of the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the identifier of the fulfilling restaurant.
func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// RestaurantLocation returns the pickup location for the order.
func (o *Order) RestaurantLocation() kernel.Coordinate {
	return o.restaurantLocation
}

// Items returns a copy of the ordered line items.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// PreparationStartedAt returns when the restaurant started preparation.
// Returns nil if preparation has not started.
func (o *Order) PreparationStartedAt() *time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.preparationStartedAt
}

// CancellationPenaltyCharged returns the penalty recorded at cancellation.
// Returns nil if the order has not been cancelled.
func (o *Order) CancellationPenaltyCharged() *int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancellationPenalty
}

// Assignment returns the identifier of the active delivery assignment.
// Returns nil if no assignment is bound.
func (o *Order) Assignment() *kernel.UUID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.assignmentID
}

// Accept moves the order from Placed to Accepted, making it eligible for
// driver dispatch. Returns an InvalidTransitionError and leaves the status
// unchanged when invoked from any other state.
func (o *Order) Accept() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// StartPreparation moves the order from Accepted to Preparing and records
// the preparation-start timestamp. From this point cancellation incurs the
// fixed penalty. Returns an InvalidTransitionError and leaves the status
// unchanged when invoked from any other state.
func (o *Order) StartPreparation() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	newStatus, err := o.status.StartPreparation()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	o.status = newStatus
	o.preparationStartedAt = &now
	return nil
}

// MarkReady moves the order from Preparing to Ready. Returns an
// InvalidTransitionError and leaves the status unchanged when invoked from
// any other state.
func (o *Order) MarkReady() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	newStatus, err := o.status.MarkReady()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// PickUp moves the order from Ready to PickedUp. The caller is responsible
// for driving the bound assignment to PickedUp as well. Returns an
// InvalidTransitionError and leaves the status unchanged when invoked from
// any other state.
func (o *Order) PickUp() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	newStatus, err := o.status.PickUp()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Deliver moves the order from PickedUp to Delivered, the happy-path
// terminal state. The caller is responsible for driving the bound assignment
// to Delivered and releasing the driver. Returns an InvalidTransitionError
// and leaves the status unchanged when invoked from any other state.
func (o *Order) Deliver() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel moves the order into Cancelled and returns the penalty charged:
//
//   - from Placed or Accepted the penalty is 0
//   - from Preparing or Ready the penalty is CancellationPenalty, since the
//     restaurant has already invested preparation work
//   - from PickedUp, Delivered or Cancelled the operation fails with an
//     InvalidTransitionError and the status is left unchanged
//
// Returns:
//   - int: The penalty charged in currency units
//   - error: InvalidTransitionError when cancellation is not allowed
func (o *Order) Cancel() (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	penalty := 0
	if o.status == Preparing || o.status == Ready {
		penalty = CancellationPenalty
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return 0, err
	}

	o.status = newStatus
	o.cancellationPenalty = &penalty
	return penalty, nil
}

// BindAssignment binds an accepted delivery assignment to the order.
//
// Business rules:
//   - The assignment ID must be valid
//   - The order must be in Accepted status (dispatch happens after the
//     restaurant accepts and before preparation hand-off to a driver matters)
//   - At most one active assignment may be bound; a second bind attempt
//     fails with ErrAssignmentAlreadyBound
//
// Returns nil on success, ErrAssignmentAlreadyBound or an
// InvalidTransitionError otherwise.
func (o *Order) BindAssignment(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.assignmentID != nil {
		return ErrAssignmentAlreadyBound
	}

	if o.status != Accepted {
		return errs.NewInvalidTransitionError(opBindAssignment, o.status.String())
	}

	o.assignmentID = &assignmentID
	return nil
}

// UnbindAssignment clears the order's assignment binding.
//
// It reverses a BindAssignment whose surrounding work could not be
// persisted, returning the order to the dispatch queue. Unbinding an order
// with no bound assignment is a no-op.
func (o *Order) UnbindAssignment() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.assignmentID = nil
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setCustomerID validates and sets the customer reference.
func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

// setRestaurantID validates and sets the restaurant reference.
func (o *Order) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	o.restaurantID = restaurantID
	return nil
}

// setRestaurantLocation validates and sets the pickup location.
func (o *Order) setRestaurantLocation(location kernel.Coordinate) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.restaurantLocation = location
	return nil
}

// setItems validates and sets the ordered line items.
// At least one valid item is required.
func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

// setStatus validates and sets the status during restoration.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

// setAssignmentID validates and sets the assignment binding during restoration.
func (o *Order) setAssignmentID(assignmentID *kernel.UUID) error {
	if assignmentID == nil {
		return nil
	}
	if err := assignmentID.Validate(); err != nil {
		return err
	}
	o.assignmentID = assignmentID
	return nil
}
