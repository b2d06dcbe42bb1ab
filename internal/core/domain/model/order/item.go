package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item instance was not created
// through the NewItem factory function.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item represents a single ordered line item: a named product with a
// quantity and a unit price in currency units. Item is an immutable value
// object; the zero value is invalid and will fail validation.
type Item struct {
	name      string
	quantity  int
	unitPrice int
	guard     guard.ConstructorGuard
}

// NewItem creates a new line item with validation.
//
// Parameters:
//   - name: Product name (must be non-empty)
//   - quantity: Ordered quantity (must be positive)
//   - unitPrice: Price per unit in currency units (must not be negative)
//
// Returns:
//   - Item: A valid line item
//   - error: Validation error if any parameter is invalid
func NewItem(name string, quantity int, unitPrice int) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setName(name),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate checks if the Item was properly constructed via NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// Name returns the product name.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price per unit in currency units.
func (i Item) UnitPrice() int {
	return i.unitPrice
}

// Total returns the line total (quantity times unit price) in currency units.
func (i Item) Total() int {
	return i.quantity * i.unitPrice
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice int) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice is invalid",
			fmt.Errorf("%d is negative", unitPrice))
	}
	i.unitPrice = unitPrice
	return nil
}
