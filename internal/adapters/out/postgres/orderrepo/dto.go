// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by status and assignment binding.
type OrderDTO struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID           uuid.UUID  `gorm:"type:uuid;index"`
	RestaurantID         uuid.UUID  `gorm:"type:uuid;index"`
	RestaurantLat        float64    `gorm:"column:restaurant_lat"`
	RestaurantLon        float64    `gorm:"column:restaurant_lon"`
	Status               int        `gorm:"index"`
	CreatedAt            time.Time
	PreparationStartedAt *time.Time
	CancellationPenalty  *int
	AssignmentID         *uuid.UUID `gorm:"type:uuid;index"`
	Items                []ItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one ordered line item in the order_items child table.
// Items are written once when the order is created and never updated.
type ItemDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Name      string
	Quantity  int
	UnitPrice int
}

// TableName specifies the database table name for order line items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including optional assignment binding and items.
func fromDomain(aggregate *order.Order) OrderDTO {
	var assignmentID *uuid.UUID
	if id := aggregate.Assignment(); id != nil {
		raw := id.Bytes()
		assignmentID = &raw
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	return OrderDTO{
		ID:                   aggregate.ID().Bytes(),
		CustomerID:           aggregate.CustomerID().Bytes(),
		RestaurantID:         aggregate.RestaurantID().Bytes(),
		RestaurantLat:        aggregate.RestaurantLocation().Latitude(),
		RestaurantLon:        aggregate.RestaurantLocation().Longitude(),
		Status:               int(aggregate.Status()),
		CreatedAt:            aggregate.CreatedAt(),
		PreparationStartedAt: aggregate.PreparationStartedAt(),
		CancellationPenalty:  aggregate.CancellationPenaltyCharged(),
		AssignmentID:         assignmentID,
		Items:                items,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including items, status and assignment
// binding using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var assignmentID *kernel.UUID
	if dto.AssignmentID != nil {
		aID, assignmentErr := kernel.UUIDFromBytes((*dto.AssignmentID)[:])
		if assignmentErr != nil {
			return nil, assignmentErr
		}

		assignmentID = &aID
	}

	location, err := kernel.NewCoordinate(dto.RestaurantLat, dto.RestaurantLon)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewItem(itemDTO.Name, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		customerID,
		restaurantID,
		location,
		items,
		order.Status(dto.Status),
		dto.CreatedAt,
		dto.PreparationStartedAt,
		dto.CancellationPenalty,
		assignmentID,
	)
}
