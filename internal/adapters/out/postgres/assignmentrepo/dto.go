// Package assignmentrepo provides data transfer objects and mapping functions
// for delivery assignment persistence. Every attempt is stored, rejected ones
// included, so an order's offer history stays queryable.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting delivery
// assignment aggregates. Each status reached has its own timestamp column.
type AssignmentDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	DriverID    uuid.UUID `gorm:"type:uuid;index"`
	Status      int       `gorm:"index"`
	AssignedAt  time.Time
	AcceptedAt  *time.Time
	RejectedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
}

// TableName specifies the database table name for assignment entities.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// fromDomain converts an assignment domain aggregate to its database representation.
func fromDomain(aggregate *assignment.DeliveryAssignment) AssignmentDTO {
	return AssignmentDTO{
		ID:          aggregate.ID().Bytes(),
		OrderID:     aggregate.OrderID().Bytes(),
		DriverID:    aggregate.DriverID().Bytes(),
		Status:      int(aggregate.Status()),
		AssignedAt:  aggregate.AssignedAt(),
		AcceptedAt:  aggregate.AcceptedAt(),
		RejectedAt:  aggregate.RejectedAt(),
		PickedUpAt:  aggregate.PickedUpAt(),
		DeliveredAt: aggregate.DeliveredAt(),
	}
}

// toDomain converts a database DTO to an assignment domain aggregate using
// RestoreDeliveryAssignment.
func toDomain(dto AssignmentDTO) (*assignment.DeliveryAssignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	return assignment.RestoreDeliveryAssignment(
		id,
		orderID,
		driverID,
		assignment.Status(dto.Status),
		dto.AssignedAt,
		dto.AcceptedAt,
		dto.RejectedAt,
		dto.PickedUpAt,
		dto.DeliveredAt,
	)
}
