// Package driverrepo provides data transfer objects and mapping functions for driver persistence.
// Snapshots of driver aggregates are stored here; the live reservation state
// lives in the in-memory pool, and this table is what restores it on startup.
package driverrepo

import (
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver aggregates.
// Latitude and longitude are nullable: a driver has no coordinates until the
// first location report arrives.
type DriverDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Phone     string
	Vehicle   string
	Latitude  *float64
	Longitude *float64
	Status    int `gorm:"index"`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver domain aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	var latitude, longitude *float64
	if loc := aggregate.Location(); loc != nil {
		lat := loc.Latitude()
		lon := loc.Longitude()
		latitude = &lat
		longitude = &lon
	}

	return DriverDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		Phone:     aggregate.Phone(),
		Vehicle:   aggregate.Vehicle(),
		Latitude:  latitude,
		Longitude: longitude,
		Status:    int(aggregate.Status()),
	}
}

// toDomain converts a database DTO to a driver domain aggregate using RestoreDriver.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.Coordinate
	if dto.Latitude != nil && dto.Longitude != nil {
		loc, locErr := kernel.NewCoordinate(*dto.Latitude, *dto.Longitude)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return driver.RestoreDriver(id, dto.Name, dto.Phone, dto.Vehicle, location, driver.Status(dto.Status))
}
