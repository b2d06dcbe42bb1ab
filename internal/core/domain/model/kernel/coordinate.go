package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0

	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0
)

// ErrCoordinateIsNotConstructed is returned when attempting to use an improperly
// initialized Coordinate. Coordinates must be created via NewCoordinate to ensure
// validity.
var ErrCoordinateIsNotConstructed = errs.NewValueIsRequiredError(
	"coordinate must be created via NewCoordinate constructor")

// Coordinate represents a geographic position as a latitude/longitude pair.
// Coordinate is an immutable value object that ensures both components are
// always within valid bounds. The zero value of Coordinate is invalid and
// will fail validation - use the constructor to create instances.
//
// Example:
//
//	c, err := kernel.NewCoordinate(40.7128, -74.0060)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Printf("Position: %s", c) // Output: Coordinate(40.712800,-74.006000)
type Coordinate struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewCoordinate creates a new Coordinate with the specified latitude and longitude.
// Latitude must be within [LatitudeMin..LatitudeMax] degrees and longitude within
// [LongitudeMin..LongitudeMax] degrees. Returns an error if either component is
// outside the valid bounds.
//
// Parameters:
//   - latitude: Latitude in decimal degrees
//   - longitude: Longitude in decimal degrees
//
// Returns:
//   - Coordinate: A valid coordinate instance
//   - error: Validation error if either component is out of bounds
func NewCoordinate(latitude float64, longitude float64) (Coordinate, error) {
	c := Coordinate{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setLatitude(latitude), c.setLongitude(longitude)); err != nil {
		return Coordinate{}, err
	}

	return c, nil
}

// Validate checks if the Coordinate was properly constructed using the constructor.
// The zero value of Coordinate is invalid and will fail this validation.
//
// Returns:
//   - error: ErrCoordinateIsNotConstructed if the coordinate was not properly
//     initialized, nil otherwise
func (c Coordinate) Validate() error {
	return c.guard.Validate(ErrCoordinateIsNotConstructed)
}

// Latitude returns the latitude component in decimal degrees.
// The returned value is guaranteed to be within valid bounds for properly
// constructed Coordinate instances.
func (c Coordinate) Latitude() float64 {
	return c.latitude
}

// Longitude returns the longitude component in decimal degrees.
// The returned value is guaranteed to be within valid bounds for properly
// constructed Coordinate instances.
func (c Coordinate) Longitude() float64 {
	return c.longitude
}

// String returns a human-readable string representation of the Coordinate.
// The format is "Coordinate(latitude,longitude)" which is useful for debugging
// and logging. This method implements the fmt.Stringer interface.
func (c Coordinate) String() string {
	return fmt.Sprintf("Coordinate(%f,%f)", c.latitude, c.longitude)
}

// IsEqual compares two coordinates for equality.
// Two coordinates are considered equal if they have the same latitude and
// longitude. Both coordinates must be properly constructed (pass validation)
// for the comparison to succeed.
//
// Parameters:
//   - other: The Coordinate to compare with
//
// Returns:
//   - bool: true if coordinates are equal, false otherwise
//   - error: Validation error if either coordinate is improperly constructed
func (c Coordinate) IsEqual(other Coordinate) (bool, error) {
	if err := errors.Join(c.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return c.latitude == other.latitude && c.longitude == other.longitude, nil
}

// Distance calculates the great-circle distance between two coordinates in
// kilometres using the haversine formula. Distance is symmetric: a.Distance(b)
// equals b.Distance(a). Both coordinates must be properly constructed (pass
// validation) for the calculation to succeed.
//
// Parameters:
//   - other: The Coordinate to calculate distance to
//
// Returns:
//   - float64: The great-circle distance in kilometres
//   - error: Validation error if either coordinate is improperly constructed
//
// Example:
//
//	restaurant, _ := kernel.NewCoordinate(40.7128, -74.0060)
//	driver, _ := kernel.NewCoordinate(40.7138, -74.0060)
//
//	km, err := driver.Distance(restaurant)
//	// km ≈ 0.111, err = nil
func (c Coordinate) Distance(other Coordinate) (float64, error) {
	if err := errors.Join(c.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(c.latitude)
	lat2 := toRadians(other.latitude)
	dLat := toRadians(other.latitude - c.latitude)
	dLon := toRadians(other.longitude - c.longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h)), nil
}

// setLatitude sets the latitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use value
// receivers to enable self-encapsulated validation during object construction.
func (c *Coordinate) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	c.latitude = latitude
	return nil
}

// setLongitude sets the longitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use value
// receivers to enable self-encapsulated validation during object construction.
func (c *Coordinate) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	c.longitude = longitude
	return nil
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
