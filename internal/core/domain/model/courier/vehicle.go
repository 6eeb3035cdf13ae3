package courier

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// DefaultSpeedKmh is the travel speed assumed when a vehicle type has no
// specific speed on record.
const DefaultSpeedKmh = 25.0

// VehicleType is the kind of vehicle a courier rides. It determines the
// assumed travel speed used for ETA estimation.
type VehicleType int

const (
	// VehicleUnknown represents an invalid or undefined vehicle type.
	VehicleUnknown VehicleType = iota

	// VehicleBike is a bicycle.
	VehicleBike

	// VehicleMotorcycle is a motorcycle or scooter.
	VehicleMotorcycle

	// VehicleCar is a passenger car.
	VehicleCar

	// VehicleVan is a cargo van.
	VehicleVan
)

func getValidVehicleStrings() map[VehicleType]string {
	//nolint:exhaustive // VehicleUnknown is intentionally excluded as it's invalid
	return map[VehicleType]string{
		VehicleBike:       "bike",
		VehicleMotorcycle: "motorcycle",
		VehicleCar:        "car",
		VehicleVan:        "van",
	}
}

// ParseVehicleType converts a wire string into a VehicleType.
func ParseVehicleType(s string) (VehicleType, error) {
	for vehicle, label := range getValidVehicleStrings() {
		if label == s {
			return vehicle, nil
		}
	}
	return VehicleUnknown, errs.NewValueIsInvalidErrorWithCause(
		"vehicle is invalid",
		fmt.Errorf("%q is not a valid vehicle type", s),
	)
}

// Validate checks if the VehicleType value is valid.
func (v VehicleType) Validate() error {
	if _, ok := getValidVehicleStrings()[v]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("vehicle is invalid", fmt.Errorf("%d is not a valid vehicle type", v))
	}
	return nil
}

// String returns the lowercase wire label of the vehicle type.
func (v VehicleType) String() string {
	if str, ok := getValidVehicleStrings()[v]; ok {
		return str
	}
	return "unknown"
}

// SpeedKmh returns the assumed travel speed for the vehicle type in km/h.
// Unknown types fall back to DefaultSpeedKmh so ETA estimation always has
// a usable speed.
func (v VehicleType) SpeedKmh() float64 {
	switch v {
	case VehicleBike:
		return 15
	case VehicleMotorcycle:
		return 25
	case VehicleCar:
		return 30
	case VehicleVan:
		return 25
	default:
		return DefaultSpeedKmh
	}
}
