// Package units provides shared constants and validation for measurement units
package units

import "fmt"

// Unit system constants
const (
	Metric   = "metric"
	Imperial = "imperial"
)

// ValidUnits contains all valid unit system values
var ValidUnits = []string{Metric, Imperial}

// IsValid checks if the given unit system is in the list of valid systems
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid unit systems for error messages
func GetValidUnitsString() string {
	return "metric, imperial"
}

// Conversion factors. Room geometry is stored in meters.
const (
	feetPerMeter             = 3.28084
	squareFeetPerSquareMeter = 10.7639
	cubicFeetPerCubicMeter   = 35.3147
)

// ConvertLength converts a length from meters to the target unit system
func ConvertLength(meters float64, targetUnits string) float64 {
	switch targetUnits {
	case Imperial:
		return meters * feetPerMeter
	case Metric:
		return meters
	default:
		return meters
	}
}

// ConvertArea converts an area from square meters to the target unit system
func ConvertArea(squareMeters float64, targetUnits string) float64 {
	switch targetUnits {
	case Imperial:
		return squareMeters * squareFeetPerSquareMeter
	case Metric:
		return squareMeters
	default:
		return squareMeters
	}
}

// ConvertVolume converts a volume from cubic meters to the target unit system
func ConvertVolume(cubicMeters float64, targetUnits string) float64 {
	switch targetUnits {
	case Imperial:
		return cubicMeters * cubicFeetPerCubicMeter
	case Metric:
		return cubicMeters
	default:
		return cubicMeters
	}
}

// LengthLabel returns the display label for lengths in the target unit system
func LengthLabel(targetUnits string) string {
	if targetUnits == Imperial {
		return "ft"
	}
	return "m"
}

// AreaLabel returns the display label for areas in the target unit system
func AreaLabel(targetUnits string) string {
	if targetUnits == Imperial {
		return "ft²"
	}
	return "m²"
}

// VolumeLabel returns the display label for volumes in the target unit system
func VolumeLabel(targetUnits string) string {
	if targetUnits == Imperial {
		return "ft³"
	}
	return "m³"
}

// FormatLength renders a stored metric length for display, e.g. "5.00 m" or
// "16.40 ft".
func FormatLength(meters float64, targetUnits string) string {
	return fmt.Sprintf("%.2f %s", ConvertLength(meters, targetUnits), LengthLabel(targetUnits))
}

// FormatVolume renders a stored metric volume for display.
func FormatVolume(cubicMeters float64, targetUnits string) string {
	return fmt.Sprintf("%.1f %s", ConvertVolume(cubicMeters, targetUnits), VolumeLabel(targetUnits))
}
