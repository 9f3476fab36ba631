package units

import (
	"math"
	"testing"
)

func TestConvertLength(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		units    string
		expected float64
	}{
		{"5 m to imperial", 5.0, Imperial, 16.4042},
		{"5 m to metric", 5.0, Metric, 5.0},
		{"unknown units default to metric", 5.0, "unknown", 5.0},
		{"0 m to imperial", 0.0, Imperial, 0.0},
		{"ceiling height 2.8 m to imperial", 2.8, Imperial, 9.18635}, // ~9.2 ft
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertLength(tt.meters, tt.units)
			if math.Abs(result-tt.expected) > 0.01 { // Allow small floating point differences
				t.Errorf("ConvertLength(%f, %s) = %f, want %f", tt.meters, tt.units, result, tt.expected)
			}
		})
	}
}

func TestConvertAreaAndVolume(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		units    string
		convert  func(float64, string) float64
		expected float64
	}{
		{"30 m² to imperial", 30.0, Imperial, ConvertArea, 322.917},
		{"30 m² to metric", 30.0, Metric, ConvertArea, 30.0},
		{"84 m³ to imperial", 84.0, Imperial, ConvertVolume, 2966.43},
		{"84 m³ to metric", 84.0, Metric, ConvertVolume, 84.0},
		{"unknown units default to metric", 84.0, "unknown", ConvertVolume, 84.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.convert(tt.value, tt.units)
			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("convert(%f, %s) = %f, want %f", tt.value, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid metric", Metric, true},
		{"valid imperial", Imperial, true},
		{"invalid unit", "invalid", false},
		{"empty string", "", false},
		{"case sensitive", "Metric", false},
		{"case sensitive", "IMPERIAL", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestGetValidUnitsString(t *testing.T) {
	expected := "metric, imperial"
	result := GetValidUnitsString()
	if result != expected {
		t.Errorf("GetValidUnitsString() = %s, want %s", result, expected)
	}
}

func TestLabels(t *testing.T) {
	if got := LengthLabel(Metric); got != "m" {
		t.Errorf("LengthLabel(Metric) = %s, want m", got)
	}
	if got := LengthLabel(Imperial); got != "ft" {
		t.Errorf("LengthLabel(Imperial) = %s, want ft", got)
	}
	if got := AreaLabel(Imperial); got != "ft²" {
		t.Errorf("AreaLabel(Imperial) = %s, want ft²", got)
	}
	if got := VolumeLabel(Metric); got != "m³" {
		t.Errorf("VolumeLabel(Metric) = %s, want m³", got)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatLength(5.0, Metric); got != "5.00 m" {
		t.Errorf("FormatLength(5, metric) = %q, want \"5.00 m\"", got)
	}
	if got := FormatLength(5.0, Imperial); got != "16.40 ft" {
		t.Errorf("FormatLength(5, imperial) = %q, want \"16.40 ft\"", got)
	}
	if got := FormatVolume(84.0, Metric); got != "84.0 m³" {
		t.Errorf("FormatVolume(84, metric) = %q, want \"84.0 m³\"", got)
	}
}
