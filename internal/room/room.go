// Package room defines the geometric room description consumed by the
// acoustic analysis engine: dimensions, surfaces with their materials, and
// obstacles. Values are produced by an external capture pipeline and are
// read-only to the engine.
package room

import (
	"fmt"
)

// SurfaceType identifies what kind of boundary a surface is.
type SurfaceType string

const (
	SurfaceWall    SurfaceType = "wall"
	SurfaceFloor   SurfaceType = "floor"
	SurfaceCeiling SurfaceType = "ceiling"
	SurfaceWindow  SurfaceType = "window"
	SurfaceDoor    SurfaceType = "door"
)

// IsValid checks if the surface type is one of the known values.
func (s SurfaceType) IsValid() bool {
	switch s {
	case SurfaceWall, SurfaceFloor, SurfaceCeiling, SurfaceWindow, SurfaceDoor:
		return true
	}
	return false
}

// ObstacleType identifies what kind of object an obstacle is.
type ObstacleType string

const (
	ObstacleFurniture ObstacleType = "furniture"
	ObstacleColumn    ObstacleType = "column"
	ObstacleBeam      ObstacleType = "beam"
	ObstacleOther     ObstacleType = "other"
)

// IsValid checks if the obstacle type is one of the known values.
func (o ObstacleType) IsValid() bool {
	switch o {
	case ObstacleFurniture, ObstacleColumn, ObstacleBeam, ObstacleOther:
		return true
	}
	return false
}

// Dimensions holds the room extents in meters. All three must be positive.
// Dimensions are value types and are never mutated after construction.
type Dimensions struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Height float64 `json:"height"`
}

// Volume returns the room volume in cubic meters.
func (d Dimensions) Volume() float64 {
	return d.Width * d.Length * d.Height
}

// FloorArea returns the floor area in square meters.
func (d Dimensions) FloorArea() float64 {
	return d.Width * d.Length
}

// Ratio returns width divided by length. Near-square rooms (ratio close to 1)
// are prone to flutter echo between parallel walls.
func (d Dimensions) Ratio() float64 {
	return d.Width / d.Length
}

// Validate reports an error if any extent is non-positive.
func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Length <= 0 || d.Height <= 0 {
		return fmt.Errorf("room dimensions must be positive, got %.2f x %.2f x %.2f", d.Width, d.Length, d.Height)
	}
	return nil
}

// Surface is one acoustic boundary of the room. AbsorptionCoefficient is
// duplicated from the material so the engine can read it without a lookup.
type Surface struct {
	Type                  SurfaceType `json:"type"`
	Area                  float64     `json:"area"`
	Material              Material    `json:"material"`
	AbsorptionCoefficient float64     `json:"absorption_coefficient"`
	Position              Vector3     `json:"position"`
}

// NewSurface builds a surface from a material, copying the material's
// absorption coefficient onto the surface.
func NewSurface(t SurfaceType, area float64, m Material, pos Vector3) Surface {
	return Surface{
		Type:                  t,
		Area:                  area,
		Material:              m,
		AbsorptionCoefficient: m.AbsorptionCoefficient,
		Position:              pos,
	}
}

// Obstacle is an object inside the room that speakers should keep clear of.
// Size holds the 3D extents in meters.
type Obstacle struct {
	Type     ObstacleType `json:"type"`
	Position Vector3      `json:"position"`
	Size     Vector3      `json:"size"`
	Material Material     `json:"material"`
}

// Data is the full room description handed to the engine by the capture
// pipeline. Surfaces and Obstacles may be empty. Any acoustic-properties
// placeholder the caller includes on input is ignored; the engine always
// recomputes acoustics from geometry.
type Data struct {
	Dimensions Dimensions `json:"dimensions"`
	Surfaces   []Surface  `json:"surfaces"`
	Obstacles  []Obstacle `json:"obstacles"`
}

// Validate checks the minimal geometric preconditions for analysis.
func (d *Data) Validate() error {
	if err := d.Dimensions.Validate(); err != nil {
		return err
	}
	for i, s := range d.Surfaces {
		if s.Area < 0 {
			return fmt.Errorf("surface %d has negative area %.2f", i, s.Area)
		}
	}
	return nil
}
