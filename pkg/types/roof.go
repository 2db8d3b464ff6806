package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMalformedRoof is returned when a RoofMetrics record cannot be used.
var ErrMalformedRoof = errors.New("malformed roof metrics")

// Orientation is the compass direction a roof plane faces.
type Orientation string

const (
	OrientationNorth     Orientation = "north"
	OrientationNortheast Orientation = "northeast"
	OrientationEast      Orientation = "east"
	OrientationSoutheast Orientation = "southeast"
	OrientationSouth     Orientation = "south"
	OrientationSouthwest Orientation = "southwest"
	OrientationWest      Orientation = "west"
	OrientationNorthwest Orientation = "northwest"
	OrientationUnknown   Orientation = "unknown"
)

// Orientations lists every known orientation, clockwise from north.
var Orientations = []Orientation{
	OrientationNorth,
	OrientationNortheast,
	OrientationEast,
	OrientationSoutheast,
	OrientationSouth,
	OrientationSouthwest,
	OrientationWest,
	OrientationNorthwest,
}

// ParseOrientation parses a compass direction case-insensitively. Anything
// that isn't one of the 8 directions is OrientationUnknown.
func ParseOrientation(s string) Orientation {
	o := Orientation(strings.ToLower(strings.TrimSpace(s)))
	switch o {
	case OrientationNorth, OrientationNortheast, OrientationEast, OrientationSoutheast,
		OrientationSouth, OrientationSouthwest, OrientationWest, OrientationNorthwest:
		return o
	default:
		return OrientationUnknown
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Orientation) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*o = ParseOrientation(s)
	return nil
}

// RoofMetrics is the roof geometry produced by the vision analyzer.
type RoofMetrics struct {
	TotalArea        float64     `json:"total_area"`        // m²
	UsableArea       float64     `json:"usable_area"`       // m², after setbacks and obstructions
	Orientation      Orientation `json:"orientation"`       // compass facing
	Slope            float64     `json:"slope"`             // degrees
	ShadingFactor    float64     `json:"shading_factor"`    // fraction of irradiance lost, 0-1
	ObstructionCount int         `json:"obstruction_count"` // informational

	// missing holds the required keys that were absent when decoded from JSON
	missing []string
}

var requiredRoofKeys = []string{"total_area", "usable_area", "orientation", "slope", "shading_factor"}

// UnmarshalJSON decodes the record and remembers which required keys were
// absent so Validate can reject it later. Decoding itself doesn't fail on a
// missing key.
func (r *RoofMetrics) UnmarshalJSON(b []byte) error {
	type plain RoofMetrics
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	*r = RoofMetrics(p)
	r.missing = nil
	for _, k := range requiredRoofKeys {
		if v, ok := keys[k]; !ok || string(v) == "null" {
			r.missing = append(r.missing, k)
		}
	}
	return nil
}

// Validate checks the record is usable by the calculator.
func (r RoofMetrics) Validate() error {
	if len(r.missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMalformedRoof, strings.Join(r.missing, ", "))
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"total_area", r.TotalArea},
		{"usable_area", r.UsableArea},
		{"slope", r.Slope},
		{"shading_factor", r.ShadingFactor},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrMalformedRoof, f.name)
		}
	}
	if r.UsableArea < 0 || r.TotalArea < 0 {
		return fmt.Errorf("%w: negative area", ErrMalformedRoof)
	}
	if r.TotalArea > 0 && r.UsableArea > r.TotalArea {
		return fmt.Errorf("%w: usable_area %.1f exceeds total_area %.1f", ErrMalformedRoof, r.UsableArea, r.TotalArea)
	}
	if r.ShadingFactor < 0 || r.ShadingFactor > 1 {
		return fmt.Errorf("%w: shading_factor %.2f outside [0,1]", ErrMalformedRoof, r.ShadingFactor)
	}
	if r.ObstructionCount < 0 {
		return fmt.Errorf("%w: negative obstruction_count", ErrMalformedRoof)
	}
	return nil
}
