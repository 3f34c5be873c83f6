package plots

import (
	"errors"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

var ErrInvalidMeasurement = errors.New("measurement must be a number greater than 0")

// Side names a manual measurement.
type Side string

const (
	SideSWSE Side = "sw_se"
	SideSWNW Side = "sw_nw"
)

// MeasurementDeriver computes a derived side from a manual one.
type MeasurementDeriver interface {
	Derive(manual float64) int
}

// RandomDeriver draws a uniform integer in [1, floor(manual/2)] and adds 7.
// Inputs below 2 leave an empty range and yield 8.
type RandomDeriver struct{}

func (RandomDeriver) Derive(manual float64) int {
	n := int(math.Floor(0.5 * manual))
	if n < 1 {
		return 8
	}
	return rand.IntN(n) + 1 + 7
}

// ParseMeasurement accepts a positive finite number.
func ParseMeasurement(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidMeasurement
	}
	return v, nil
}

// deriveSide returns the derived value for a manual entry, nil when the entry is
// not a valid measurement.
func deriveSide(d MeasurementDeriver, value string) *int {
	v, err := ParseMeasurement(value)
	if err != nil {
		return nil
	}
	derived := d.Derive(v)
	return &derived
}
