// Package units converts measured distances, kept in meters, into the
// display units offered by the measurement table.
package units

import (
	"fmt"
	"strings"
)

// Unit is a display unit token as used by the unit selector
type Unit string

const (
	Meter      Unit = "m"
	Centimeter Unit = "cm"
	Inch       Unit = "inch"
	Foot       Unit = "foot"
)

// Default is used when no unit is selected or the token is unknown
const Default = Centimeter

var factors = map[Unit]float64{
	Meter:      1,
	Centimeter: 100,
	Inch:       39.3701,
	Foot:       3.28084,
}

var labels = map[Unit]string{
	Meter:      "m",
	Centimeter: "cm",
	Inch:       "in",
	Foot:       "ft",
}

// All returns the selectable units in selector order
func All() []Unit {
	return []Unit{Meter, Centimeter, Inch, Foot}
}

// Tokens returns the selector values of All
func Tokens() []string {
	all := All()
	tokens := make([]string, len(all))
	for i, u := range all {
		tokens[i] = string(u)
	}
	return tokens
}

// Parse maps a selector token to a Unit, falling back to Default
func Parse(token string) Unit {
	u := Unit(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := factors[u]; ok {
		return u
	}
	return Default
}

// Valid reports whether u is a recognized unit
func (u Unit) Valid() bool {
	_, ok := factors[u]
	return ok
}

// Label returns the short suffix shown next to a formatted value
func (u Unit) Label() string {
	return labels[Parse(string(u))]
}

// Convert converts meters into the given unit
func Convert(meters float64, u Unit) float64 {
	return meters * factors[Parse(string(u))]
}

// Format converts meters into the given unit with exactly two fractional digits
func Format(meters float64, u Unit) string {
	return fmt.Sprintf("%.2f", Convert(meters, u))
}

// FormatWithLabel is Format followed by the unit label
func FormatWithLabel(meters float64, u Unit) string {
	return Format(meters, u) + " " + u.Label()
}
