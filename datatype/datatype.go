// Package datatype infers and checks the data types of raw CSS values.
// The functional-utility resolver uses it to decide whether a bare-type
// or bracketed-type placeholder alternative applies to a candidate.
package datatype

import (
	"strconv"
	"strings"
)

// Type names a CSS value data type usable in utility placeholders.
type Type string

const (
	Any        Type = "*"
	Number     Type = "number"
	Integer    Type = "integer"
	Ratio      Type = "ratio"
	Percentage Type = "percentage"
	Length     Type = "length"
	Color      Type = "color"
	URL        Type = "url"
)

// Matches reports whether value satisfies the requested type.
// Any matches everything; Number accepts integers.
func Matches(value string, t Type) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	switch t {
	case Any:
		return true
	case Integer:
		return isInteger(value)
	case Number:
		return isNumber(value)
	case Ratio:
		return isRatio(value)
	case Percentage:
		return isPercentage(value)
	case Length:
		return isLength(value)
	case Color:
		return isColor(value)
	case URL:
		return strings.HasPrefix(value, "url(")
	}
	return false
}

// Infer returns the most specific type for value, or "" when nothing
// matches. Used when an arbitrary value carries no explicit type hint.
func Infer(value string) Type {
	value = strings.TrimSpace(value)
	switch {
	case isInteger(value):
		return Integer
	case isNumber(value):
		return Number
	case isPercentage(value):
		return Percentage
	case isRatio(value):
		return Ratio
	case isLength(value):
		return Length
	case isColor(value):
		return Color
	case strings.HasPrefix(value, "url("):
		return URL
	}
	return ""
}

func isInteger(value string) bool {
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

func isNumber(value string) bool {
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

func isRatio(value string) bool {
	num, den, ok := strings.Cut(value, "/")
	if !ok {
		return false
	}
	return isNumber(strings.TrimSpace(num)) && isNumber(strings.TrimSpace(den))
}

func isPercentage(value string) bool {
	if !strings.HasSuffix(value, "%") {
		return false
	}
	return isNumber(value[:len(value)-1])
}

// lengthUnits covers the units utilities commonly accept.
var lengthUnits = []string{
	"px", "rem", "em", "ch", "ex", "vw", "vh", "vmin", "vmax",
	"svw", "svh", "lvw", "lvh", "dvw", "dvh", "cm", "mm", "in", "pt", "pc", "q",
}

func isLength(value string) bool {
	lower := strings.ToLower(value)
	for _, unit := range lengthUnits {
		if strings.HasSuffix(lower, unit) && isNumber(lower[:len(lower)-len(unit)]) {
			return true
		}
	}
	return false
}

var colorFunctions = []string{"rgb(", "rgba(", "hsl(", "hsla(", "hwb(", "lab(", "lch(", "oklab(", "oklch(", "color-mix(", "color("}

var namedColors = map[string]bool{
	"black": true, "white": true, "red": true, "green": true, "blue": true,
	"yellow": true, "orange": true, "purple": true, "pink": true, "gray": true,
	"grey": true, "cyan": true, "magenta": true, "transparent": true,
	"currentcolor": true, "inherit": false,
}

func isColor(value string) bool {
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "#") {
		for _, ch := range lower[1:] {
			if !strings.ContainsRune("0123456789abcdef", ch) {
				return false
			}
		}
		n := len(lower) - 1
		return n == 3 || n == 4 || n == 6 || n == 8
	}
	for _, fn := range colorFunctions {
		if strings.HasPrefix(lower, fn) {
			return true
		}
	}
	return namedColors[lower]
}
