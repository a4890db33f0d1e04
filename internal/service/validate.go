package service

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ErrInvalidInput marks payloads rejected before reaching the store.
var ErrInvalidInput = errors.New("invalid input")

var whitespaceRegex = regexp.MustCompile(`\s+`)

// sanitizeName collapses whitespace and trims the result.
func sanitizeName(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateNode(in NodeInput) error {
	if sanitizeName(in.Name) == "" {
		return invalid("name is required")
	}
	if math.IsNaN(in.Lat) || in.Lat < -90 || in.Lat > 90 {
		return invalid("lat must be within [-90, 90]")
	}
	if math.IsNaN(in.Lng) || in.Lng < -180 || in.Lng > 180 {
		return invalid("lng must be within [-180, 180]")
	}
	return nil
}

// validateEdge rejects negative and non-finite weights; the route search
// relies on every weight being non-negative.
func validateEdge(in EdgeInput) error {
	if in.From <= 0 || in.To <= 0 {
		return invalid("from and to are required")
	}
	if math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return invalid("weight must be a finite number")
	}
	if in.Weight < 0 {
		return invalid("weight must not be negative")
	}
	return nil
}
