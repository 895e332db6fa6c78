package input

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var durationPattern = regexp.MustCompile(`^\d+[smh]$`)

// NonNegativeInt accepts whole numbers >= 0.
func NonNegativeInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("enter a non-negative whole number")
	}
	return nil
}

// PositiveInt accepts whole numbers > 0.
func PositiveInt(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// YesNo accepts y or n, case-insensitive.
func YesNo(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "n":
		return nil
	default:
		return fmt.Errorf("enter 'y' or 'n'")
	}
}

// Duration accepts an empty string or a short duration like 10s, 5m or 2h.
func Duration(value string) error {
	if value == "" {
		return nil
	}
	if !durationPattern.MatchString(value) {
		return fmt.Errorf("use formats like 10s, 5m or 2h")
	}
	return nil
}

// Port accepts a TCP port number.
func Port(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}
