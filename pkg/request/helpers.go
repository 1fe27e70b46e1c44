package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/salama968/LearnTube/pkg/types"
)

// ParseDate parses a required YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	parsed, err := time.ParseInLocation(types.DateOnly, trimmed, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", trimmed)
	}
	return parsed, nil
}
