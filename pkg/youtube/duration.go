package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

var iso8601Duration = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISO8601Duration converts a YouTube contentDetails duration such as
// "PT1H2M30S" into seconds. Live streams report "P0D", which parses as zero.
func ParseISO8601Duration(s string) (int, error) {
	if s == "" || s == "P0D" {
		return 0, nil
	}

	m := iso8601Duration.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}

	seconds := 0
	for i, mult := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
		}
		seconds += n * mult
	}
	return seconds, nil
}
