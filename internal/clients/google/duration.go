package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseISO8601Duration parses the PnDTnHnMnS form YouTube uses for video
// lengths. Years and months are rejected.
func ParseISO8601Duration(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if !strings.HasPrefix(s, "P") || len(s) < 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var (
		total  time.Duration
		inTime bool
		num    strings.Builder
	)
	for _, r := range s[1:] {
		switch {
		case r == 'T':
			if inTime || num.Len() > 0 {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			inTime = true
		case (r >= '0' && r <= '9') || r == '.':
			num.WriteRune(r)
		default:
			if num.Len() == 0 {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			v, err := strconv.ParseFloat(num.String(), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q: %w", s, err)
			}
			num.Reset()
			var unit time.Duration
			switch {
			case r == 'W' && !inTime:
				unit = 7 * 24 * time.Hour
			case r == 'D' && !inTime:
				unit = 24 * time.Hour
			case r == 'H' && inTime:
				unit = time.Hour
			case r == 'M' && inTime:
				unit = time.Minute
			case r == 'S' && inTime:
				unit = time.Second
			default:
				return 0, fmt.Errorf("unsupported duration unit %q in %q", r, s)
			}
			total += time.Duration(v * float64(unit))
		}
	}
	if num.Len() > 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return total, nil
}
