package insight

import "time"

// parseDate accepts the date formats transactions carry in practice: a plain
// ISO date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}

	return time.Parse(time.RFC3339, s)
}
