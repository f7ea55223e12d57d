package rollup

import "time"

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

// compareDates orders two non-empty date strings. Parseable values compare
// chronologically; anything else falls back to lexical order, which is
// chronological for ISO dates.
func compareDates(a, b string) int {
	ta, okA := parseDate(a)
	tb, okB := parseDate(b)
	if okA && okB {
		return ta.Compare(tb)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// earliest returns the earlier of two dates, ignoring empty values.
func earliest(cur, cand string) string {
	if cand == "" {
		return cur
	}
	if cur == "" || compareDates(cand, cur) < 0 {
		return cand
	}
	return cur
}

// latest returns the later of two dates, ignoring empty values.
func latest(cur, cand string) string {
	if cand == "" {
		return cur
	}
	if cur == "" || compareDates(cand, cur) > 0 {
		return cand
	}
	return cur
}
