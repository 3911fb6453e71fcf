// Package time contains time related helpers
package time

import (
	"fmt"
	"time"
)

// Now is the process clock, swapped in tests
var Now = time.Now

// Unix returns the current Unix time in seconds from the Now seam
func Unix() int64 { return Now().Unix() }

// Clamp bounds ts into [0, now]; any value outside that range becomes now
func Clamp(ts, now int64) int64 {
	if ts < 0 || ts > now {
		return now
	}
	return ts
}

// layoutProbe has every field distinct so a lossy layout cannot round-trip it by accident
var layoutProbe = time.Date(2009, time.November, 10, 23, 4, 5, 0, time.UTC)

// ValidateLayout reports whether layout formats and parses back to a non-zero time
// Layouts that drop fields are allowed; layouts with no directives at all are not
func ValidateLayout(layout string) error {
	if layout == "" {
		return fmt.Errorf("empty layout")
	}
	s := layoutProbe.Format(layout)
	if s == layout {
		return fmt.Errorf("layout %q contains no time directives", layout)
	}
	if _, err := time.Parse(layout, s); err != nil {
		return fmt.Errorf("layout %q does not parse its own output: %w", layout, err)
	}
	return nil
}

// Format renders Unix seconds with layout in UTC
func Format(ts int64, layout string) string {
	return time.Unix(ts, 0).UTC().Format(layout)
}
