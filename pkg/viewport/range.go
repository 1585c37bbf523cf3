package viewport

import (
	"fmt"
	"strings"
	"time"
)

// Range is a selectable history range on the dashboard chart.
type Range string

const (
	Range1D  Range = "1D"
	Range1W  Range = "1W"
	Range1M  Range = "1M"
	Range3M  Range = "3M"
	Range1Y  Range = "1Y"
	RangeAll Range = "ALL"
)

// AllRanges lists ranges in selector order, shortest first.
func AllRanges() []Range {
	return []Range{Range1D, Range1W, Range1M, Range3M, Range1Y, RangeAll}
}

// Windowed reports whether zoom and pan apply. Only the three longest ranges
// carry enough points for it; shorter ones always show the whole series.
func (r Range) Windowed() bool {
	switch r {
	case Range3M, Range1Y, RangeAll:
		return true
	}
	return false
}

// Duration is how far back the range reaches. ALL returns 0.
func (r Range) Duration() time.Duration {
	day := 24 * time.Hour
	switch r {
	case Range1D:
		return day
	case Range1W:
		return 7 * day
	case Range1M:
		return 30 * day
	case Range3M:
		return 90 * day
	case Range1Y:
		return 365 * day
	}
	return 0
}

// LabelLayout is the time layout used for point labels in this range.
func (r Range) LabelLayout() string {
	switch r {
	case Range1D, Range1W:
		return "01-02 15:04"
	}
	return "2006-01-02"
}

func ParseRange(s string) (Range, error) {
	r := Range(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range AllRanges() {
		if v == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown range %q", s)
}
