// Package viewport computes which contiguous slice of a time series a chart
// shows, and how wheel and drag input move that slice.
package viewport

import "math"

const (
	MinZoom = 1.0
	MaxZoom = 10.0

	// MinVisible is the floor on points shown once a series is windowed.
	MinVisible = 10

	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

type Point struct {
	Label string  `json:"date_label"`
	Value float64 `json:"value"`
}

// Series is ordered oldest first; position is the slice index.
type Series []Point

type State struct {
	Zoom   float64 `json:"zoom"`
	Offset float64 `json:"offset"`
}

// Reset is the state a chart starts in whenever its range changes.
func Reset() State {
	return State{Zoom: MinZoom, Offset: 0}
}

// VisibleCount is max(10, floor(n/zoom)). It can exceed n for short series.
func VisibleCount(n int, zoom float64) int {
	zoom = clampZoom(zoom)
	c := int(math.Floor(float64(n) / zoom))
	if c < MinVisible {
		c = MinVisible
	}
	return c
}

// MaxOffset is the largest offset that keeps a full window inside the series.
func MaxOffset(n int, zoom float64) float64 {
	m := n - VisibleCount(n, zoom)
	if m < 0 {
		return 0
	}
	return float64(m)
}

// Clamp pulls zoom into [1,10] and offset into [0, MaxOffset].
func (s State) Clamp(n int) State {
	z := clampZoom(s.Zoom)
	return State{Zoom: z, Offset: clamp(finite(s.Offset), 0, MaxOffset(n, z))}
}

// Window returns the visible slice of series. When windowing is off or the
// series is empty the series is returned as is.
func Window(series Series, s State, enabled bool) Series {
	n := len(series)
	if n == 0 || !enabled {
		return series
	}
	count := VisibleCount(n, s.Zoom)
	start := int(math.Floor(s.Clamp(n).Offset))
	end := start + count
	if end > n {
		end = n
	}
	return series[start:end]
}

// ApplyZoom zooms in for a negative wheel delta and out for a positive one,
// keeping the point under the cursor in place. Only the sign of wheelDelta
// is used. cursorFraction is the pointer position across the chart, 0 at the
// left edge and 1 at the right.
func ApplyZoom(series Series, s State, wheelDelta, cursorFraction float64) State {
	n := len(series)
	if n == 0 || wheelDelta == 0 || math.IsNaN(wheelDelta) {
		return s
	}
	factor := zoomInFactor
	if wheelDelta > 0 {
		factor = zoomOutFactor
	}
	cur := s.Clamp(n)
	f := clamp(finite(cursorFraction), 0, 1)

	anchor := cur.Offset + f*float64(span(n, cur.Zoom))

	z := clampZoom(cur.Zoom * factor)
	off := anchor - f*float64(span(n, z))
	return State{Zoom: z, Offset: clamp(off, 0, MaxOffset(n, z))}
}

// ApplyPan drags the window by pixelDeltaX on a chart viewportPixelWidth
// pixels wide. Dragging right moves the window towards older points.
func ApplyPan(series Series, s State, pixelDeltaX, viewportPixelWidth float64) State {
	n := len(series)
	if pixelDeltaX == 0 || n == 0 || !(viewportPixelWidth > 0) || math.IsInf(viewportPixelWidth, 0) {
		return s
	}
	cur := s.Clamp(n)
	delta := (finite(pixelDeltaX) / viewportPixelWidth) * (float64(n) / cur.Zoom)
	return State{Zoom: cur.Zoom, Offset: clamp(cur.Offset-delta, 0, MaxOffset(n, cur.Zoom))}
}

// span is the number of points actually on screen.
func span(n int, zoom float64) int {
	c := VisibleCount(n, zoom)
	if c > n {
		return n
	}
	return c
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return MinZoom
	}
	return clamp(z, MinZoom, MaxZoom)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
