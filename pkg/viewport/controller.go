package viewport

import "context"

// Phase decides whether pointer moves pan the chart.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// Bounds is the horizontal extent of the chart area in the caller's units
// (pixels in a browser, cells in a terminal).
type Bounds struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Fraction maps an absolute x to its position across the bounds, in [0,1].
func (b Bounds) Fraction(x float64) float64 {
	if !(b.Width > 0) {
		return 0
	}
	return clamp((x-b.Left)/b.Width, 0, 1)
}

// Source supplies the full series for a subject (wallet address or
// "portfolio") over a range.
type Source interface {
	Series(ctx context.Context, subject string, r Range) (Series, error)
}

// Controller turns wheel and pointer events for one chart into viewport
// updates. It is not safe for concurrent use; callers serialize events.
type Controller struct {
	series Series
	rng    Range
	state  State
	phase  Phase
	lastX  float64
}

func NewController(series Series, r Range) *Controller {
	return &Controller{series: series, rng: r, state: Reset()}
}

// SetRange swaps in the series for a newly selected range and resets zoom
// and pan.
func (c *Controller) SetRange(r Range, series Series) {
	c.rng = r
	c.series = series
	c.state = Reset()
	c.phase = Idle
}

// Wheel zooms around the pointer. It reports whether the state changed.
func (c *Controller) Wheel(deltaY, pointerX float64, b Bounds) bool {
	if !c.Enabled() {
		return false
	}
	next := ApplyZoom(c.series, c.state, deltaY, b.Fraction(pointerX))
	return c.set(next)
}

func (c *Controller) PointerDown(x float64) {
	if !c.Enabled() {
		return
	}
	c.phase = Dragging
	c.lastX = x
}

// PointerMove pans by the distance moved since the previous event while a
// drag is in progress.
func (c *Controller) PointerMove(x float64, b Bounds) bool {
	if c.phase != Dragging {
		return false
	}
	dx := x - c.lastX
	c.lastX = x
	return c.set(ApplyPan(c.series, c.state, dx, b.Width))
}

func (c *Controller) PointerUp() { c.phase = Idle }
func (c *Controller) PointerLeave() { c.phase = Idle }

// Visible is the slice of the series currently on screen.
func (c *Controller) Visible() Series {
	return Window(c.series, c.state, c.Enabled())
}

// Enabled reports whether the current range is zoomable.
func (c *Controller) Enabled() bool { return c.rng.Windowed() }

func (c *Controller) State() State { return c.state }
func (c *Controller) Phase() Phase { return c.phase }
func (c *Controller) Range() Range { return c.rng }
func (c *Controller) Series() Series { return c.series }

func (c *Controller) set(next State) bool {
	if next == c.state {
		return false
	}
	c.state = next
	return true
}
