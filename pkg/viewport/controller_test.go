package viewport

import "testing"

func TestControllerDragIsIncremental(t *testing.T) {
	c := NewController(makeSeries(200), RangeAll)
	b := Bounds{Left: 0, Width: 400}
	c.Wheel(-1, 200, b)
	c.Wheel(-1, 200, b)
	start := c.State().Offset

	if c.PointerMove(100, b) {
		t.Fatalf("move without pointer down must not pan")
	}
	c.PointerDown(300)
	if c.Phase() != Dragging {
		t.Fatalf("phase %v want dragging", c.Phase())
	}
	c.PointerMove(290, b)
	c.PointerMove(280, b)
	afterTwo := c.State().Offset

	// one move of the same total distance pans the same amount
	d := NewController(makeSeries(200), RangeAll)
	d.Wheel(-1, 200, b)
	d.Wheel(-1, 200, b)
	d.PointerDown(300)
	d.PointerMove(280, b)
	if diff := afterTwo - d.State().Offset; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("incremental drag %v != single drag %v", afterTwo, d.State().Offset)
	}
	if afterTwo <= start {
		t.Fatalf("dragging left should move window forward: %v -> %v", start, afterTwo)
	}

	c.PointerUp()
	if c.Phase() != Idle {
		t.Fatalf("phase %v want idle", c.Phase())
	}
	before := c.State()
	c.PointerMove(0, b)
	if c.State() != before {
		t.Fatalf("idle move changed state")
	}
}

func TestControllerPointerLeaveEndsDrag(t *testing.T) {
	c := NewController(makeSeries(100), Range1Y)
	c.PointerDown(10)
	c.PointerLeave()
	if c.Phase() != Idle {
		t.Fatalf("phase %v want idle", c.Phase())
	}
}

func TestControllerShortRangeBypass(t *testing.T) {
	for _, r := range []Range{Range1D, Range1W, Range1M} {
		c := NewController(makeSeries(300), r)
		b := Bounds{Width: 100}
		if c.Wheel(-1, 50, b) {
			t.Fatalf("%s: wheel changed state", r)
		}
		c.PointerDown(10)
		if c.Phase() != Idle {
			t.Fatalf("%s: drag started on short range", r)
		}
		if len(c.Visible()) != 300 {
			t.Fatalf("%s: visible %d want 300", r, len(c.Visible()))
		}
	}
}

func TestControllerRangeChangeResets(t *testing.T) {
	c := NewController(makeSeries(300), Range3M)
	b := Bounds{Left: 20, Width: 200}
	for i := 0; i < 8; i++ {
		c.Wheel(-1, 70, b)
	}
	if c.State() == Reset() {
		t.Fatalf("wheel did not zoom")
	}
	c.PointerDown(5)
	c.SetRange(Range1Y, makeSeries(365))
	if c.State() != Reset() || c.Phase() != Idle {
		t.Fatalf("range change left state %+v phase %v", c.State(), c.Phase())
	}
	if len(c.Visible()) != 365 {
		t.Fatalf("visible %d want 365", len(c.Visible()))
	}
}

func TestBoundsFraction(t *testing.T) {
	b := Bounds{Left: 100, Width: 200}
	cases := []struct {
		x, want float64
	}{
		{100, 0}, {200, 0.5}, {300, 1}, {50, 0}, {900, 1},
	}
	for _, tc := range cases {
		if got := b.Fraction(tc.x); got != tc.want {
			t.Errorf("Fraction(%v) = %v want %v", tc.x, got, tc.want)
		}
	}
	if got := (Bounds{}).Fraction(10); got != 0 {
		t.Errorf("zero-width fraction %v", got)
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange(" 1y ")
	if err != nil || r != Range1Y {
		t.Fatalf("ParseRange: %v %v", r, err)
	}
	if _, err := ParseRange("2W"); err == nil {
		t.Fatalf("expected error for unknown range")
	}
	windowed := 0
	for _, r := range AllRanges() {
		if r.Windowed() {
			windowed++
		}
	}
	if windowed != 3 {
		t.Fatalf("%d windowed ranges want 3", windowed)
	}
}
