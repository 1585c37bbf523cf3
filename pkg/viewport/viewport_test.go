package viewport

import (
	"fmt"
	"math"
	"testing"
)

func makeSeries(n int) Series {
	s := make(Series, n)
	for i := range s {
		s[i] = Point{Label: fmt.Sprintf("d%03d", i), Value: float64(i)}
	}
	return s
}

func TestWindowIdentityAtZoomOne(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 200} {
		s := makeSeries(n)
		got := Window(s, Reset(), true)
		if len(got) != n {
			t.Fatalf("n=%d: window len %d want %d", n, len(got), n)
		}
	}
}

func TestWindowShortSeriesAlwaysFull(t *testing.T) {
	s := makeSeries(7)
	for _, z := range []float64{1, 2.5, 10} {
		got := Window(s, State{Zoom: z, Offset: 3}, true)
		if len(got) != 7 || got[0].Value != 0 {
			t.Fatalf("zoom %v: got %d points starting %v", z, len(got), got)
		}
	}
}

func TestWindowDisabledPassthrough(t *testing.T) {
	s := makeSeries(100)
	got := Window(s, State{Zoom: 4, Offset: 20}, false)
	if len(got) != 100 {
		t.Fatalf("disabled window len %d want 100", len(got))
	}
}

func TestWindowZoomFour(t *testing.T) {
	s := makeSeries(100)
	for _, off := range []float64{0, 10.7, 75, 500} {
		got := Window(s, State{Zoom: 4, Offset: off}, true)
		if len(got) != 25 {
			t.Fatalf("offset %v: len %d want 25", off, len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].Value != got[i-1].Value+1 {
				t.Fatalf("offset %v: window not contiguous at %d", off, i)
			}
		}
	}
	got := Window(s, State{Zoom: 4, Offset: 10.7}, true)
	if got[0].Value != 10 {
		t.Fatalf("start %v want 10 (floor of offset)", got[0].Value)
	}
}

func TestClampKeepsWindowInside(t *testing.T) {
	for _, n := range []int{0, 5, 15, 100, 333} {
		for z := 0.5; z <= 12; z += 0.37 {
			for _, off := range []float64{-50, 0, 3.3, 80, 1e9, math.NaN(), math.Inf(1)} {
				st := State{Zoom: z, Offset: off}.Clamp(n)
				if st.Zoom < MinZoom || st.Zoom > MaxZoom {
					t.Fatalf("zoom %v escaped clamp", st.Zoom)
				}
				if st.Offset < 0 {
					t.Fatalf("negative offset %v", st.Offset)
				}
				if n >= MinVisible && st.Offset+float64(VisibleCount(n, st.Zoom)) > float64(n) {
					t.Fatalf("n=%d z=%v off=%v: window overflows", n, st.Zoom, st.Offset)
				}
				w := Window(makeSeries(n), st, true)
				want := MinVisible
				if n < want {
					want = n
				}
				if len(w) < want || len(w) > n {
					t.Fatalf("n=%d: window len %d out of [%d,%d]", n, len(w), want, n)
				}
			}
		}
	}
}

func TestFifteenPointsAtMaxZoom(t *testing.T) {
	s := makeSeries(15)
	if c := VisibleCount(15, 10); c != 10 {
		t.Fatalf("visible count %d want 10", c)
	}
	if m := MaxOffset(15, 10); m != 5 {
		t.Fatalf("max offset %v want 5", m)
	}
	st := State{Zoom: 10, Offset: 9}.Clamp(len(s))
	if st.Offset != 5 {
		t.Fatalf("offset %v want 5", st.Offset)
	}
	w := Window(s, State{Zoom: 10, Offset: 42}, true)
	if w[0].Value != 5 || len(w) != 10 {
		t.Fatalf("window start %v len %d", w[0].Value, len(w))
	}
}

func TestPanZeroIsIdentity(t *testing.T) {
	s := makeSeries(100)
	in := State{Zoom: 3, Offset: 12.5}
	if got := ApplyPan(s, in, 0, 800); got != in {
		t.Fatalf("pan 0: got %+v want %+v", got, in)
	}
}

func TestPanSaturatesAtZero(t *testing.T) {
	s := makeSeries(100)
	st := State{Zoom: 2, Offset: 0}
	for i := 0; i < 20; i++ {
		// dragging right reveals older points
		st = ApplyPan(s, st, 40, 400)
		if st.Offset != 0 {
			t.Fatalf("step %d: offset %v want 0", i, st.Offset)
		}
	}
}

func TestPanSaturatesAtMax(t *testing.T) {
	s := makeSeries(100)
	st := State{Zoom: 2, Offset: 0}
	for i := 0; i < 20; i++ {
		st = ApplyPan(s, st, -100, 400)
	}
	if st.Offset != 50 {
		t.Fatalf("offset %v want 50", st.Offset)
	}
}

func TestPanConvertsPixelsToIndexes(t *testing.T) {
	s := makeSeries(200)
	st := ApplyPan(s, State{Zoom: 2, Offset: 50}, -100, 400)
	// 100/400 of 200/2 visible points
	if st.Offset != 75 {
		t.Fatalf("offset %v want 75", st.Offset)
	}
}

func TestPanBadWidth(t *testing.T) {
	s := makeSeries(100)
	in := State{Zoom: 2, Offset: 10}
	for _, w := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		if got := ApplyPan(s, in, 30, w); got != in {
			t.Fatalf("width %v: got %+v", w, got)
		}
	}
}

func TestZoomInStabilizesAtMax(t *testing.T) {
	s := makeSeries(500)
	st := Reset()
	for i := 0; i < 60; i++ {
		next := ApplyZoom(s, st, -120, 0.3)
		if next.Zoom < st.Zoom {
			t.Fatalf("step %d: zoom went down %v -> %v", i, st.Zoom, next.Zoom)
		}
		st = next
	}
	if st.Zoom != MaxZoom {
		t.Fatalf("zoom %v want %v", st.Zoom, MaxZoom)
	}
	again := ApplyZoom(s, st, -1, 0.3)
	if again.Zoom != MaxZoom {
		t.Fatalf("zoom overshoot %v", again.Zoom)
	}
}

func TestZoomOutStabilizesAtMin(t *testing.T) {
	s := makeSeries(500)
	st := State{Zoom: 5, Offset: 200}
	for i := 0; i < 60; i++ {
		st = ApplyZoom(s, st, 3, 0.8)
	}
	if st.Zoom != MinZoom || st.Offset != 0 {
		t.Fatalf("got %+v want zoom 1 offset 0", st)
	}
}

func TestZoomUsesOnlySign(t *testing.T) {
	s := makeSeries(300)
	a := ApplyZoom(s, Reset(), -1, 0.5)
	b := ApplyZoom(s, Reset(), -900, 0.5)
	if a != b {
		t.Fatalf("magnitude changed result: %+v vs %+v", a, b)
	}
	if got := ApplyZoom(s, Reset(), 0, 0.5); got != Reset() {
		t.Fatalf("zero delta changed state: %+v", got)
	}
}

func TestZoomEmptySeries(t *testing.T) {
	in := State{Zoom: 3, Offset: 7}
	if got := ApplyZoom(nil, in, -1, 0.5); got != in {
		t.Fatalf("empty series: got %+v", got)
	}
}

func TestZoomKeepsPointUnderCursor(t *testing.T) {
	s := makeSeries(1000)
	st := State{Zoom: 2, Offset: 200}
	frac := 0.25
	before := st.Offset + frac*float64(VisibleCount(1000, st.Zoom))
	next := ApplyZoom(s, st, -1, frac)
	after := next.Offset + frac*float64(VisibleCount(1000, next.Zoom))
	if math.Abs(before-after) > 1e-9 {
		t.Fatalf("anchor moved %v -> %v", before, after)
	}
}

func TestFiveZoomStepsAtCenter(t *testing.T) {
	s := makeSeries(200)
	st := Reset()
	for i := 0; i < 5; i++ {
		st = ApplyZoom(s, st, -1, 0.5)
	}
	if math.Abs(st.Zoom-math.Pow(1.1, 5)) > 1e-9 {
		t.Fatalf("zoom %v want %v", st.Zoom, math.Pow(1.1, 5))
	}
	if c := VisibleCount(200, st.Zoom); c != 124 {
		t.Fatalf("visible count %d want 124", c)
	}
	w := Window(s, st, true)
	if len(w) != 124 {
		t.Fatalf("window len %d want 124", len(w))
	}
	start, end := int(w[0].Value), int(w[len(w)-1].Value)+1
	if start != 38 || end != 162 {
		t.Fatalf("window [%d,%d) want [38,162)", start, end)
	}
	if st.Offset < 0 || st.Offset > 76 {
		t.Fatalf("offset %v outside [0,76]", st.Offset)
	}
}

func TestZoomCursorFractionClamped(t *testing.T) {
	s := makeSeries(100)
	a := ApplyZoom(s, Reset(), -1, 7)
	b := ApplyZoom(s, Reset(), -1, 1)
	if a != b {
		t.Fatalf("fraction not clamped: %+v vs %+v", a, b)
	}
}
