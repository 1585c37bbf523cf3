package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wallet-dash/pkg/app"
	"github.com/wallet-dash/pkg/config"
	"github.com/wallet-dash/pkg/db"
	"github.com/wallet-dash/pkg/viewport"
)

type fakeSource struct{}

func (fakeSource) Series(ctx context.Context, subject string, r viewport.Range) (viewport.Series, error) {
	s := make(viewport.Series, 200)
	for i := range s {
		s[i] = viewport.Point{Label: fmt.Sprintf("d%03d", i), Value: float64(i)}
	}
	return s, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	store, err := db.NewStore(filepath.Join(t.TempDir(), "tui.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	a, err := app.New(store, &config.Config{StreakTimezone: "UTC", CheckInPoints: 10})
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	m := New(a, fakeSource{}, nil)
	t.Cleanup(m.zm.Close)
	return m
}

func loaded(t *testing.T, m Model, r viewport.Range) Model {
	t.Helper()
	m.wantRange = r
	msg := m.loadSeries(r)()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestRangeKeysLoadSeries(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	if cmd == nil {
		t.Fatalf("range key returned no command")
	}
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.ctrl.Range() != viewport.Range1Y || len(m.ctrl.Series()) != 200 || m.loading {
		t.Fatalf("range %s points %d loading %v", m.ctrl.Range(), len(m.ctrl.Series()), m.loading)
	}
}

func TestStaleSeriesIgnored(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(seriesMsg{subject: "0xsomeoneelse", rng: viewport.Range1Y, series: viewport.Series{{}}})
	if got := next.(Model).ctrl.Range(); got != viewport.Range1M {
		t.Fatalf("stale series applied, range %s", got)
	}
}

func TestSupersededRangeIgnored(t *testing.T) {
	m := newTestModel(t)
	next, slow := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	m = next.(Model)
	next, fast := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	m = next.(Model)

	next, _ = m.Update(fast())
	m = next.(Model)
	next, _ = m.Update(slow())
	m = next.(Model)
	if m.ctrl.Range() != viewport.Range1Y {
		t.Fatalf("late 3M reply replaced 1Y, range %s", m.ctrl.Range())
	}
}

func TestMouseWheelAndDrag(t *testing.T) {
	m := loaded(t, newTestModel(t), viewport.Range3M)
	b := viewport.Bounds{Left: 10, Width: 100}

	if !m.mouse(tea.MouseMsg{X: 60, Button: tea.MouseButtonWheelUp}, b, true) {
		t.Fatalf("wheel up did not zoom")
	}
	if z := m.ctrl.State().Zoom; z <= 1 {
		t.Fatalf("zoom %v", z)
	}
	if m.mouse(tea.MouseMsg{X: 60, Button: tea.MouseButtonWheelUp}, b, false) {
		t.Fatalf("wheel outside chart zoomed")
	}

	m.mouse(tea.MouseMsg{X: 60, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}, b, true)
	if m.ctrl.Phase() != viewport.Dragging {
		t.Fatalf("press did not start drag")
	}
	before := m.ctrl.State().Offset
	m.mouse(tea.MouseMsg{X: 40, Action: tea.MouseActionMotion}, b, true)
	if after := m.ctrl.State().Offset; after <= before {
		t.Fatalf("drag left should move to newer points: %v -> %v", before, after)
	}

	m.mouse(tea.MouseMsg{X: 200, Action: tea.MouseActionMotion}, b, false)
	if m.ctrl.Phase() != viewport.Idle {
		t.Fatalf("leaving the chart did not end the drag")
	}
}

func TestShortRangeIgnoresMouse(t *testing.T) {
	m := loaded(t, newTestModel(t), viewport.Range1W)
	b := viewport.Bounds{Width: 100}
	if m.mouse(tea.MouseMsg{X: 50, Button: tea.MouseButtonWheelUp}, b, true) {
		t.Fatalf("short range zoomed")
	}
	if len(m.ctrl.Visible()) != 200 {
		t.Fatalf("short range windowed to %d", len(m.ctrl.Visible()))
	}
}

func TestToggleNumbersMasksView(t *testing.T) {
	m := loaded(t, newTestModel(t), viewport.Range1M)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = next.(Model)
	if m.app.Settings().NumbersVisible {
		t.Fatalf("n did not hide numbers")
	}
	if v := m.View(); !strings.Contains(v, "****") {
		t.Fatalf("masked view missing mask")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestDrawChart(t *testing.T) {
	s := viewport.Series{{Label: "a", Value: 5}}
	if v := drawChart(s, 40, 10, true).View(); v == "" {
		t.Fatalf("empty chart view")
	}
	if v := drawChart(nil, 40, 10, false).View(); v == "" {
		t.Fatalf("empty chart view for no points")
	}
}

func TestCompactUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12, "12"},
		{1500, "1.5k"},
		{-2500000, "-2.5M"},
	}
	for _, tt := range tests {
		if got := compactUSD(tt.in); got != tt.want {
			t.Errorf("compactUSD(%v) = %q want %q", tt.in, got, tt.want)
		}
	}
}
