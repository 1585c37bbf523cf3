// Package tui is the terminal dashboard: portfolio totals, the value chart
// with wheel zoom and drag pan, and the check-in streak.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/wallet-dash/pkg/app"
	"github.com/wallet-dash/pkg/db"
	"github.com/wallet-dash/pkg/portfolio"
	"github.com/wallet-dash/pkg/state"
	"github.com/wallet-dash/pkg/viewport"
	"github.com/wallet-dash/pkg/wallet"
)

const chartZone = "walletdash-chart"

// wheelStep is the delta reported for one wheel notch. Only its sign matters
// to the viewport.
const wheelStep = 120

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	rangeOn    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("63")).Padding(0, 1)
	rangeOff   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	lineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
)

// Valuations reports the latest portfolio valuation.
type Valuations interface {
	Last() (*portfolio.Valuation, error)
}

type Model struct {
	app    *app.App
	source viewport.Source
	vals   Valuations
	zm     *zone.Manager

	subjects  []string
	subject   int
	ctrl      *viewport.Controller
	loading   bool
	wantRange viewport.Range // last range requested; replies for others are stale

	valuation *portfolio.Valuation
	streak    app.StreakView
	status    string
	err       error

	width  int
	height int
}

func New(a *app.App, source viewport.Source, vals Valuations) Model {
	return Model{
		app:       a,
		source:    source,
		vals:      vals,
		zm:        zone.New(),
		subjects:  []string{db.PortfolioSubject},
		ctrl:      viewport.NewController(nil, viewport.Range1M),
		wantRange: viewport.Range1M,
		loading:   true,
		width:     80,
		height:    24,
	}
}

// Run starts the program in the alternate screen with mouse motion events.
func Run(ctx context.Context, m Model) error {
	defer m.zm.Close()
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// ---- Messages ----

type tickMsg time.Time

type seriesMsg struct {
	subject string
	rng     viewport.Range
	series  viewport.Series
	err     error
}

type streakMsg struct {
	view   app.StreakView
	earned int
	err    error
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadSeries(r viewport.Range) tea.Cmd {
	subject := m.currentSubject()
	src := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s, err := src.Series(ctx, subject, r)
		return seriesMsg{subject: subject, rng: r, series: s, err: err}
	}
}

func (m Model) loadStreak() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		v, err := a.Streak()
		return streakMsg{view: v, err: err}
	}
}

func (m Model) checkIn() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		v, pts, err := a.CheckIn()
		return streakMsg{view: v, earned: pts, err: err}
	}
}

// ---- Update ----

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSeries(m.wantRange), m.loadStreak(), tickEvery(5*time.Second))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tickEvery(5 * time.Second)

	case seriesMsg:
		if msg.subject != m.currentSubject() || msg.rng != m.wantRange {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.ctrl.SetRange(msg.rng, msg.series)
		}
		return m, nil

	case streakMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else if msg.earned > 0 {
			m.status = fmt.Sprintf("checked in: +%d points", msg.earned)
		}
		m.streak = msg.view
		return m, nil

	case tea.MouseMsg:
		info := m.zm.Get(chartZone)
		if info == nil || info.IsZero() {
			return m, nil
		}
		b := m.graphBounds(info.StartX)
		m.mouse(msg, b, info.InBounds(msg))
		return m, nil

	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

func (m *Model) refresh() {
	if m.vals != nil {
		if v, err := m.vals.Last(); v != nil {
			m.valuation = v
		} else if err != nil {
			m.err = err
		}
	}
	ws := m.app.WalletSlice()
	subjects := make([]string, 0, len(ws)+1)
	subjects = append(subjects, db.PortfolioSubject)
	for _, w := range ws {
		subjects = append(subjects, w.Address)
	}
	cur := m.currentSubject()
	m.subjects = subjects
	m.subject = 0
	for i, s := range subjects {
		if s == cur {
			m.subject = i
		}
	}
}

// mouse feeds wheel and left-button events to the controller. inChart is
// whether the pointer is over the chart; leaving it ends a drag.
func (m *Model) mouse(msg tea.MouseMsg, b viewport.Bounds, inChart bool) bool {
	x := float64(msg.X)
	switch {
	case msg.Button == tea.MouseButtonWheelUp && inChart:
		return m.ctrl.Wheel(-wheelStep, x, b)
	case msg.Button == tea.MouseButtonWheelDown && inChart:
		return m.ctrl.Wheel(wheelStep, x, b)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inChart:
		m.ctrl.PointerDown(x)
	case msg.Action == tea.MouseActionRelease:
		m.ctrl.PointerUp()
	case msg.Action == tea.MouseActionMotion:
		if !inChart {
			m.ctrl.PointerLeave()
			return false
		}
		return m.ctrl.PointerMove(x, b)
	}
	return false
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "1", "2", "3", "4", "5", "6":
		r := viewport.AllRanges()[k[0]-'1']
		m.loading = true
		m.wantRange = r
		return m, m.loadSeries(r)
	case "n":
		if _, err := m.app.ToggleNumbers(); err != nil {
			m.status = err.Error()
		}
	case "c":
		return m, m.checkIn()
	case "tab":
		m.refresh()
		m.subject = (m.subject + 1) % len(m.subjects)
		m.loading = true
		return m, m.loadSeries(m.wantRange)
	case "0":
		m.ctrl.SetRange(m.ctrl.Range(), m.ctrl.Series())
	}
	return m, nil
}

func (m Model) currentSubject() string {
	if m.subject < len(m.subjects) {
		return m.subjects[m.subject]
	}
	return db.PortfolioSubject
}

// ---- View ----

func (m Model) chartSize() (int, int) {
	w := m.width - 4
	h := m.height - 12
	if w < 20 {
		w = 20
	}
	if h < 6 {
		h = 6
	}
	return w, h
}

// graphBounds is the plotting area in screen columns: the chart zone minus
// the y axis and its labels.
func (m Model) graphBounds(zoneStartX int) viewport.Bounds {
	lc := m.chart()
	return viewport.Bounds{
		Left:  float64(zoneStartX + lc.Origin().X + 1),
		Width: float64(lc.GraphWidth()),
	}
}

func (m Model) chart() linechart.Model {
	w, h := m.chartSize()
	return drawChart(m.ctrl.Visible(), w, h, m.app.Settings().NumbersVisible)
}

// drawChart plots visible with x as the index into the window.
func drawChart(visible viewport.Series, w, h int, showValues bool) linechart.Model {
	minY, maxY := 0.0, 1.0
	if len(visible) > 0 {
		minY, maxY = math.Inf(1), math.Inf(-1)
		for _, p := range visible {
			minY = math.Min(minY, p.Value)
			maxY = math.Max(maxY, p.Value)
		}
		if minY == maxY {
			minY, maxY = minY-1, maxY+1
		}
	}
	maxX := float64(len(visible) - 1)
	if maxX < 1 {
		maxX = 1
	}

	lc := linechart.New(w, h, 0, maxX, minY, maxY)
	lc.AxisStyle = dimStyle
	lc.LabelStyle = dimStyle
	lc.XLabelFormatter = func(_ int, v float64) string {
		i := int(math.Round(v))
		if i < 0 || i >= len(visible) {
			return ""
		}
		return visible[i].Label
	}
	lc.YLabelFormatter = func(_ int, v float64) string {
		if !showValues {
			return state.Mask
		}
		return compactUSD(v)
	}
	lc.SetXStep(16)
	lc.UpdateGraphSizes()
	lc.DrawXYAxisAndLabel()

	for i := 1; i < len(visible); i++ {
		lc.DrawBrailleLineWithStyle(
			canvas.Float64Point{X: float64(i - 1), Y: visible[i-1].Value},
			canvas.Float64Point{X: float64(i), Y: visible[i].Value},
			lineStyle,
		)
	}
	return lc
}

func compactUSD(v float64) string {
	switch a := math.Abs(v); {
	case a >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case a >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	}
	return fmt.Sprintf("%.0f", v)
}

func (m Model) View() string {
	settings := m.app.Settings()
	var b strings.Builder

	total := state.Mask
	if m.valuation != nil {
		total = settings.Money(m.valuation.TotalUSD)
	} else if settings.NumbersVisible {
		total = "-"
	}
	subject := "Portfolio"
	if s := m.currentSubject(); s != db.PortfolioSubject {
		subject = wallet.Abbrev(s)
	}
	b.WriteString(titleStyle.Render("💼 Wallet Dash") + "  " + dimStyle.Render(subject) + "  " + valueStyle.Render(total) + "\n")
	b.WriteString(fmt.Sprintf("🔥 streak %d (%s) · %d pts", m.streak.Current, m.streak.Status, m.streak.TotalPoints) + "\n\n")

	var ranges []string
	for i, r := range viewport.AllRanges() {
		label := fmt.Sprintf("%d %s", i+1, r)
		if r == m.ctrl.Range() {
			ranges = append(ranges, rangeOn.Render(label))
		} else {
			ranges = append(ranges, rangeOff.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, ranges...) + "\n")

	chartView := m.chart().View()
	if m.loading {
		chartView = dimStyle.Render("loading...")
	} else if len(m.ctrl.Series()) == 0 {
		chartView = dimStyle.Render("no history yet")
	}
	b.WriteString(boxStyle.Render(m.zm.Mark(chartZone, chartView)) + "\n")

	st := m.ctrl.State()
	info := fmt.Sprintf("%d of %d points", len(m.ctrl.Visible()), len(m.ctrl.Series()))
	if m.ctrl.Enabled() {
		info += fmt.Sprintf(" · zoom %.2fx · %s", st.Zoom, m.ctrl.Phase())
	}
	b.WriteString(dimStyle.Render(info) + "\n")
	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(dimStyle.Render("wheel zoom · drag pan · 1-6 range · 0 reset · tab subject · n numbers · c check in · q quit"))
	return m.zm.Scan(b.String())
}
