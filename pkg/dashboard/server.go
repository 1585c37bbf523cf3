package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/wallet-dash/pkg/app"
	"github.com/wallet-dash/pkg/client"
	"github.com/wallet-dash/pkg/config"
	"github.com/wallet-dash/pkg/db"
	"github.com/wallet-dash/pkg/portfolio"
	"github.com/wallet-dash/pkg/state"
	"github.com/wallet-dash/pkg/streak"
	"github.com/wallet-dash/pkg/viewport"
	"github.com/wallet-dash/pkg/wallet"
)

// Valuations reports the latest portfolio valuation.
type Valuations interface {
	Last() (*portfolio.Valuation, error)
}

type Leaderboard interface {
	Leaderboard(ctx context.Context, limit int) ([]client.LeaderboardEntry, error)
}

type Dashboard struct {
	app      *app.App
	source   viewport.Source
	vals     Valuations
	board    Leaderboard
	port     int
	sessions *sessions
}

func New(a *app.App, source viewport.Source, vals Valuations, board Leaderboard, port int) *Dashboard {
	return &Dashboard{
		app:      a,
		source:   source,
		vals:     vals,
		board:    board,
		port:     port,
		sessions: newSessions(30 * time.Minute),
	}
}

func (d *Dashboard) Handler() http.Handler {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/settings", cors(d.handleSettings))
	mux.HandleFunc("/api/settings/numbers", cors(d.handleToggleNumbers))
	mux.HandleFunc("/api/wallets", cors(d.handleWallets))
	mux.HandleFunc("/api/wallets/add", cors(d.handleAddWallet))
	mux.HandleFunc("/api/wallets/remove", cors(d.handleRemoveWallet))
	mux.HandleFunc("/api/portfolio", cors(d.handlePortfolio))
	mux.HandleFunc("/api/viewport/session", cors(d.handleNewSession))
	mux.HandleFunc("/api/viewport/", cors(d.handleViewport))
	mux.HandleFunc("/api/chart.png", cors(d.handleChart))
	mux.HandleFunc("/api/checkin", cors(d.handleCheckIn))
	mux.HandleFunc("/api/streak", cors(d.handleStreak))
	mux.HandleFunc("/api/leaderboard", cors(d.handleLeaderboard))

	// Serve frontend
	mux.HandleFunc("/", d.serveFrontend)
	return mux
}

// Run serves until ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", d.port)
	srv := &http.Server{Addr: addr, Handler: d.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	log.Info().Str("addr", addr).Msg("🌐 dashboard started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func readJSON(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// ---- Settings & wallets ----

func (d *Dashboard) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, d.app.Settings())
}

func (d *Dashboard) handleToggleNumbers(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	st, err := d.app.ToggleNumbers()
	if err != nil {
		writeError(w, 500, err)
		return
	}
	writeJSON(w, st)
}

type walletView struct {
	wallet.Wallet
	Key   string `json:"key"`
	Short string `json:"short"`
}

func (d *Dashboard) handleWallets(w http.ResponseWriter, r *http.Request) {
	list := d.app.Wallets()
	out := make([]walletView, 0, list.Len())
	for _, wl := range list.Wallets {
		out = append(out, walletView{Wallet: wl, Key: wl.Key(), Short: wallet.Abbrev(wl.Address)})
	}
	writeJSON(w, out)
}

func (d *Dashboard) handleAddWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	var req struct {
		Address string `json:"address"`
		Chain   string `json:"chain"`
		Label   string `json:"label"`
	}
	if err := readJSON(r, &req); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}
	chain := config.Chain(strings.ToLower(req.Chain))
	if chain == "" {
		chain = wallet.DetectChain(req.Address)
	}
	wl, err := d.app.AddWallet(req.Address, chain, req.Label)
	switch {
	case errors.Is(err, state.ErrDuplicateWallet):
		writeError(w, 409, err)
		return
	case errors.Is(err, wallet.ErrInvalidAddress):
		writeError(w, 400, err)
		return
	case err != nil:
		writeError(w, 500, err)
		return
	}

	log.Info().Str("wallet", wallet.Abbrev(wl.Address)).Str("chain", string(wl.Chain)).Msg("➕ wallet added via dashboard")
	writeJSON(w, walletView{Wallet: wl, Key: wl.Key(), Short: wallet.Abbrev(wl.Address)})
}

func (d *Dashboard) handleRemoveWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	var req struct {
		Key string `json:"key"`
	}
	if err := readJSON(r, &req); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}
	if err := d.app.RemoveWallet(req.Key); err != nil {
		if errors.Is(err, state.ErrUnknownWallet) {
			writeError(w, 404, err)
			return
		}
		writeError(w, 500, err)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// ---- Portfolio ----

type holdingView struct {
	Key     string `json:"key"`
	Address string `json:"address"`
	Chain   string `json:"chain"`
	Label   string `json:"label,omitempty"`
	Symbol  string `json:"symbol"`
	Balance string `json:"balance"`
	Value   string `json:"value"`
	Error   string `json:"error,omitempty"`
}

func (d *Dashboard) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	st := d.app.Settings()
	v, lastErr := d.vals.Last()
	if v == nil {
		resp := map[string]interface{}{"holdings": []holdingView{}, "total": st.Money(decimal.Zero)}
		if lastErr != nil {
			resp["error"] = lastErr.Error()
		}
		writeJSON(w, resp)
		return
	}

	hs := make([]holdingView, 0, len(v.Holdings))
	for _, h := range v.Holdings {
		hv := holdingView{
			Key:     h.Wallet.Key(),
			Address: h.Wallet.Address,
			Chain:   string(h.Wallet.Chain),
			Label:   h.Wallet.Label,
			Symbol:  h.Symbol,
			Balance: state.Mask,
			Value:   st.Money(h.ValueUSD),
			Error:   h.Error,
		}
		if st.NumbersVisible {
			hv.Balance = h.Balance.String()
		}
		hs = append(hs, hv)
	}
	resp := map[string]interface{}{
		"holdings": hs,
		"total":    st.Money(v.TotalUSD),
		"failed":   v.Failed,
		"at":       v.At,
	}
	if lastErr != nil {
		resp["error"] = lastErr.Error()
	}
	writeJSON(w, resp)
}

// ---- Viewport sessions ----

// pointView carries a value as a number, or as the mask string when numbers
// are hidden.
type pointView struct {
	Label string      `json:"date_label"`
	Value interface{} `json:"value"`
}

type viewportView struct {
	ID        string         `json:"id"`
	Subject   string         `json:"subject"`
	Range     viewport.Range `json:"range"`
	Enabled   bool           `json:"enabled"`
	Zoom      float64        `json:"zoom"`
	Offset    float64        `json:"offset"`
	Phase     string         `json:"phase"`
	Total     int            `json:"total"`
	Visible   []pointView    `json:"visible"`
	Changed   bool           `json:"changed"`
	ShowValue bool           `json:"show_values"`
}

func (d *Dashboard) view(sess *session, changed bool) viewportView {
	st := sess.ctrl.State()
	v := viewportView{
		ID:        sess.id,
		Subject:   sess.subject,
		Range:     sess.ctrl.Range(),
		Enabled:   sess.ctrl.Enabled(),
		Zoom:      st.Zoom,
		Offset:    st.Offset,
		Phase:     sess.ctrl.Phase().String(),
		Total:     len(sess.ctrl.Series()),
		Changed:   changed,
		ShowValue: d.app.Settings().NumbersVisible,
	}
	visible := sess.ctrl.Visible()
	v.Visible = make([]pointView, len(visible))
	for i, p := range visible {
		v.Visible[i] = pointView{Label: p.Label, Value: p.Value}
		if !v.ShowValue {
			v.Visible[i].Value = state.Mask
		}
	}
	return v
}

func (d *Dashboard) handleNewSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	var req struct {
		Subject string `json:"subject"`
		Range   string `json:"range"`
	}
	if err := readJSON(r, &req); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}
	if req.Subject == "" {
		req.Subject = db.PortfolioSubject
	}
	if req.Range == "" {
		req.Range = string(viewport.Range1M)
	}
	rng, err := viewport.ParseRange(req.Range)
	if err != nil {
		writeError(w, 400, err)
		return
	}
	series, err := d.source.Series(r.Context(), req.Subject, rng)
	if err != nil {
		writeError(w, 502, err)
		return
	}
	sess := d.sessions.create(req.Subject, viewport.NewController(series, rng))
	log.Debug().Str("session", sess.id).Str("subject", req.Subject).Str("range", string(rng)).Int("points", len(series)).Msg("chart session opened")

	sess.mu.Lock()
	defer sess.mu.Unlock()
	writeJSON(w, d.view(sess, false))
}

type viewportEvent struct {
	Type   string          `json:"type"`
	DeltaY float64         `json:"delta_y"`
	X      float64         `json:"x"`
	Bounds viewport.Bounds `json:"bounds"`
	Range  string          `json:"range"`
}

// handleViewport serves GET /api/viewport/{id} and POST /api/viewport/{id}/event.
func (d *Dashboard) handleViewport(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 || parts[2] == "" {
		http.Error(w, "not found", 404)
		return
	}
	sess, ok := d.sessions.get(parts[2])
	if !ok {
		http.Error(w, "unknown session", 404)
		return
	}

	if len(parts) == 3 {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		writeJSON(w, d.view(sess, false))
		return
	}
	if len(parts) != 4 || parts[3] != "event" {
		http.Error(w, "not found", 404)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	var ev viewportEvent
	if err := readJSON(r, &ev); err != nil {
		http.Error(w, "invalid json", 400)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	changed, err := d.apply(r.Context(), sess, ev)
	if err != nil {
		writeError(w, 400, err)
		return
	}
	writeJSON(w, d.view(sess, changed))
}

func (d *Dashboard) apply(ctx context.Context, sess *session, ev viewportEvent) (bool, error) {
	c := sess.ctrl
	switch ev.Type {
	case "wheel":
		return c.Wheel(ev.DeltaY, ev.X, ev.Bounds), nil
	case "down":
		c.PointerDown(ev.X)
		return false, nil
	case "move":
		return c.PointerMove(ev.X, ev.Bounds), nil
	case "up":
		c.PointerUp()
		return false, nil
	case "leave":
		c.PointerLeave()
		return false, nil
	case "range":
		rng, err := viewport.ParseRange(ev.Range)
		if err != nil {
			return false, err
		}
		series, err := d.source.Series(ctx, sess.subject, rng)
		if err != nil {
			return false, err
		}
		c.SetRange(rng, series)
		return true, nil
	}
	return false, fmt.Errorf("unknown event type %q", ev.Type)
}

func (d *Dashboard) handleChart(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sess, ok := d.sessions.get(q.Get("session"))
	if !ok {
		http.Error(w, "unknown session", 404)
		return
	}
	width, height := 900, 360
	if v, err := strconv.Atoi(q.Get("w")); err == nil && v >= 200 && v <= 4000 {
		width = v
	}
	if v, err := strconv.Atoi(q.Get("h")); err == nil && v >= 120 && v <= 3000 {
		height = v
	}

	sess.mu.Lock()
	visible := sess.ctrl.Visible()
	title := fmt.Sprintf("%s · %s", chartTitle(sess.subject), sess.ctrl.Range())
	sess.mu.Unlock()

	png, err := renderChart(visible, title, d.app.Settings().NumbersVisible, width, height)
	if errors.Is(err, errNoPoints) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("session", sess.id).Msg("chart render failed")
		writeError(w, 500, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func chartTitle(subject string) string {
	if subject == db.PortfolioSubject {
		return "Portfolio"
	}
	return wallet.Abbrev(subject)
}

// ---- Streak & leaderboard ----

func (d *Dashboard) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "POST only", 405)
		return
	}
	v, pts, err := d.app.CheckIn()
	if errors.Is(err, streak.ErrAlreadyCheckedIn) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(409)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": err.Error(), "streak": v})
		return
	}
	if err != nil {
		writeError(w, 500, err)
		return
	}
	writeJSON(w, map[string]interface{}{"earned": pts, "streak": v})
}

func (d *Dashboard) handleStreak(w http.ResponseWriter, r *http.Request) {
	v, err := d.app.Streak()
	if err != nil {
		writeError(w, 500, err)
		return
	}
	writeJSON(w, v)
}

func (d *Dashboard) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if d.board == nil {
		writeJSON(w, []client.LeaderboardEntry{})
		return
	}
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	entries, err := d.board.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, 502, err)
		return
	}
	writeJSON(w, entries)
}
