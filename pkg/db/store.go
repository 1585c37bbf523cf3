package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/wallet-dash/pkg/config"
	"github.com/wallet-dash/pkg/state"
	"github.com/wallet-dash/pkg/streak"
	"github.com/wallet-dash/pkg/viewport"
	"github.com/wallet-dash/pkg/wallet"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tracked_wallets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    address TEXT NOT NULL,
    chain TEXT NOT NULL DEFAULT 'ethereum',
    label TEXT,
    position INTEGER NOT NULL DEFAULT 0,
    added_at INTEGER NOT NULL,
    UNIQUE(address, chain)
);

CREATE TABLE IF NOT EXISTS value_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    subject TEXT NOT NULL,
    value REAL NOT NULL,
    taken_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS streaks (
    subject TEXT PRIMARY KEY,
    last_day TEXT,
    current INTEGER DEFAULT 0,
    longest INTEGER DEFAULT 0,
    total_days INTEGER DEFAULT 0,
    total_points INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS checkin_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    subject TEXT NOT NULL,
    day TEXT NOT NULL,
    points INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE(subject, day)
);

CREATE INDEX IF NOT EXISTS idx_snap_subject_time ON value_snapshots(subject, taken_at);
CREATE INDEX IF NOT EXISTS idx_wallet_chain ON tracked_wallets(chain);
`

const keyNumbersVisible = "numbers_visible"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ---- Settings ----

func (s *Store) LoadSettings() (state.Settings, error) {
	st := state.DefaultSettings()
	var v string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key=?", keyNumbersVisible).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("load settings: %w", err)
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return st, fmt.Errorf("settings %s=%q: %w", keyNumbersVisible, v, err)
	}
	return st.SetNumbersVisible(b), nil
}

func (s *Store) SaveSettings(st state.Settings) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		keyNumbersVisible, strconv.FormatBool(st.NumbersVisible))
	return err
}

// ---- Tracked Wallets ----

func (s *Store) LoadWallets() (state.WalletList, error) {
	rows, err := s.db.Query(`
		SELECT address, chain, COALESCE(label,''), added_at
		FROM tracked_wallets ORDER BY position, id`)
	if err != nil {
		return state.WalletList{}, err
	}
	defer rows.Close()

	var list state.WalletList
	for rows.Next() {
		var w wallet.Wallet
		var chain string
		var added int64
		if err := rows.Scan(&w.Address, &chain, &w.Label, &added); err != nil {
			return state.WalletList{}, err
		}
		w.Chain = config.Chain(chain)
		w.AddedAt = time.Unix(added, 0).UTC()
		list.Wallets = append(list.Wallets, w)
	}
	return list, rows.Err()
}

// SaveWallets replaces the stored list with l, keeping its order.
func (s *Store) SaveWallets(l state.WalletList) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tracked_wallets"); err != nil {
		return err
	}
	for i, w := range l.Wallets {
		added := w.AddedAt
		if added.IsZero() {
			added = s.now()
		}
		if _, err := tx.Exec(`
			INSERT INTO tracked_wallets (address, chain, label, position, added_at)
			VALUES (?, ?, ?, ?, ?)`,
			w.Address, string(w.Chain), w.Label, i, added.Unix()); err != nil {
			return fmt.Errorf("save wallet %s: %w", w.Address, err)
		}
	}
	return tx.Commit()
}

// ---- Snapshots ----

func (s *Store) InsertSnapshot(subject string, value float64, at time.Time) error {
	_, err := s.db.Exec(
		"INSERT INTO value_snapshots (subject, value, taken_at) VALUES (?, ?, ?)",
		subject, value, at.Unix())
	return err
}

func (s *Store) GetSnapshots(subject string, since time.Time) ([]Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, subject, value, taken_at FROM value_snapshots
		WHERE subject=? AND taken_at >= ? ORDER BY taken_at, id`,
		subject, since.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var sn Snapshot
		var at int64
		if err := rows.Scan(&sn.ID, &sn.Subject, &sn.Value, &at); err != nil {
			return nil, err
		}
		sn.TakenAt = time.Unix(at, 0).UTC()
		snaps = append(snaps, sn)
	}
	return snaps, rows.Err()
}

// Series returns the stored snapshots of subject within r, oldest first.
func (s *Store) Series(ctx context.Context, subject string, r viewport.Range) (viewport.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var since time.Time
	if d := r.Duration(); d > 0 {
		since = s.now().Add(-d)
	}
	snaps, err := s.GetSnapshots(subject, since)
	if err != nil {
		return nil, fmt.Errorf("series %s/%s: %w", subject, r, err)
	}
	layout := r.LabelLayout()
	series := make(viewport.Series, 0, len(snaps))
	for _, sn := range snaps {
		series = append(series, viewport.Point{Label: sn.TakenAt.Format(layout), Value: sn.Value})
	}
	return series, nil
}

// PruneSnapshots drops snapshots older than before and returns how many.
func (s *Store) PruneSnapshots(before time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM value_snapshots WHERE taken_at < ?", before.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- Streaks ----

func (s *Store) GetStreak(subject string) (streak.Record, error) {
	rec := streak.Record{Subject: subject}
	var last sql.NullString
	err := s.db.QueryRow(`
		SELECT last_day, current, longest, total_days, total_points
		FROM streaks WHERE subject=?`, subject).
		Scan(&last, &rec.Current, &rec.Longest, &rec.TotalDays, &rec.TotalPoints)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, nil
	}
	if err != nil {
		return rec, err
	}
	rec.LastDay, err = streak.ParseDay(last.String)
	if err != nil {
		return rec, fmt.Errorf("streak %s: bad last_day %q: %w", subject, last.String, err)
	}
	return rec, nil
}

// RecordCheckIn stores the updated streak and the log entry in one
// transaction. The log's UNIQUE(subject, day) rejects a second check-in for
// the same day even if two callers race.
func (s *Store) RecordCheckIn(rec streak.Record, points int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	day := rec.LastDay.String()
	if _, err := tx.Exec(`
		INSERT INTO checkin_log (subject, day, points, created_at) VALUES (?, ?, ?, ?)`,
		rec.Subject, day, points, s.now().Unix()); err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return streak.ErrAlreadyCheckedIn
		}
		return fmt.Errorf("checkin log: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO streaks (subject, last_day, current, longest, total_days, total_points)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(subject) DO UPDATE SET
			last_day=excluded.last_day, current=excluded.current, longest=excluded.longest,
			total_days=excluded.total_days, total_points=excluded.total_points`,
		rec.Subject, day, rec.Current, rec.Longest, rec.TotalDays, rec.TotalPoints); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) GetCheckIns(subject string, limit int) ([]CheckIn, error) {
	rows, err := s.db.Query(`
		SELECT subject, day, points, created_at FROM checkin_log
		WHERE subject=? ORDER BY day DESC LIMIT ?`, subject, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CheckIn
	for rows.Next() {
		var c CheckIn
		var at int64
		if err := rows.Scan(&c.Subject, &c.Day, &c.Points, &at); err != nil {
			return nil, err
		}
		c.At = time.Unix(at, 0).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

// ---- Stats ----

func (s *Store) GetStats() (map[string]int64, error) {
	stats := map[string]int64{}
	tables := []string{"tracked_wallets", "value_snapshots", "checkin_log"}

	for _, t := range tables {
		var count int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			return nil, err
		}
		stats[t] = count
	}
	return stats, nil
}
