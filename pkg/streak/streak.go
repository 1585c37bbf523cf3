// Package streak implements the daily check-in streak. Days are calendar days
// in one fixed timezone, compared as civil dates, so a DST change or a
// traveling device cannot count a day twice or skip one.
package streak

import (
	"errors"
	"fmt"
	"time"
)

var ErrAlreadyCheckedIn = errors.New("already checked in today")

type Status int

const (
	NoHistory Status = iota
	CheckedInToday
	// Pending means the last check-in was yesterday; checking in today
	// extends the streak.
	Pending
	Lapsed
)

func (s Status) String() string {
	switch s {
	case CheckedInToday:
		return "checked_in_today"
	case Pending:
		return "pending"
	case Lapsed:
		return "lapsed"
	}
	return "no_history"
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	for _, st := range []Status{NoHistory, CheckedInToday, Pending, Lapsed} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown streak status %q", b)
}

// Day is a civil date. The zero Day means "never".
type Day struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

func (d Day) IsZero() bool { return d.Year == 0 }

// number counts days since 1970-01-01; UTC midnight avoids DST gaps.
func (d Day) number() int64 {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// Since returns d - other in whole days.
func (d Day) Since(other Day) int {
	return int(d.number() - other.number())
}

func (d Day) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func ParseDay(s string) (Day, error) {
	if s == "" {
		return Day{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

type Record struct {
	Subject     string `json:"subject"`
	LastDay     Day    `json:"last_day"`
	Current     int    `json:"current"`
	Longest     int    `json:"longest"`
	TotalDays   int    `json:"total_days"`
	TotalPoints int    `json:"total_points"`
}

type Rules struct {
	Location    *time.Location
	Points      int
	BonusEvery  int
	BonusPoints int
}

// StatusAt classifies the record relative to now.
func (r Rules) StatusAt(rec Record, now time.Time) Status {
	if rec.LastDay.IsZero() {
		return NoHistory
	}
	switch gap := DayOf(now, r.loc()).Since(rec.LastDay); {
	case gap <= 0:
		// a clock set back still counts as today
		return CheckedInToday
	case gap == 1:
		return Pending
	default:
		return Lapsed
	}
}

// CurrentStreak is the streak as displayed at now: it reads 0 once lapsed.
func (r Rules) CurrentStreak(rec Record, now time.Time) int {
	if st := r.StatusAt(rec, now); st == Lapsed || st == NoHistory {
		return 0
	}
	return rec.Current
}

// CheckIn records a check-in at now and returns the updated record and the
// points it earned.
func (r Rules) CheckIn(rec Record, now time.Time) (Record, int, error) {
	today := DayOf(now, r.loc())
	switch r.StatusAt(rec, now) {
	case CheckedInToday:
		return rec, 0, ErrAlreadyCheckedIn
	case Pending:
		rec.Current++
	default:
		rec.Current = 1
	}
	rec.LastDay = today
	rec.TotalDays++
	if rec.Current > rec.Longest {
		rec.Longest = rec.Current
	}
	earned := r.Points
	if r.BonusEvery > 0 && rec.Current%r.BonusEvery == 0 {
		earned += r.BonusPoints
	}
	rec.TotalPoints += earned
	return rec, earned, nil
}

func (r Rules) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}
