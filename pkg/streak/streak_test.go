package streak

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("tz data for %s unavailable: %v", name, err)
	}
	return loc
}

func TestStatusTransitions(t *testing.T) {
	r := Rules{Location: time.UTC, Points: 10}
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	var rec Record
	if st := r.StatusAt(rec, base); st != NoHistory {
		t.Fatalf("status %v want no_history", st)
	}
	rec, pts, err := r.CheckIn(rec, base)
	if err != nil || pts != 10 || rec.Current != 1 {
		t.Fatalf("first check-in: %+v %d %v", rec, pts, err)
	}
	if st := r.StatusAt(rec, base.Add(10*time.Hour)); st != CheckedInToday {
		t.Fatalf("status %v want checked_in_today", st)
	}
	if st := r.StatusAt(rec, base.Add(24*time.Hour)); st != Pending {
		t.Fatalf("status %v want pending", st)
	}
	if st := r.StatusAt(rec, base.Add(48*time.Hour)); st != Lapsed {
		t.Fatalf("status %v want lapsed", st)
	}
}

func TestDoubleCheckInRejected(t *testing.T) {
	r := Rules{Location: time.UTC, Points: 10}
	now := time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC)
	rec, _, _ := r.CheckIn(Record{}, now)
	again, pts, err := r.CheckIn(rec, now.Add(23*time.Hour))
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("err %v want ErrAlreadyCheckedIn", err)
	}
	if pts != 0 || again != rec {
		t.Fatalf("rejected check-in changed record")
	}
}

func TestStreakGrowsAndLapses(t *testing.T) {
	r := Rules{Location: time.UTC, Points: 10, BonusEvery: 3, BonusPoints: 50}
	day := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	var rec Record
	var earned []int
	for i := 0; i < 4; i++ {
		var pts int
		var err error
		rec, pts, err = r.CheckIn(rec, day.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
		earned = append(earned, pts)
	}
	if rec.Current != 4 || rec.Longest != 4 {
		t.Fatalf("streak %d longest %d", rec.Current, rec.Longest)
	}
	if earned[2] != 60 || earned[3] != 10 {
		t.Fatalf("bonus points %v", earned)
	}
	if rec.TotalPoints != 10+10+60+10 {
		t.Fatalf("total points %d", rec.TotalPoints)
	}

	later := day.AddDate(0, 0, 6)
	if got := r.CurrentStreak(rec, later); got != 0 {
		t.Fatalf("lapsed streak shows %d", got)
	}
	rec, _, _ = r.CheckIn(rec, later)
	if rec.Current != 1 || rec.Longest != 4 || rec.TotalDays != 5 {
		t.Fatalf("after lapse %+v", rec)
	}
}

func TestDaysFollowConfiguredTimezone(t *testing.T) {
	tokyo := mustLoc(t, "Asia/Tokyo")
	r := Rules{Location: tokyo, Points: 1}
	// 15:30 UTC on Mar 10 is 00:30 on Mar 11 in Tokyo
	first := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	rec, _, _ := r.CheckIn(Record{}, first)
	if rec.LastDay != (Day{2026, time.March, 11}) {
		t.Fatalf("last day %v", rec.LastDay)
	}
	// 10:00 UTC on Mar 11 is still Mar 11 in Tokyo
	if _, _, err := r.CheckIn(rec, time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("err %v want already checked in", err)
	}
}

func TestDSTDoesNotSkipOrDoubleCount(t *testing.T) {
	ams := mustLoc(t, "Europe/Amsterdam")
	r := Rules{Location: ams, Points: 1}
	// clocks go forward on 2026-03-29; that day has 23 hours
	sat := time.Date(2026, 3, 28, 23, 30, 0, 0, ams)
	rec, _, _ := r.CheckIn(Record{}, sat)
	sun := time.Date(2026, 3, 29, 23, 30, 0, 0, ams)
	rec, _, err := r.CheckIn(rec, sun)
	if err != nil || rec.Current != 2 {
		t.Fatalf("spring forward: %+v %v", rec, err)
	}
	// clocks go back on 2026-10-25; that day has 25 hours
	a := time.Date(2026, 10, 25, 0, 10, 0, 0, ams)
	rec, _, _ = r.CheckIn(Record{}, a)
	if _, _, err := r.CheckIn(rec, a.Add(24*time.Hour)); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("fall back: 24h later is still the same day, err %v", err)
	}
}

func TestDayRoundTrip(t *testing.T) {
	d := Day{2026, time.February, 28}
	p, err := ParseDay(d.String())
	if err != nil || p != d {
		t.Fatalf("round trip %v %v", p, err)
	}
	if z, err := ParseDay(""); err != nil || !z.IsZero() {
		t.Fatalf("empty day %v %v", z, err)
	}
	if (Day{2026, time.March, 1}).Since(d) != 1 {
		t.Fatalf("day arithmetic across month end")
	}
}

func TestStatusTextRoundTrip(t *testing.T) {
	for _, st := range []Status{NoHistory, CheckedInToday, Pending, Lapsed} {
		b, err := json.Marshal(struct {
			S Status `json:"s"`
		}{st})
		if err != nil {
			t.Fatal(err)
		}
		var back struct {
			S Status `json:"s"`
		}
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("%s: %v", b, err)
		}
		if back.S != st {
			t.Errorf("%s decoded as %s", st, back.S)
		}
	}
	var s Status
	if err := s.UnmarshalText([]byte("sleeping")); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
