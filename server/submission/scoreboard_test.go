package submission

import (
	"database/sql"
	"testing"
	"time"
)

func TestRankStandingsOrdersByScoreThenSubmit(t *testing.T) {
	t1 := time.Date(2022, 4, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	standings := []Standing{
		{Team: "bravo", Score: 100, submit: t2},
		{Team: "charlie", Score: 50, submit: t1},
		{Team: "alpha", Score: 100, submit: t1},
	}
	rankStandings(standings)

	want := []struct {
		team string
		rank int
	}{
		{"alpha", 1}, // same score as bravo, reached it earlier
		{"bravo", 2},
		{"charlie", 3},
	}
	for i, w := range want {
		if standings[i].Team != w.team || standings[i].Rank != w.rank {
			t.Errorf("position %d: got %s rank %d, want %s rank %d",
				i, standings[i].Team, standings[i].Rank, w.team, w.rank)
		}
	}
}

func TestWindowClosed(t *testing.T) {
	start := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	stop := start.Add(48 * time.Hour)
	valid := func(ts time.Time) sql.NullTime { return sql.NullTime{Time: ts, Valid: true} }

	cases := []struct {
		name        string
		now         time.Time
		start, stop sql.NullTime
		closed      bool
	}{
		{"before start", start.Add(-time.Minute), valid(start), valid(stop), true},
		{"during", start.Add(time.Hour), valid(start), valid(stop), false},
		{"after stop", stop.Add(time.Minute), valid(start), valid(stop), true},
		{"no bounds configured", start, sql.NullTime{}, sql.NullTime{}, false},
		{"only stop, not yet reached", start, sql.NullTime{}, valid(stop), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := WindowClosed(tc.now, tc.start, tc.stop); got != tc.closed {
				t.Errorf("WindowClosed = %v, want %v", got, tc.closed)
			}
		})
	}
}

func TestBeforeStart(t *testing.T) {
	start := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	st := sql.NullTime{Time: start, Valid: true}
	if !BeforeStart(start.Add(-time.Second), st) {
		t.Error("expected before start")
	}
	if BeforeStart(start, st) {
		t.Error("start instant should count as started")
	}
	if BeforeStart(start, sql.NullTime{}) {
		t.Error("unset start should always count as started")
	}
}

func TestSplitTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"web, crypto", []string{"web", "crypto"}},
		{"pwn", []string{"pwn"}},
		{"", []string{}},
		{" , ", []string{}},
	}
	for _, tc := range cases {
		got := splitTags(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("splitTags(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitTags(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}
