package engine

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tm.UTC()
}

func TestWithinWindowEmptyIsAlwaysOpen(t *testing.T) {
	if !withinWindow("", mustParse(t, "2026-07-30T03:00")) {
		t.Fatal("empty window should always be open")
	}
}

func TestWithinWindowTimeOnly(t *testing.T) {
	now := mustParse(t, "2026-07-30T10:00") // Thursday
	if !withinWindow("08:00-18:00", now) {
		t.Fatal("expected 10:00 to be within 08:00-18:00")
	}
	if withinWindow("08:00-09:00", now) {
		t.Fatal("expected 10:00 to be outside 08:00-09:00")
	}
}

func TestWithinWindowWrapsMidnight(t *testing.T) {
	late := mustParse(t, "2026-07-30T23:30")
	early := mustParse(t, "2026-07-31T02:00")
	mid := mustParse(t, "2026-07-30T12:00")
	if !withinWindow("22:00-04:00", late) {
		t.Fatal("expected 23:30 within wrapping window 22:00-04:00")
	}
	if !withinWindow("22:00-04:00", early) {
		t.Fatal("expected 02:00 within wrapping window 22:00-04:00")
	}
	if withinWindow("22:00-04:00", mid) {
		t.Fatal("expected 12:00 outside wrapping window 22:00-04:00")
	}
}

func TestWithinWindowDayRange(t *testing.T) {
	monday := mustParse(t, "2026-07-27T10:00")
	saturday := mustParse(t, "2026-08-01T10:00")
	if !withinWindow("00:00-23:59,Mon-Fri", monday) {
		t.Fatal("expected Monday within Mon-Fri")
	}
	if withinWindow("00:00-23:59,Mon-Fri", saturday) {
		t.Fatal("expected Saturday outside Mon-Fri")
	}
}

func TestWithinWindowDayRangeWraps(t *testing.T) {
	sunday := mustParse(t, "2026-08-02T10:00")
	wednesday := mustParse(t, "2026-07-29T10:00")
	if !withinWindow("00:00-23:59,Fri-Sun", sunday) {
		t.Fatal("expected Sunday within wrapping range Fri-Sun")
	}
	if withinWindow("00:00-23:59,Fri-Sun", wednesday) {
		t.Fatal("expected Wednesday outside wrapping range Fri-Sun")
	}
}

func TestWithinWindowDayList(t *testing.T) {
	monday := mustParse(t, "2026-07-27T10:00")
	tuesday := mustParse(t, "2026-07-28T10:00")
	if !withinWindow("00:00-23:59,Mon;Wed;Fri", monday) {
		t.Fatal("expected Monday to match list Mon;Wed;Fri")
	}
	if withinWindow("00:00-23:59,Mon;Wed;Fri", tuesday) {
		t.Fatal("expected Tuesday to not match list Mon;Wed;Fri")
	}
}

func TestWithinWindowMalformedIsClosed(t *testing.T) {
	now := mustParse(t, "2026-07-30T10:00")
	cases := []string{"garbage", "25:00-10:00", "08:00", "08:00-18:00,Blah"}
	for _, w := range cases {
		if withinWindow(w, now) {
			t.Errorf("expected malformed window %q to evaluate closed", w)
		}
	}
}
