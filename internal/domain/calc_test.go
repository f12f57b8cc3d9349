package domain

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDateRangeOverlaps(t *testing.T) {
	base := DateRange{CheckIn: day("2026-11-10"), CheckOut: day("2026-11-13")}
	cases := []struct {
		name string
		q    DateRange
		want bool
	}{
		{"same stay", base, true},
		{"inside", DateRange{day("2026-11-11"), day("2026-11-12")}, true},
		{"starts on check-out", DateRange{day("2026-11-13"), day("2026-11-15")}, false},
		{"ends on check-in", DateRange{day("2026-11-08"), day("2026-11-10")}, false},
		{"spans", DateRange{day("2026-11-01"), day("2026-11-30")}, true},
		{"tail overlap", DateRange{day("2026-11-12"), day("2026-11-14")}, true},
	}
	for _, tc := range cases {
		if got := base.Overlaps(tc.q); got != tc.want {
			t.Fatalf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
		if got := tc.q.Overlaps(base); got != tc.want {
			t.Fatalf("%s: overlap is not symmetric", tc.name)
		}
	}
}

func TestNightsAndTotals(t *testing.T) {
	r := DateRange{CheckIn: day("2026-12-30"), CheckOut: day("2027-01-02")}
	if n := r.Nights(); n != 3 {
		t.Fatalf("Nights = %d, want 3", n)
	}
	if got := HotelTotal(125000, 3, 2); got != 750000 {
		t.Fatalf("HotelTotal = %d", got)
	}
	if got := FlightTotal(89900, 3); got != 269700 {
		t.Fatalf("FlightTotal = %d", got)
	}
	if got := MaxGuests(2, 3); got != 6 {
		t.Fatalf("MaxGuests = %d", got)
	}
}
