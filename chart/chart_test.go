package chart

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/stocks/date"
)

// linear returns a sampler growing by one unit per calendar day since origin.
func linear(origin date.Date) Sampler {
	return func(on date.Date) float64 { return float64(origin.DaysUntil(on) + 1) }
}

func TestBuild_Daily(t *testing.T) {
	// Wednesday to Monday, 20 calendar days, 14 business days.
	from, to := date.New(2022, time.October, 5), date.New(2022, time.October, 24)
	plot, err := Build(linear(from), from, to)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if plot.Granularity != Daily {
		t.Errorf("Granularity = %v, want DAILY", plot.Granularity)
	}
	if got := len(plot.Buckets); got != 14 {
		t.Fatalf("len(Buckets) = %d, want 14", got)
	}
	for _, b := range plot.Buckets {
		if b.Date.IsWeekend() {
			t.Errorf("bucket %s falls on a weekend", b.Label)
		}
	}
	if first := plot.Buckets[0]; first.Date != from || first.Label != "05 Oct 2022" {
		t.Errorf("first bucket = %+v, want start date labelled 05 Oct 2022", first)
	}
	if last := plot.Buckets[len(plot.Buckets)-1]; last.Date != to || last.Value != 20 {
		t.Errorf("last bucket = %+v, want end date with value 20", last)
	}
}

func TestBuild_DailyKeepsWeekendBoundaries(t *testing.T) {
	from, to := date.New(2022, time.October, 29), date.New(2022, time.November, 6) // Saturday to Sunday
	plot, err := Build(linear(from), from, to)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if got := len(plot.Buckets); got != 7 {
		t.Fatalf("len(Buckets) = %d, want 7 (5 business days and both boundaries)", got)
	}
	if plot.Buckets[0].Date != from || plot.Buckets[6].Date != to {
		t.Errorf("boundaries = %v..%v, want %v..%v", plot.Buckets[0].Date, plot.Buckets[6].Date, from, to)
	}
}

func TestBuild_WeeklyStep(t *testing.T) {
	from, to := date.New(2022, time.January, 3), date.New(2022, time.February, 28)
	plot, err := Build(linear(from), from, to)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if plot.Granularity != Daily {
		t.Errorf("Granularity = %v, want DAILY", plot.Granularity)
	}
	n := len(plot.Buckets)
	if n < 8 || n > 30 {
		t.Errorf("len(Buckets) = %d, want within [8, 30]", n)
	}
	if got := plot.Buckets[1].Date; got != from.Add(7) {
		t.Errorf("second bucket = %v, want %v", got, from.Add(7))
	}
	if got := plot.Buckets[n-1].Date; got != to {
		t.Errorf("last bucket = %v, want %v", got, to)
	}
}

func TestBuild_Monthly(t *testing.T) {
	from, to := date.New(2021, time.January, 15), date.New(2021, time.December, 10)
	plot, err := Build(linear(from), from, to)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if plot.Granularity != Monthly {
		t.Errorf("Granularity = %v, want MONTHLY", plot.Granularity)
	}
	// start, 11 month ends from January to November, end.
	if got := len(plot.Buckets); got != 13 {
		t.Fatalf("len(Buckets) = %d, want 13", got)
	}
	if got := plot.Buckets[1].Date; got != date.New(2021, time.January, 31) {
		t.Errorf("second bucket = %v, want 2021-01-31", got)
	}
	if got := plot.Buckets[2].Label; got != "Feb 2021" {
		t.Errorf("third label = %q, want %q", got, "Feb 2021")
	}
}

func TestBuild_Yearly(t *testing.T) {
	from := date.New(2015, time.March, 2)
	to := from.Add(2700)
	plot, err := Build(linear(from), from, to)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if plot.Granularity != Yearly {
		t.Errorf("Granularity = %v, want YEARLY", plot.Granularity)
	}
	// start, Dec 31 of 2015..2021, end.
	if got := len(plot.Buckets); got != 9 {
		t.Fatalf("len(Buckets) = %d, want 9", got)
	}
	for i, b := range plot.Buckets[1 : len(plot.Buckets)-1] {
		if b.Date.Month() != time.December || b.Date.Day() != 31 {
			t.Errorf("bucket %d = %v, want a Dec 31 boundary", i+1, b.Date)
		}
	}
	last := plot.Buckets[len(plot.Buckets)-1]
	if last.Date != to || last.Value != 2701 {
		t.Errorf("last bucket = %+v, want the end date value 2701", last)
	}
}

func TestBuild_SingleDay(t *testing.T) {
	on := date.New(2022, time.October, 27)
	plot, err := Build(func(date.Date) float64 { return 926 }, on, on)
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if len(plot.Buckets) != 1 || plot.Buckets[0].Stars != 1 {
		t.Errorf("Build(single day) = %+v, want one bucket with one star", plot.Buckets)
	}
}

func TestBuild_InvertedRange(t *testing.T) {
	_, err := Build(func(date.Date) float64 { return 0 }, date.New(2022, 2, 1), date.New(2022, 1, 1))
	if !errors.Is(err, ErrInvertedRange) {
		t.Errorf("Build() error = %v, want ErrInvertedRange", err)
	}
}

func TestBuild_Scaling(t *testing.T) {
	from := date.New(2022, time.October, 3)
	values := map[date.Date]float64{}
	for i := range 5 {
		values[from.Add(i)] = []float64{0, 1000, 2000, 5900, 0.001}[i]
	}
	plot, err := Builder{MaxStars: 50}.Build(func(on date.Date) float64 { return values[on] }, from, from.Add(4))
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	if plot.Start != 1000 {
		t.Errorf("Start = %v, want 1000", plot.Start)
	}
	if plot.Scale != 100 { // 4900/49 = 100
		t.Errorf("Scale = %v, want 100", plot.Scale)
	}
	want := []int{0, 1, 11, 50, 0}
	for i, b := range plot.Buckets {
		if b.Stars != want[i] {
			t.Errorf("bucket %s stars = %d, want %d", b.Label, b.Stars, want[i])
		}
	}
}

func TestBuild_StarsNeverExceedCap(t *testing.T) {
	from := date.New(2010, time.January, 1)
	to := date.New(2022, time.June, 30)
	sample := func(on date.Date) float64 { return float64(from.DaysUntil(on)) * 37.3 }
	for _, maxStars := range []int{1, 10, 50} {
		plot, err := Builder{MaxStars: maxStars}.Build(sample, from, to)
		if err != nil {
			t.Fatalf("Build() unexpected error: %v", err)
		}
		last := plot.Buckets[len(plot.Buckets)-1]
		for _, b := range plot.Buckets {
			if b.Stars > maxStars {
				t.Errorf("cap %d: bucket %s has %d stars", maxStars, b.Label, b.Stars)
			}
			if b.Stars > last.Stars {
				t.Errorf("cap %d: bucket %s has more stars than the largest value", maxStars, b.Label)
			}
		}
	}
}

func TestNiceCeil(t *testing.T) {
	testCases := []struct{ in, want float64 }{
		{100, 100},
		{101, 200},
		{0.3, 0.5},
		{2.2, 2.5},
		{7, 10},
		{0, 1},
	}
	for _, tc := range testCases {
		if got := niceCeil(tc.in); got != tc.want {
			t.Errorf("niceCeil(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
