package chart

import (
	"github.com/etnz/stocks/date"
)

const (
	maxDailySpan   = 62 // calendar days plotted day by day
	maxMonthlySpan = 30 // months plotted month by month
	maxDailyPoints = 30 // above, daily buckets use weeklyStep
	weeklyStep     = 7
)

// buckets picks the granularity for [from, to] and returns the sampled dates.
func buckets(from, to date.Date) (Granularity, []date.Date) {
	r := date.NewRange(from, to)
	switch {
	case r.Len() <= maxDailySpan:
		return Daily, dailyBuckets(r)
	case !to.After(from.AddMonth(maxMonthlySpan)):
		return Monthly, periodBuckets(r, date.Monthly)
	default:
		return Yearly, periodBuckets(r, date.Yearly)
	}
}

// dailyBuckets samples every business day, or every week for longer ranges.
func dailyBuckets(r date.Range) []date.Date {
	days := []date.Date{r.From}
	if r.BusinessDays() <= maxDailyPoints {
		for on := range r.Days() {
			if on != r.From && on != r.To && !on.IsWeekend() {
				days = append(days, on)
			}
		}
	} else {
		for on := r.From.Add(weeklyStep); on.Before(r.To); on = on.Add(weeklyStep) {
			days = append(days, on)
		}
	}
	if r.To != r.From {
		days = append(days, r.To)
	}
	return days
}

// periodBuckets samples the end of every period p inside the range.
func periodBuckets(r date.Range, p date.Period) []date.Date {
	days := []date.Date{r.From}
	for end := range r.Ends(p) {
		days = append(days, end)
	}
	return append(days, r.To)
}
