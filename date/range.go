package date

import "iter"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Len returns the number of calendar days in the range.
func (r Range) Len() int { return r.From.DaysUntil(r.To) + 1 }

// Days returns an iterator that yields each date within the range, inclusive.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// BusinessDays counts the weekdays within the range.
func (r Range) BusinessDays() int {
	n := 0
	for d := range r.Days() {
		if !d.IsWeekend() {
			n++
		}
	}
	return n
}

// Ends returns an iterator over the end of every period p strictly inside the range.
//
// The range boundaries themselves are never yielded.
func (r Range) Ends(p Period) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for end := r.From.EndOf(p); end.Before(r.To); end = end.Add(1).EndOf(p) {
			if end == r.From {
				continue
			}
			if !yield(end) {
				return
			}
		}
	}
}
