// Package chart turns a value-by-date function into a text chart: a short
// list of sampled dates, each drawn as a proportional number of stars.
//
// The number of samples adapts to the length of the range, so that short and
// long ranges both fit on a screen:
//
//   - up to ~2 months, one sample per business day (or per week when that
//     would exceed 30 samples),
//   - up to 30 months, one sample per month end,
//   - beyond, one sample per year end.
//
// The first sample is always the start date and the last one always the end
// date, even when they do not fall on the cadence.
package chart

import (
	"errors"
	"fmt"

	"github.com/etnz/stocks/date"
)

// Granularity is the size of the buckets of a Plot.
type Granularity int

const (
	Daily Granularity = iota
	Monthly
	Yearly
)

func (g Granularity) String() string {
	switch g {
	case Daily:
		return "DAILY"
	case Monthly:
		return "MONTHLY"
	case Yearly:
		return "YEARLY"
	default:
		return fmt.Sprintf("Granularity(%d)", int(g))
	}
}

// labelFormat returns the time layout of bucket labels.
func (g Granularity) labelFormat() string {
	if g == Daily {
		return "02 Jan 2006"
	}
	return "Jan 2006"
}

// DefaultMaxStars is the length of the longest bar.
const DefaultMaxStars = 50

// Sampler returns the value to plot for a day.
type Sampler func(date.Date) float64

// Bucket is one sampled point of a Plot.
type Bucket struct {
	Label string
	Date  date.Date
	Value float64
	Stars int
}

// Plot is a chronologically ordered, scaled series of buckets.
type Plot struct {
	Granularity Granularity
	Buckets     []Bucket
	Start       float64 // value represented by the first star
	Scale       float64 // value of each additional star
}

// Values returns the sampled values in order.
func (p Plot) Values() []float64 {
	values := make([]float64, len(p.Buckets))
	for i, b := range p.Buckets {
		values[i] = b.Value
	}
	return values
}

// ErrInvertedRange is returned when the end date precedes the start date.
var ErrInvertedRange = errors.New("end date before start date")

// Builder builds Plots. Its zero value uses DefaultMaxStars.
type Builder struct {
	MaxStars int
}

// Build samples 'sample' from 'from' to 'to' (inclusive) with the default Builder.
func Build(sample Sampler, from, to date.Date) (Plot, error) {
	return Builder{}.Build(sample, from, to)
}

// Build samples 'sample' from 'from' to 'to' (inclusive) and scales the result.
func (b Builder) Build(sample Sampler, from, to date.Date) (Plot, error) {
	if to.Before(from) {
		return Plot{}, fmt.Errorf("cannot plot from %s to %s: %w", from, to, ErrInvertedRange)
	}
	maxStars := b.MaxStars
	if maxStars <= 0 {
		maxStars = DefaultMaxStars
	}

	g, days := buckets(from, to)
	plot := Plot{Granularity: g, Buckets: make([]Bucket, len(days))}
	for i, on := range days {
		plot.Buckets[i] = Bucket{
			Label: on.Format(g.labelFormat()),
			Date:  on,
			Value: sample(on),
		}
	}

	sc := newScale(plot.Values(), maxStars)
	plot.Start, plot.Scale = sc.start, sc.step
	for i := range plot.Buckets {
		plot.Buckets[i].Stars = sc.stars(plot.Buckets[i].Value)
	}
	return plot, nil
}
