package stocks

import (
	"time"

	"github.com/etnz/stocks/date"
	"github.com/google/go-cmp/cmp"
)

// cmpOpts compares values holding dates, Money and Quantity.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// goog returns a GOOG series quoted on a few days only.
func goog() *PriceSeries {
	return NewPriceSeries("GOOG", "Alphabet Inc.", "NASDAQ", date.New(2004, time.August, 19)).
		Append(date.New(2020, time.January, 10), 100).
		Append(date.New(2022, time.October, 27), 92.6).
		Append(date.New(2022, time.October, 28), 96.58)
}

// weekdays returns a series quoted at a constant price every weekday from
// 'from' to 'to'.
func weekdays(ticker string, from, to date.Date, price float64) *PriceSeries {
	s := NewPriceSeries(ticker, ticker+" Corp.", "NYSE", from)
	for on := range date.NewRange(from, to).Days() {
		if !on.IsWeekend() {
			s.Append(on, price)
		}
	}
	return s
}

// newTestMarket returns a market holding series.
func newTestMarket(series ...*PriceSeries) *Market {
	m := NewMarket()
	for _, s := range series {
		if err := m.Add(s); err != nil {
			panic(err)
		}
	}
	return m
}
