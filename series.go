package stocks

import (
	"iter"

	"github.com/etnz/stocks/date"
)

// PriceSeries holds the identity of a listed stock and its daily close prices.
//
// Quotes only exist for trading days. A series is filled once by its loader
// and then shared read-only by every Position holding that ticker.
type PriceSeries struct {
	ticker   string
	name     string
	exchange string
	ipo      date.Date
	closes   date.History[float64]
}

// NewPriceSeries returns an empty series for a stock.
func NewPriceSeries(ticker, name, exchange string, ipo date.Date) *PriceSeries {
	return &PriceSeries{ticker: ticker, name: name, exchange: exchange, ipo: ipo}
}

func (s *PriceSeries) Ticker() string   { return s.ticker }
func (s *PriceSeries) Name() string     { return s.name }
func (s *PriceSeries) Exchange() string { return s.exchange }
func (s *PriceSeries) IPO() date.Date   { return s.ipo }
func (s *PriceSeries) Len() int         { return s.closes.Len() }
func (s *PriceSeries) FirstDate() date.Date {
	on, _ := s.closes.First()
	return on
}
func (s *PriceSeries) LastDate() date.Date {
	on, _ := s.closes.Latest()
	return on
}

// Append records the close price of a trading day. It is meant for loaders only.
func (s *PriceSeries) Append(on date.Date, close float64) *PriceSeries {
	s.closes.Append(on, close)
	return s
}

// Quotes iterates over all (day, close) pairs in chronological order.
func (s *PriceSeries) Quotes() iter.Seq2[date.Date, float64] { return s.closes.Values() }

// ExactPriceExists reports whether a quote exists for that literal date.
func (s *PriceSeries) ExactPriceExists(on date.Date) bool {
	_, ok := s.closes.Get(on)
	return ok
}

// Close returns the close price quoted on that exact date.
func (s *PriceSeries) Close(on date.Date) (Money, bool) {
	v, ok := s.closes.Get(on)
	return M(v), ok
}

// PriceOnOrBefore returns the close of 'on' or, on non trading days, the
// latest prior close. It returns false before the first quote.
func (s *PriceSeries) PriceOnOrBefore(on date.Date) (Money, bool) {
	v, ok := s.closes.ValueAsOf(on)
	if !ok {
		return Money{}, false
	}
	return M(v), true
}

// NextTradingDay returns the first quoted day on or after 'on', and its close.
func (s *PriceSeries) NextTradingDay(on date.Date) (date.Date, Money, bool) {
	day, v, ok := s.closes.NextOnOrAfter(on)
	if !ok {
		return date.Date{}, Money{}, false
	}
	return day, M(v), true
}
