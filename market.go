package stocks

import (
	"fmt"
	"slices"
	"sync"
)

// Market holds the price series of a set of stocks. It implements PriceFeed.
type Market struct {
	mu     sync.RWMutex
	series []*PriceSeries
	index  map[string]*PriceSeries
}

// NewMarket returns a new empty market.
func NewMarket() *Market {
	return &Market{index: make(map[string]*PriceSeries)}
}

// Add registers series. A ticker can only be added once.
func (m *Market) Add(series *PriceSeries) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.index[series.Ticker()]; ok {
		return fmt.Errorf("ticker %q is already defined", series.Ticker())
	}
	m.series = append(m.series, series)
	m.index[series.Ticker()] = series
	return nil
}

func (m *Market) Has(ticker string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.index[ticker]
	return ok
}

// SeriesForTicker returns the price series of ticker.
func (m *Market) SeriesForTicker(ticker string) (*PriceSeries, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.index[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTicker, ticker)
	}
	return s, nil
}

// Tickers returns all tickers sorted alphabetically.
func (m *Market) Tickers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tickers := make([]string, 0, len(m.series))
	for _, s := range m.series {
		tickers = append(tickers, s.Ticker())
	}
	slices.Sort(tickers)
	return tickers
}
