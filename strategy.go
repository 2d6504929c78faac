package stocks

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/stocks/date"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// weightTolerance is the accepted distance of the weights sum to 100.
var weightTolerance = decimal.RequireFromString("0.02")

// Weight is the share of each investment going to one ticker.
type Weight struct {
	Ticker  string
	Percent decimal.Decimal
}

// DollarCostAveraging invests a fixed amount every 'frequency' days, split
// across tickers by weight, from its start date through its end date (or
// through the day of execution when the end is open).
type DollarCostAveraging struct {
	name       string
	amount     Money
	commission Money // charged on every purchase
	start      date.Date
	end        date.Date // zero when open ended
	frequency  int       // days between investments
	weights    []Weight  // sorted by ticker
}

// NewDollarCostAveraging returns a validated strategy. weights maps tickers
// to a percentage; they must be positive and sum to 100.
func NewDollarCostAveraging(name string, amount, commission Money, start, end date.Date, frequency int, weights map[string]float64) (*DollarCostAveraging, error) {
	s := &DollarCostAveraging{
		name:       strings.TrimSpace(name),
		amount:     amount,
		commission: commission,
		start:      start,
		end:        end,
		frequency:  frequency,
	}
	for _, ticker := range slices.Sorted(maps.Keys(weights)) {
		s.weights = append(s.weights, Weight{Ticker: ticker, Percent: decimal.NewFromFloat(weights[ticker])})
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DollarCostAveraging) validate() error {
	if s.name == "" {
		return fmt.Errorf("%w: strategy name is required", ErrInvalidMutation)
	}
	if !s.amount.IsPositive() {
		return fmt.Errorf("%w: strategy %q amount must be positive, got %s", ErrInvalidMutation, s.name, s.amount)
	}
	if s.commission.IsNegative() {
		return fmt.Errorf("%w: strategy %q commission must not be negative, got %s", ErrInvalidMutation, s.name, s.commission)
	}
	if s.start.IsZero() {
		return fmt.Errorf("%w: strategy %q has no start date", ErrInvalidMutation, s.name)
	}
	if !s.end.IsZero() && s.end.Before(s.start) {
		return fmt.Errorf("%w: strategy %q ends on %s before it starts on %s", ErrInvalidMutation, s.name, s.end, s.start)
	}
	if s.frequency < 1 {
		return fmt.Errorf("%w: strategy %q frequency must be at least one day, got %d", ErrInvalidMutation, s.name, s.frequency)
	}
	if len(s.weights) == 0 {
		return fmt.Errorf("%w: strategy %q has no ticker", ErrInvalidMutation, s.name)
	}
	var sum decimal.Decimal
	for _, w := range s.weights {
		if w.Ticker == "" || !w.Percent.IsPositive() {
			return fmt.Errorf("%w: strategy %q weight %s=%s is invalid", ErrInvalidMutation, s.name, w.Ticker, w.Percent)
		}
		sum = sum.Add(w.Percent)
	}
	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(weightTolerance) {
		return fmt.Errorf("%w: strategy %q weights sum to %s, want 100", ErrInvalidMutation, s.name, sum)
	}
	return nil
}

func (s *DollarCostAveraging) Name() string      { return s.name }
func (s *DollarCostAveraging) Amount() Money     { return s.amount }
func (s *DollarCostAveraging) Commission() Money { return s.commission }
func (s *DollarCostAveraging) Start() date.Date  { return s.start }
func (s *DollarCostAveraging) End() date.Date    { return s.end }
func (s *DollarCostAveraging) Frequency() int    { return s.frequency }
func (s *DollarCostAveraging) Weights() []Weight { return slices.Clone(s.weights) }
func (s *DollarCostAveraging) IsOpenEnded() bool { return s.end.IsZero() }

// Schedule returns the investment dates: start, start+frequency, ... through
// the end date, or through 'today' when the strategy is open ended.
func (s *DollarCostAveraging) Schedule(today date.Date) ([]date.Date, error) {
	if !s.end.IsZero() && s.end.Before(s.start) {
		return nil, fmt.Errorf("%w: strategy %q ends on %s before it starts on %s", ErrInvalidMutation, s.name, s.end, s.start)
	}
	last := s.end
	if last.IsZero() {
		last = today
	}
	var days []date.Date
	for on := s.start; !on.After(last); on = on.Add(s.frequency) {
		days = append(days, on)
	}
	return days, nil
}

// StrategyTrade is one purchase derived from a strategy.
type StrategyTrade struct {
	Ticker      string
	Transaction Transaction
}

// Trades returns the purchases scheduled through 'today'.
//
// A scheduled date that is not quoted rolls forward to the next quoted day of
// that ticker. Dates without any quote on or after them are skipped until the
// feed catches up.
func (s *DollarCostAveraging) Trades(feed PriceFeed, today date.Date) ([]StrategyTrade, error) {
	days, err := s.Schedule(today)
	if err != nil {
		return nil, err
	}
	series := make([]*PriceSeries, len(s.weights))
	for i, w := range s.weights {
		if series[i], err = feed.SeriesForTicker(w.Ticker); err != nil {
			return nil, fmt.Errorf("strategy %q cannot resolve %q: %w", s.name, w.Ticker, err)
		}
	}

	var trades []StrategyTrade
	for _, scheduled := range days {
		for i, w := range s.weights {
			on, price, ok := series[i].NextTradingDay(scheduled)
			if !ok {
				log.Debug().Str("strategy", s.name).Str("ticker", w.Ticker).Stringer("scheduled", scheduled).Msg("no quote yet, skipping")
				continue
			}
			if on != scheduled {
				log.Debug().Str("strategy", s.name).Str("ticker", w.Ticker).Stringer("scheduled", scheduled).Stringer("on", on).Msg("rolled forward to next trading day")
			}
			qty := s.amount.Percent(w.Percent).DivPrice(price)
			tag := StrategyTag{Strategy: s.name, Scheduled: scheduled}
			trades = append(trades, StrategyTrade{
				Ticker:      w.Ticker,
				Transaction: newStrategyTransaction(on, qty, price, s.commission, series[i].Exchange(), tag),
			})
		}
	}
	return trades, nil
}

// apply upserts the trades into the staged positions: an occurrence already
// in a ledger is left as is.
func (s *DollarCostAveraging) apply(st *staging, today date.Date) error {
	trades, err := s.Trades(st.h.feed, today)
	if err != nil {
		return err
	}
	added := 0
	for _, t := range trades {
		pos, err := st.position(t.Ticker)
		if err != nil {
			return err
		}
		if pos.hasTag(t.Transaction.tag) {
			continue
		}
		if err := pos.AddTransaction(t.Transaction); err != nil {
			return err
		}
		added++
	}
	log.Info().Str("strategy", s.name).Int("scheduled", len(trades)).Int("added", added).Msg("strategy executed")
	return nil
}
