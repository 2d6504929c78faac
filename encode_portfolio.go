package stocks

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/etnz/stocks/date"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// jposition is the persisted form of a Position.
type jposition struct {
	Ticker       string        `json:"ticker"`
	Transactions []Transaction `json:"transactions"`
}

// jstrategy is the persisted form of a DollarCostAveraging strategy.
type jstrategy struct {
	Name       string                     `json:"name"`
	Amount     Money                      `json:"amount"`
	Commission Money                      `json:"commission"`
	Start      date.Date                  `json:"start"`
	End        date.Date                  `json:"end"`
	Frequency  int                        `json:"frequency"`
	Weights    map[string]decimal.Decimal `json:"weights"`
}

// jportfolio is the persisted form of any kind of portfolio.
type jportfolio struct {
	ID         uuid.UUID              `json:"id"`
	Name       string                 `json:"name"`
	Created    time.Time              `json:"created"`
	Kind       string                 `json:"kind"`
	Positions  []jposition            `json:"positions"`
	Strategies []*DollarCostAveraging `json:"strategies,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for DollarCostAveraging.
func (s *DollarCostAveraging) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", s.name)
	w.Append("amount", s.amount)
	w.Append("commission", s.commission)
	w.Append("start", s.start)
	if !s.end.IsZero() {
		w.Append("end", s.end)
	}
	w.Append("frequency", s.frequency)
	weights := make(map[string]decimal.Decimal, len(s.weights))
	for _, wt := range s.weights {
		weights[wt.Ticker] = wt.Percent
	}
	w.Append("weights", weights)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for DollarCostAveraging.
// The decoded strategy is validated like a new one.
func (s *DollarCostAveraging) UnmarshalJSON(data []byte) error {
	var js jstrategy
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	d := DollarCostAveraging{
		name:       js.Name,
		amount:     js.Amount,
		commission: js.Commission,
		start:      js.Start,
		end:        js.End,
		frequency:  js.Frequency,
	}
	for _, ticker := range slices.Sorted(maps.Keys(js.Weights)) {
		d.weights = append(d.weights, Weight{Ticker: ticker, Percent: js.Weights[ticker]})
	}
	if err := d.validate(); err != nil {
		return err
	}
	*s = d
	return nil
}

// snapshot copies the persisted fields of h. Callers must hold mu.
func (h *holdings) snapshot(kind Kind) jportfolio {
	jp := jportfolio{
		ID:        h.id,
		Name:      h.name,
		Created:   h.created,
		Kind:      kind.String(),
		Positions: make([]jposition, 0, len(h.order)),
	}
	for _, ticker := range h.order {
		jp.Positions = append(jp.Positions, jposition{
			Ticker:       ticker,
			Transactions: slices.Clone(h.positions[ticker].transactions),
		})
	}
	return jp
}

// EncodePortfolio writes p as an indented json document.
func EncodePortfolio(w io.Writer, p Portfolio) error {
	var jp jportfolio
	switch v := p.(type) {
	case *Inflexible:
		v.mu.RLock()
		jp = v.snapshot(KindInflexible)
		v.mu.RUnlock()
	case *Flexible:
		v.mu.RLock()
		jp = v.snapshot(KindFlexible)
		v.mu.RUnlock()
	case *Strategic:
		v.mu.RLock()
		jp = v.snapshot(KindStrategic)
		jp.Strategies = slices.Clone(v.strategies)
		v.mu.RUnlock()
	default:
		return fmt.Errorf("cannot encode portfolio of type %T", p)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jp); err != nil {
		return fmt.Errorf("cannot encode portfolio %q: %w", jp.Name, err)
	}
	return nil
}

// DecodePortfolio reads a portfolio written by EncodePortfolio, resolving its
// tickers through feed. Strategies are restored but not executed.
func DecodePortfolio(r io.Reader, feed PriceFeed) (Portfolio, error) {
	var jp jportfolio
	if err := json.NewDecoder(r).Decode(&jp); err != nil {
		return nil, fmt.Errorf("cannot decode portfolio: %w", err)
	}
	kind, err := ParseKind(jp.Kind)
	if err != nil {
		return nil, fmt.Errorf("cannot decode portfolio %q: %w", jp.Name, err)
	}
	if feed == nil {
		return nil, fmt.Errorf("%w: portfolio %q has no price feed", ErrInvalidMutation, jp.Name)
	}

	positions := make([]*Position, 0, len(jp.Positions))
	for _, pos := range jp.Positions {
		series, err := feed.SeriesForTicker(pos.Ticker)
		if err != nil {
			return nil, fmt.Errorf("cannot decode portfolio %q: %w", jp.Name, err)
		}
		p, err := NewPosition(series, pos.Transactions...)
		if err != nil {
			return nil, fmt.Errorf("cannot decode portfolio %q: %w", jp.Name, err)
		}
		positions = append(positions, p)
	}

	h, err := newHoldings(jp.Name, feed, positions)
	if err != nil {
		return nil, err
	}
	h.restore(jp.ID, jp.Created)

	switch kind {
	case KindInflexible:
		return &Inflexible{h}, nil
	case KindFlexible:
		return &Flexible{h}, nil
	default:
		return &Strategic{Flexible: Flexible{h}, strategies: jp.Strategies}, nil
	}
}
