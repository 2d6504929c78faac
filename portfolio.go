package stocks

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/etnz/stocks/chart"
	"github.com/etnz/stocks/date"
	"github.com/google/uuid"
)

// Kind tags the mutations a portfolio accepts after construction.
type Kind int

const (
	// KindInflexible portfolios are fixed once built.
	KindInflexible Kind = iota
	// KindFlexible portfolios accept new transactions.
	KindFlexible
	// KindStrategic portfolios are flexible and host investment strategies.
	KindStrategic
)

func (k Kind) String() string {
	switch k {
	case KindInflexible:
		return "inflexible"
	case KindFlexible:
		return "flexible"
	case KindStrategic:
		return "strategic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the name of a portfolio kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindInflexible, KindFlexible, KindStrategic} {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown portfolio kind %q, expecting one of inflexible, flexible or strategic", s)
}

// PriceFeed resolves a ticker to its price series.
type PriceFeed interface {
	SeriesForTicker(ticker string) (*PriceSeries, error)
}

// Portfolio is the read side common to every kind of portfolio.
type Portfolio interface {
	ID() uuid.UUID
	Name() string
	Created() time.Time
	Kind() Kind
	Tickers() []string
	Position(ticker string) (*Position, bool)
	ValueByDate(on date.Date) Money
	CostBasis(on date.Date) Money
	Composition(on date.Date) []CompositionRow
	Performance(from, to date.Date) (chart.Plot, error)
	Sampler() chart.Sampler
}

// holdings is the state shared by every kind of portfolio.
//
// mu serializes mutations so that the quantity check of a position never races
// with a concurrent append.
type holdings struct {
	mu        sync.RWMutex
	id        uuid.UUID
	name      string
	created   time.Time
	feed      PriceFeed
	order     []string // tickers in insertion order
	positions map[string]*Position
}

// newHoldings validates and merges positions. Positions sharing a ticker are
// merged by concatenating their ledgers.
func newHoldings(name string, feed PriceFeed, positions []*Position) (*holdings, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: portfolio name is required", ErrInvalidMutation)
	}
	if feed == nil {
		return nil, fmt.Errorf("%w: portfolio %q has no price feed", ErrInvalidMutation, name)
	}
	h := &holdings{
		id:        uuid.New(),
		name:      name,
		created:   time.Now().UTC().Truncate(time.Second),
		feed:      feed,
		positions: make(map[string]*Position),
	}
	for _, p := range positions {
		if p == nil {
			continue
		}
		existing, ok := h.positions[p.Ticker()]
		if !ok {
			h.order = append(h.order, p.Ticker())
			h.positions[p.Ticker()] = p.clone()
			continue
		}
		merged, err := NewPosition(existing.series, append(slices.Clone(existing.transactions), p.transactions...)...)
		if err != nil {
			return nil, fmt.Errorf("cannot merge %s positions of %q: %w", p.Ticker(), name, err)
		}
		h.positions[p.Ticker()] = merged
	}
	return h, nil
}

func (h *holdings) ID() uuid.UUID      { return h.id }
func (h *holdings) Name() string       { return h.name }
func (h *holdings) Created() time.Time { return h.created }

// Tickers returns the held tickers in insertion order.
func (h *holdings) Tickers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.order)
}

// Position returns a copy of the position on ticker.
func (h *holdings) Position(ticker string) (*Position, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.positions[ticker]
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

// ValueByDate returns the market value of all positions on 'on'.
func (h *holdings) ValueByDate(on date.Date) Money {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var total Money
	for _, ticker := range h.order {
		total = total.Add(h.positions[ticker].ValueOnDate(on))
	}
	return total
}

// CostBasis returns the capital committed on or before 'on'.
func (h *holdings) CostBasis(on date.Date) Money {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var total Money
	for _, ticker := range h.order {
		total = total.Add(h.positions[ticker].CostBasis(on))
	}
	return total
}

// Composition returns one row per position held on 'on', in insertion order.
func (h *holdings) Composition(on date.Date) []CompositionRow {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var rows []CompositionRow
	for _, ticker := range h.order {
		if row, ok := h.positions[ticker].CompositionRow(on); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// Sampler returns ValueByDate as a chart sampler.
func (h *holdings) Sampler() chart.Sampler {
	return func(on date.Date) float64 { return h.ValueByDate(on).Float64() }
}

// Performance charts the value of the portfolio from 'from' to 'to'.
func (h *holdings) Performance(from, to date.Date) (chart.Plot, error) {
	return chart.Build(h.Sampler(), from, to)
}

// FirstTransactionDate returns the date of the earliest transaction, if any.
func (h *holdings) FirstTransactionDate() (date.Date, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var first date.Date
	found := false
	for _, p := range h.positions {
		if on, ok := p.FirstTransactionDate(); ok && (!found || on.Before(first)) {
			first, found = on, true
		}
	}
	return first, found
}

// restore overrides the identity of freshly decoded holdings.
func (h *holdings) restore(id uuid.UUID, created time.Time) {
	h.id, h.created = id, created
}

// series resolves the series of ticker, from the held positions first.
// Callers must hold mu.
func (h *holdings) series(ticker string) (*PriceSeries, error) {
	if p, ok := h.positions[ticker]; ok {
		return p.series, nil
	}
	s, err := h.feed.SeriesForTicker(ticker)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %q: %w", ticker, err)
	}
	return s, nil
}

// addPosition creates an empty position on ticker if it is absent.
// Callers must hold mu.
func (h *holdings) addPosition(ticker string) error {
	if _, ok := h.positions[ticker]; ok {
		return nil
	}
	s, err := h.series(ticker)
	if err != nil {
		return err
	}
	h.order = append(h.order, ticker)
	h.positions[ticker] = &Position{series: s}
	return nil
}

// staging collects copies of positions under change, to be committed at once.
type staging struct {
	h       *holdings
	order   []string
	changed map[string]*Position
}

func (h *holdings) stage() *staging {
	return &staging{h: h, changed: make(map[string]*Position)}
}

// position returns the staged copy of the position on ticker.
func (s *staging) position(ticker string) (*Position, error) {
	if p, ok := s.changed[ticker]; ok {
		return p, nil
	}
	var p *Position
	if held, ok := s.h.positions[ticker]; ok {
		p = held.clone()
	} else {
		series, err := s.h.series(ticker)
		if err != nil {
			return nil, err
		}
		p = &Position{series: series}
	}
	s.order = append(s.order, ticker)
	s.changed[ticker] = p
	return p, nil
}

// commit replaces the positions with their staged copies.
func (s *staging) commit() {
	for _, ticker := range s.order {
		if _, ok := s.h.positions[ticker]; !ok {
			s.h.order = append(s.h.order, ticker)
		}
		s.h.positions[ticker] = s.changed[ticker]
	}
}

// Inflexible is a portfolio fixed at construction.
type Inflexible struct{ *holdings }

// NewInflexible returns a portfolio holding positions. Positions on the same
// ticker are merged.
func NewInflexible(name string, feed PriceFeed, positions ...*Position) (*Inflexible, error) {
	h, err := newHoldings(name, feed, positions)
	if err != nil {
		return nil, err
	}
	return &Inflexible{h}, nil
}

func (*Inflexible) Kind() Kind { return KindInflexible }

// Flexible is a portfolio accepting new transactions.
type Flexible struct{ *holdings }

// NewFlexible returns a flexible portfolio holding positions. Positions on the
// same ticker are merged.
func NewFlexible(name string, feed PriceFeed, positions ...*Position) (*Flexible, error) {
	h, err := newHoldings(name, feed, positions)
	if err != nil {
		return nil, err
	}
	return &Flexible{h}, nil
}

func (*Flexible) Kind() Kind { return KindFlexible }

// AddPosition creates an empty position on ticker. It does nothing if the
// position exists.
func (p *Flexible) AddPosition(ticker string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addPosition(ticker)
}

// Modify adds tx to the position on ticker, creating the position if needed.
// The portfolio is unchanged if the transaction is rejected.
func (p *Flexible) Modify(ticker string, tx Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.stage()
	pos, err := st.position(ticker)
	if err != nil {
		return err
	}
	if err := pos.AddTransaction(tx); err != nil {
		return fmt.Errorf("cannot modify %s in %q: %w", ticker, p.name, err)
	}
	st.commit()
	return nil
}

// Trade records a manual buy (positive quantity) or sell (negative quantity)
// of ticker at the close of 'on'. The day must be quoted.
func (p *Flexible) Trade(ticker string, on date.Date, quantity Quantity, commission Money) (Transaction, error) {
	p.mu.RLock()
	series, err := p.series(ticker)
	p.mu.RUnlock()
	if err != nil {
		return Transaction{}, err
	}
	tx, err := NewTradeTransaction(series, on, quantity, commission, SourceManual)
	if err != nil {
		return Transaction{}, err
	}
	return tx, p.Modify(ticker, tx)
}

// Strategic is a flexible portfolio hosting investment strategies.
type Strategic struct {
	Flexible
	strategies []*DollarCostAveraging
}

// NewStrategic returns a strategic portfolio holding positions, without any
// strategy yet.
func NewStrategic(name string, feed PriceFeed, positions ...*Position) (*Strategic, error) {
	h, err := newHoldings(name, feed, positions)
	if err != nil {
		return nil, err
	}
	return &Strategic{Flexible: Flexible{h}}, nil
}

func (*Strategic) Kind() Kind { return KindStrategic }

// Strategies returns the hosted strategies in the order they were added.
func (p *Strategic) Strategies() []*DollarCostAveraging {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.strategies)
}

// Strategy returns the strategy named name.
func (p *Strategic) Strategy(name string) (*DollarCostAveraging, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i := slices.IndexFunc(p.strategies, func(s *DollarCostAveraging) bool { return s.name == name })
	if i < 0 {
		return nil, false
	}
	return p.strategies[i], true
}

// AddStrategy registers s and materializes its occurrences scheduled through
// 'today'. Strategy names are unique within a portfolio. Nothing changes if
// the execution fails.
func (p *Strategic) AddStrategy(s *DollarCostAveraging, today date.Date) error {
	if s == nil {
		return fmt.Errorf("%w: nil strategy", ErrInvalidMutation)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if slices.ContainsFunc(p.strategies, func(o *DollarCostAveraging) bool { return o.name == s.name }) {
		return fmt.Errorf("%w: strategy %q already exists in %q", ErrInvalidMutation, s.name, p.name)
	}
	if err := p.execute(today, s); err != nil {
		return err
	}
	p.strategies = append(p.strategies, s)
	return nil
}

// ExecuteStrategies materializes every occurrence scheduled through 'today'
// that is not yet in the ledgers. Running it again is a no-op.
func (p *Strategic) ExecuteStrategies(today date.Date) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.execute(today, p.strategies...)
}

// execute applies strategies all or nothing. Callers must hold mu.
func (p *Strategic) execute(today date.Date, strategies ...*DollarCostAveraging) error {
	st := p.stage()
	for _, s := range strategies {
		if err := s.apply(st, today); err != nil {
			return fmt.Errorf("cannot execute strategy %q in %q: %w", s.name, p.name, err)
		}
	}
	st.commit()
	return nil
}
