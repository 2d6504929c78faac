package stocks

import (
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/stocks/date"
)

// Position is the ledger of one ticker inside one portfolio.
//
// Transactions are kept in insertion order; every query filters them by date.
type Position struct {
	series       *PriceSeries
	transactions []Transaction
}

// CompositionRow describes a holding as of a date.
type CompositionRow struct {
	Ticker   string
	Name     string
	Quantity Quantity
	Price    Money     // price of the latest transaction on or before the date
	Date     date.Date // date of that transaction
}

// NewPosition returns a position on series holding the given transactions.
// It fails if the transactions would drive the quantity negative on any date.
func NewPosition(series *PriceSeries, txs ...Transaction) (*Position, error) {
	if series == nil {
		return nil, fmt.Errorf("%w: position without price series", ErrInvalidMutation)
	}
	if err := checkRunningQuantity(series.Ticker(), txs); err != nil {
		return nil, err
	}
	return &Position{series: series, transactions: slices.Clone(txs)}, nil
}

func (p *Position) Ticker() string       { return p.series.Ticker() }
func (p *Position) Series() *PriceSeries { return p.series }
func (p *Position) Len() int             { return len(p.transactions) }

// Transactions iterates over the ledger in insertion order.
func (p *Position) Transactions() iter.Seq[Transaction] {
	return slices.Values(p.transactions)
}

// clone returns a copy that can be mutated independently.
func (p *Position) clone() *Position {
	return &Position{series: p.series, transactions: slices.Clone(p.transactions)}
}

// AddTransaction appends tx to the ledger. It is rejected, leaving the ledger
// unchanged, if the running quantity would become negative on any date.
func (p *Position) AddTransaction(tx Transaction) error {
	if err := tx.validate(); err != nil {
		return err
	}
	candidate := append(slices.Clone(p.transactions), tx)
	if err := checkRunningQuantity(p.Ticker(), candidate); err != nil {
		return err
	}
	p.transactions = candidate
	return nil
}

// hasTag reports whether a strategy occurrence is already materialized.
func (p *Position) hasTag(tag StrategyTag) bool {
	return slices.ContainsFunc(p.transactions, func(tx Transaction) bool { return tx.tag == tag })
}

// checkRunningQuantity checks that the end-of-day quantity is never negative.
func checkRunningQuantity(ticker string, txs []Transaction) error {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return a.on.Compare(b.on) })

	var total Quantity
	for i, tx := range sorted {
		total = total.Add(tx.quantity)
		// transactions of a same day are netted before checking.
		if i+1 < len(sorted) && sorted[i+1].on == tx.on {
			continue
		}
		if total.IsNegative() {
			return fmt.Errorf("%w: %s quantity would be %s on %s", ErrInvalidMutation, ticker, total, tx.on)
		}
	}
	return nil
}

// NetQuantity returns the sum of signed quantities dated on or before 'on'.
func (p *Position) NetQuantity(on date.Date) Quantity {
	var q Quantity
	for _, tx := range p.transactions {
		if !tx.on.After(on) {
			q = q.Add(tx.quantity)
		}
	}
	return q
}

// CostBasis returns the capital committed on or before 'on': buy costs plus
// every commission. Sales never reduce it.
func (p *Position) CostBasis(on date.Date) Money {
	var total Money
	for _, tx := range p.transactions {
		if !tx.on.After(on) {
			total = total.Add(tx.Cost())
		}
	}
	return total
}

// ValueOnDate returns the market value on 'on' using the carry-forward close.
// It is zero before the first quote.
func (p *Position) ValueOnDate(on date.Date) Money {
	price, ok := p.series.PriceOnOrBefore(on)
	if !ok {
		return Money{}
	}
	return price.Mul(p.NetQuantity(on))
}

// CompositionRow returns the holding row as of 'on', or false when nothing is held.
func (p *Position) CompositionRow(on date.Date) (CompositionRow, bool) {
	qty := p.NetQuantity(on)
	if qty.IsZero() {
		return CompositionRow{}, false
	}
	var latest *Transaction
	for i, tx := range p.transactions {
		if tx.on.After(on) {
			continue
		}
		if latest == nil || !tx.on.Before(latest.on) {
			latest = &p.transactions[i]
		}
	}
	if latest == nil {
		return CompositionRow{}, false
	}
	return CompositionRow{
		Ticker:   p.Ticker(),
		Name:     p.series.Name(),
		Quantity: qty,
		Price:    latest.price,
		Date:     latest.on,
	}, true
}

// FirstTransactionDate returns the earliest transaction date, or false on an empty ledger.
func (p *Position) FirstTransactionDate() (date.Date, bool) {
	if len(p.transactions) == 0 {
		return date.Date{}, false
	}
	first := p.transactions[0].on
	for _, tx := range p.transactions[1:] {
		if tx.on.Before(first) {
			first = tx.on
		}
	}
	return first, true
}
