package stocks

import (
	"fmt"

	"github.com/etnz/stocks/date"
	json "github.com/goccy/go-json"
)

// Source tells how a transaction entered a ledger.
type Source string

const (
	SourceManual   Source = "manual"
	SourceStrategy Source = "strategy"
	SourceUpload   Source = "upload"
)

// ParseSource parses a transaction source tag.
func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case SourceManual, SourceStrategy, SourceUpload:
		return src, nil
	default:
		return "", fmt.Errorf("unknown transaction source %q", s)
	}
}

// StrategyTag identifies the strategy occurrence a transaction materializes.
type StrategyTag struct {
	Strategy  string
	Scheduled date.Date
}

// IsZero reports whether the tag is unset.
func (t StrategyTag) IsZero() bool { return t == StrategyTag{} }

// Transaction is an immutable buy (positive quantity) or sell (negative
// quantity) of a single stock.
type Transaction struct {
	on         date.Date
	quantity   Quantity
	price      Money // unit price
	commission Money
	exchange   string
	source     Source
	tag        StrategyTag
}

// NewTransaction returns a transaction after checking its own fields: a non
// zero quantity, a positive price, a non negative commission and a known source.
func NewTransaction(on date.Date, quantity Quantity, price, commission Money, exchange string, source Source) (Transaction, error) {
	tx := Transaction{
		on:         on,
		quantity:   quantity,
		price:      price,
		commission: commission,
		exchange:   exchange,
		source:     source,
	}
	return tx, tx.validate()
}

// NewTradeTransaction builds a manual or uploaded transaction priced at the
// exact close of day 'on'. Whole shares only, and the day must be quoted.
func NewTradeTransaction(series *PriceSeries, on date.Date, quantity Quantity, commission Money, source Source) (Transaction, error) {
	if !quantity.IsInteger() {
		return Transaction{}, fmt.Errorf("%w: quantity %s of %s is not a whole number of shares", ErrInvalidMutation, quantity, series.Ticker())
	}
	price, ok := series.Close(on)
	if !ok {
		return Transaction{}, fmt.Errorf("%w: %s is not quoted on %s", ErrNoPriceData, series.Ticker(), on)
	}
	return NewTransaction(on, quantity, price, commission, series.Exchange(), source)
}

// newStrategyTransaction builds the purchase materializing one strategy occurrence.
func newStrategyTransaction(on date.Date, quantity Quantity, price, commission Money, exchange string, tag StrategyTag) Transaction {
	return Transaction{
		on:         on,
		quantity:   quantity,
		price:      price,
		commission: commission,
		exchange:   exchange,
		source:     SourceStrategy,
		tag:        tag,
	}
}

func (t Transaction) validate() error {
	if t.on.IsZero() {
		return fmt.Errorf("%w: transaction date is missing", ErrInvalidMutation)
	}
	if t.quantity.IsZero() {
		return fmt.Errorf("%w: transaction quantity must not be zero", ErrInvalidMutation)
	}
	if !t.price.IsPositive() {
		return fmt.Errorf("%w: transaction price must be positive, got %s", ErrInvalidMutation, t.price)
	}
	if t.commission.IsNegative() {
		return fmt.Errorf("%w: commission must not be negative, got %s", ErrInvalidMutation, t.commission)
	}
	if _, err := ParseSource(string(t.source)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMutation, err)
	}
	return nil
}

func (t Transaction) Date() date.Date    { return t.on }
func (t Transaction) Quantity() Quantity { return t.quantity }
func (t Transaction) Price() Money       { return t.price }
func (t Transaction) Commission() Money  { return t.commission }
func (t Transaction) Exchange() string   { return t.exchange }
func (t Transaction) Source() Source     { return t.source }
func (t Transaction) Tag() StrategyTag   { return t.tag }
func (t Transaction) IsBuy() bool        { return t.quantity.IsPositive() }

// Cost returns the capital this transaction commits: quantity times price
// plus commission for a buy, the commission alone for a sell.
func (t Transaction) Cost() Money {
	if t.IsBuy() {
		return t.price.Mul(t.quantity).Add(t.commission)
	}
	return t.commission
}

// Equal reports whether both transactions carry the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.on == o.on &&
		t.quantity.Equal(o.quantity) &&
		t.price.Equal(o.price) &&
		t.commission.Equal(o.commission) &&
		t.exchange == o.exchange &&
		t.source == o.source &&
		t.tag == o.tag
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s @ %s (+%s) %s", t.on, t.quantity, t.price, t.commission, t.source)
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.on)
	w.Append("quantity", t.quantity)
	w.Append("price", t.price)
	w.Append("commission", t.commission)
	w.Optional("exchange", t.exchange)
	w.Append("source", t.source)
	if !t.tag.IsZero() {
		w.Append("strategy", t.tag.Strategy)
		w.Append("scheduled", t.tag.Scheduled)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
// The decoded transaction is validated like a new one.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Date       date.Date `json:"date"`
		Quantity   Quantity  `json:"quantity"`
		Price      Money     `json:"price"`
		Commission Money     `json:"commission"`
		Exchange   string    `json:"exchange"`
		Source     Source    `json:"source"`
		Strategy   string    `json:"strategy"`
		Scheduled  date.Date `json:"scheduled"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	tx, err := NewTransaction(temp.Date, temp.Quantity, temp.Price, temp.Commission, temp.Exchange, temp.Source)
	if err != nil {
		return err
	}
	tx.tag = StrategyTag{Strategy: temp.Strategy, Scheduled: temp.Scheduled}
	*t = tx
	return nil
}
