package stocks

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/stocks/date"
)

// UploadRow is one line of an uploaded trade file: ticker, quantity, date and
// an optional commission.
type UploadRow struct {
	Line       int
	Ticker     string
	Quantity   string
	Date       string
	Commission string
}

// DecodeUpload reads CSV rows "ticker,quantity,date[,commission]". A first
// line starting with "ticker" is a header and is skipped. Rows are returned
// raw; they are checked by NewPositionsFromUpload.
func DecodeUpload(r io.Reader) ([]UploadRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var rows []UploadRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMutation, err)
		}
		line, _ := cr.FieldPos(0)
		if len(rows) == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "ticker") {
			continue
		}
		if len(record) < 3 || len(record) > 4 {
			return nil, fmt.Errorf("%w: line %d: want ticker,quantity,date[,commission], got %d fields", ErrInvalidMutation, line, len(record))
		}
		row := UploadRow{
			Line:     line,
			Ticker:   strings.TrimSpace(record[0]),
			Quantity: strings.TrimSpace(record[1]),
			Date:     strings.TrimSpace(record[2]),
		}
		if len(record) == 4 {
			row.Commission = strings.TrimSpace(record[3])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// transaction builds the transaction of the row, priced at the exact close of its date.
func (r UploadRow) transaction(feed PriceFeed) (*PriceSeries, Transaction, error) {
	series, err := feed.SeriesForTicker(r.Ticker)
	if err != nil {
		return nil, Transaction{}, err
	}
	qty, err := ParseQuantity(r.Quantity)
	if err != nil {
		return nil, Transaction{}, fmt.Errorf("%w: quantity %q: %w", ErrInvalidMutation, r.Quantity, err)
	}
	on, err := date.Parse(r.Date)
	if err != nil {
		return nil, Transaction{}, fmt.Errorf("%w: %w", ErrInvalidMutation, err)
	}
	var commission Money
	if r.Commission != "" {
		if commission, err = ParseMoney(r.Commission); err != nil {
			return nil, Transaction{}, fmt.Errorf("%w: commission %q: %w", ErrInvalidMutation, r.Commission, err)
		}
	}
	tx, err := NewTradeTransaction(series, on, qty, commission, SourceUpload)
	return series, tx, err
}

// NewPositionsFromUpload turns uploaded rows into positions, one per ticker in
// order of first appearance. The upload is all or nothing: every faulty row is
// reported and no position is returned.
func NewPositionsFromUpload(feed PriceFeed, rows []UploadRow) ([]*Position, error) {
	var errs []error
	var order []string
	series := make(map[string]*PriceSeries)
	txs := make(map[string][]Transaction)
	for _, row := range rows {
		s, tx, err := row.transaction(feed)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", row.Line, err))
			continue
		}
		if _, ok := series[row.Ticker]; !ok {
			order = append(order, row.Ticker)
			series[row.Ticker] = s
		}
		txs[row.Ticker] = append(txs[row.Ticker], tx)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	positions := make([]*Position, 0, len(order))
	for _, ticker := range order {
		p, err := NewPosition(series[ticker], txs[ticker]...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		positions = append(positions, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return positions, nil
}
