package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	md "github.com/nao1215/markdown"
)

// CompositionMarkdown renders the holdings of a portfolio on a day. The price
// column is the price of the latest transaction of each holding.
func CompositionMarkdown(portfolio string, on date.Date, rows []stocks.CompositionRow) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)

	doc.H1(fmt.Sprintf("Composition of %s on %s", portfolio, on.Format(dateLayout)))
	if len(rows) == 0 {
		paragraph(doc, "No holdings.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Ticker", "Name", "Quantity", "Last Price", "Last Trade"},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Ticker,
			r.Name,
			r.Quantity.String(),
			r.Price.String(),
			r.Date.String(),
		})
	}
	doc.Table(table)
	return doc.String()
}
