package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	md "github.com/nao1215/markdown"
)

// QuoteMarkdown renders the close of a stock as of a day. A day without
// quote shows the latest prior close.
func QuoteMarkdown(s *stocks.PriceSeries, on date.Date) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)

	doc.H1(fmt.Sprintf("%s (%s)", s.Name(), s.Ticker()))
	rows := [][]string{{"Exchange", s.Exchange()}}
	if !s.IPO().IsZero() {
		rows = append(rows, []string{"IPO", s.IPO().String()})
	}
	if s.Len() > 0 {
		rows = append(rows, []string{"Quotes", fmt.Sprintf("%s to %s", s.FirstDate(), s.LastDate())})
	}
	quote := "no quote yet"
	if price, ok := s.PriceOnOrBefore(on); ok {
		quote = price.String()
		if !s.ExactPriceExists(on) {
			quote += " (carried forward)"
		}
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold(fmt.Sprintf("Close on %s", on)), md.Bold(quote)},
		Rows:      rows,
	})
	return doc.String()
}
