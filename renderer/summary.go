package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	md "github.com/nao1215/markdown"
)

// Valuation is the value and cost basis of a portfolio on a day.
type Valuation struct {
	Portfolio string
	On        date.Date
	Value     stocks.Money
	CostBasis stocks.Money
}

// Gain returns the value above the cost basis.
func (v Valuation) Gain() stocks.Money { return v.Value.Sub(v.CostBasis) }

// Return returns the gain as a percentage of the cost basis, or false when
// nothing was invested.
func (v Valuation) Return() (float64, bool) {
	if v.CostBasis.IsZero() {
		return 0, false
	}
	return 100 * v.Gain().Float64() / v.CostBasis.Float64(), true
}

// ValuationMarkdown renders the value of a portfolio against its cost basis.
func ValuationMarkdown(v Valuation) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)

	doc.H1(fmt.Sprintf("%s on %s", v.Portfolio, v.On.Format(dateLayout)))
	ret := "n/a"
	if r, ok := v.Return(); ok {
		ret = fmt.Sprintf("%+.2f%%", r)
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Market Value"), md.Bold(v.Value.String())},
		Rows: [][]string{
			{"Cost Basis", v.CostBasis.String()},
			{"Gain", v.Gain().String()},
			{"Return", ret},
		},
	})
	return doc.String()
}
