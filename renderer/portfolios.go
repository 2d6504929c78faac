package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/stocks"
	md "github.com/nao1215/markdown"
)

// PortfoliosMarkdown renders the portfolios of a user.
func PortfoliosMarkdown(user string, list []stocks.Summary) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)

	doc.H1(fmt.Sprintf("Portfolios of %s", user))
	if len(list) == 0 {
		paragraph(doc, "No portfolio yet.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Name", "Kind", "Created"},
	}
	for _, s := range list {
		table.Rows = append(table.Rows, []string{s.Name, s.Kind, s.Created.Format("2006-01-02 15:04")})
	}
	doc.Table(table)
	return doc.String()
}

// StrategiesMarkdown renders the strategies hosted by a portfolio.
func StrategiesMarkdown(portfolio string, strategies []*stocks.DollarCostAveraging) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)

	doc.H1(fmt.Sprintf("Strategies of %s", portfolio))
	if len(strategies) == 0 {
		paragraph(doc, "No strategy.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    []string{"Name", "Amount", "Commission", "Start", "End", "Every", "Weights"},
	}
	for _, s := range strategies {
		end := "open"
		if !s.IsOpenEnded() {
			end = s.End().String()
		}
		var weights []string
		for _, w := range s.Weights() {
			weights = append(weights, fmt.Sprintf("%s %s%%", w.Ticker, w.Percent))
		}
		table.Rows = append(table.Rows, []string{
			s.Name(),
			s.Amount().String(),
			s.Commission().String(),
			s.Start().String(),
			end,
			fmt.Sprintf("%d days", s.Frequency()),
			strings.Join(weights, ", "),
		})
	}
	doc.Table(table)
	return doc.String()
}
