package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/chart"
	"github.com/guptarohit/asciigraph"
	md "github.com/nao1215/markdown"
)

// PerformanceMarkdown renders a plot as a star chart, one row per bucket.
func PerformanceMarkdown(portfolio string, plot chart.Plot) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)

	doc.H1(fmt.Sprintf("Performance of %s", portfolio))
	if len(plot.Buckets) == 0 {
		paragraph(doc, "Nothing to plot.")
		return doc.String()
	}
	first, last := plot.Buckets[0], plot.Buckets[len(plot.Buckets)-1]
	paragraph(doc, fmt.Sprintf("%s values from %s to %s.", strings.ToLower(plot.Granularity.String()), first.Label, last.Label))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft},
		Header:    []string{"Date", "Value", "Chart"},
	}
	for _, b := range plot.Buckets {
		table.Rows = append(table.Rows, []string{b.Label, stocks.M(b.Value).String(), bar(b.Stars)})
	}
	doc.Table(table)
	paragraph(doc, fmt.Sprintf("The first star is worth %s, each additional star %s.",
		stocks.M(plot.Start).String(), stocks.M(plot.Scale).String()))
	return doc.String()
}

// GraphMarkdown renders a plot as a line graph in a code block.
func GraphMarkdown(portfolio string, plot chart.Plot, height int) string {
	var buf bytes.Buffer
	doc := newDoc(&buf)

	doc.H1(fmt.Sprintf("Performance of %s", portfolio))
	if len(plot.Buckets) < 2 {
		paragraph(doc, "Not enough values to draw a graph.")
		return doc.String()
	}
	first, last := plot.Buckets[0], plot.Buckets[len(plot.Buckets)-1]
	graph := asciigraph.Plot(plot.Values(),
		asciigraph.Height(height),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("%s to %s, %d %s points", first.Label, last.Label, len(plot.Buckets), strings.ToLower(plot.Granularity.String()))),
	)
	paragraph(doc, "```text\n" + graph + "\n```")
	return doc.String()
}
