package cmd

import (
	"context"
	"flag"

	"github.com/etnz/stocks/chart"
	"github.com/etnz/stocks/date"
	"github.com/etnz/stocks/renderer"
	"github.com/google/subcommands"
)

type performanceCmd struct {
	from   string
	to     string
	graph  bool
	height int
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "chart the value of a portfolio over time" }
func (*performanceCmd) Usage() string {
	return `pst performance [-from <date>] [-to <date>] [-graph [-height <lines>]] <portfolio>

  Charts the value of a portfolio. Ranges up to two months are sampled daily,
  up to 30 months monthly, and yearly beyond. Each sample is drawn as a row of
  stars, or as a line graph with -graph.

  The range starts on the first transaction by default and ends today.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day of the chart (YYYY-MM-DD). Defaults to the first transaction")
	f.StringVar(&c.to, "to", "", "Last day of the chart (YYYY-MM-DD). Defaults to today")
	f.BoolVar(&c.graph, "graph", false, "Draw a line graph instead of stars")
	f.IntVar(&c.height, "height", 10, "Height of the line graph, in lines")
}

func (c *performanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("performance expects exactly one portfolio name")
	}
	to, err := parseDay(c.to)
	if err != nil {
		return usageError("%v", err)
	}
	if to.After(date.Today()) {
		return usageError("cannot chart the future, %s is after today", to)
	}
	_, p, err := loadPortfolio(f.Arg(0))
	if err != nil {
		return failure("%v", err)
	}

	var from date.Date
	if c.from != "" {
		if from, err = date.Parse(c.from); err != nil {
			return usageError("%v", err)
		}
	} else {
		var first date.Date
		ok := false
		if h, dated := p.(interface{ FirstTransactionDate() (date.Date, bool) }); dated {
			first, ok = h.FirstTransactionDate()
		}
		if !ok {
			return failure("portfolio %q has no transaction yet, use -from", p.Name())
		}
		from = first
	}

	plot, err := chart.Builder{MaxStars: config.MaxStars}.Build(p.Sampler(), from, to)
	if err != nil {
		return usageError("%v", err)
	}
	if c.graph {
		printMarkdown(renderer.GraphMarkdown(p.Name(), plot, c.height))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.PerformanceMarkdown(p.Name(), plot))
	return subcommands.ExitSuccess
}
