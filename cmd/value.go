package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/stocks/renderer"
	"github.com/google/subcommands"
)

// valueCmd reports the value of a portfolio, or only its cost basis.
type valueCmd struct {
	costBasis bool
	date      string
}

func (c *valueCmd) Name() string {
	if c.costBasis {
		return "costbasis"
	}
	return "value"
}

func (c *valueCmd) Synopsis() string {
	if c.costBasis {
		return "display the cost basis of a portfolio"
	}
	return "display the market value of a portfolio"
}

func (c *valueCmd) Usage() string {
	if c.costBasis {
		return `pst costbasis [-d <date>] <portfolio>

  Displays the cash invested in a portfolio up to a date: the cost of every
  purchase plus every commission paid. Sales do not reduce it.
`
	}
	return `pst value [-d <date>] <portfolio>

  Displays the market value of a portfolio on a date, using the last known
  close for days without quotes, against its cost basis.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Valuation date (YYYY-MM-DD). Defaults to today")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("%s expects exactly one portfolio name", c.Name())
	}
	on, err := parseDay(c.date)
	if err != nil {
		return usageError("%v", err)
	}
	_, p, err := loadPortfolio(f.Arg(0))
	if err != nil {
		return failure("%v", err)
	}
	if c.costBasis {
		fmt.Fprintf(stdout, "%s\n", p.CostBasis(on))
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.ValuationMarkdown(renderer.Valuation{
		Portfolio: p.Name(),
		On:        on,
		Value:     p.ValueByDate(on),
		CostBasis: p.CostBasis(on),
	}))
	return subcommands.ExitSuccess
}

type compositionCmd struct {
	date string
}

func (*compositionCmd) Name() string     { return "composition" }
func (*compositionCmd) Synopsis() string { return "display the holdings of a portfolio" }
func (*compositionCmd) Usage() string {
	return `pst composition [-d <date>] <portfolio>

  Displays the stocks held on a date, with the price and date of the latest
  trade of each.
`
}

func (c *compositionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Composition date (YYYY-MM-DD). Defaults to today")
}

func (c *compositionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("composition expects exactly one portfolio name")
	}
	on, err := parseDay(c.date)
	if err != nil {
		return usageError("%v", err)
	}
	_, p, err := loadPortfolio(f.Arg(0))
	if err != nil {
		return failure("%v", err)
	}
	printMarkdown(renderer.CompositionMarkdown(p.Name(), on, p.Composition(on)))
	return subcommands.ExitSuccess
}
