package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/etnz/stocks/renderer"
	"github.com/google/subcommands"
)

// weightsFlag collects repeated TICKER=PERCENT flags.
type weightsFlag map[string]float64

func (w weightsFlag) String() string {
	var parts []string
	for ticker, pct := range w {
		parts = append(parts, ticker+"="+strconv.FormatFloat(pct, 'f', -1, 64))
	}
	slices.Sort(parts)
	return strings.Join(parts, ",")
}

func (w weightsFlag) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		ticker, pct, ok := strings.Cut(part, "=")
		ticker = strings.TrimSpace(ticker)
		if !ok || ticker == "" {
			return fmt.Errorf("invalid weight %q, want TICKER=PERCENT", part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q: %w", part, err)
		}
		if _, exists := w[ticker]; exists {
			return fmt.Errorf("duplicate weight for %q", ticker)
		}
		w[ticker] = v
	}
	return nil
}

type strategyCmd struct {
	add        string
	amount     string
	commission string
	start      string
	end        string
	frequency  int
	weights    weightsFlag
}

func (*strategyCmd) Name() string     { return "strategy" }
func (*strategyCmd) Synopsis() string { return "list or add investment strategies of a portfolio" }
func (*strategyCmd) Usage() string {
	return `pst strategy [-add <name> -amount <amount> -w <TICKER=PERCENT>... [-c <commission>] [-start <date>] [-end <date>] [-freq <days>]] <portfolio>

  Lists the dollar-cost-averaging strategies of a strategic portfolio, or adds
  one with -add. A strategy invests a fixed amount every few days, split
  across stocks by weight. Weights must add up to 100.

  Occurrences up to today are executed immediately, the next ones whenever the
  portfolio is loaded again. A strategy without -end never stops.

Usage Examples:
$ pst strategy -add dca -amount 2000 -start 2020-02-11 -end 2021-02-15 -freq 50 -w AAA=60 -w BBB=40 retirement
$ pst strategy retirement
`
}

func (c *strategyCmd) SetFlags(f *flag.FlagSet) {
	c.weights = weightsFlag{}
	f.StringVar(&c.add, "add", "", "Name of a strategy to add")
	f.StringVar(&c.amount, "amount", "", "Amount invested at each occurrence")
	f.StringVar(&c.commission, "c", "0", "Commission paid on each purchase")
	f.StringVar(&c.start, "start", "", "First occurrence (YYYY-MM-DD). Defaults to today")
	f.StringVar(&c.end, "end", "", "Last day of the strategy (YYYY-MM-DD). Open-ended by default")
	f.IntVar(&c.frequency, "freq", 30, "Number of days between occurrences")
	f.Var(c.weights, "w", "Weight of a stock as TICKER=PERCENT, repeatable")
}

func (c *strategyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("strategy expects exactly one portfolio name")
	}
	store, p, err := loadPortfolio(f.Arg(0))
	if err != nil {
		return failure("%v", err)
	}
	sp, ok := p.(*stocks.Strategic)
	if !ok {
		return failure("portfolio %q is %s, only strategic portfolios host strategies", p.Name(), p.Kind())
	}
	if c.add == "" {
		printMarkdown(renderer.StrategiesMarkdown(sp.Name(), sp.Strategies()))
		return subcommands.ExitSuccess
	}

	s, err := c.strategy()
	if err != nil {
		return usageError("%v", err)
	}
	if err := sp.AddStrategy(s, store.Today()); err != nil {
		return failure("%v", err)
	}
	if err := store.Save(sp); err != nil {
		return failure("%v", err)
	}
	fmt.Fprintf(stdout, "Added strategy %q to %q.\n", s.Name(), sp.Name())
	return subcommands.ExitSuccess
}

// strategy returns the strategy described by the flags.
func (c *strategyCmd) strategy() (*stocks.DollarCostAveraging, error) {
	amount, err := stocks.ParseMoney(c.amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", c.amount, err)
	}
	commission, err := stocks.ParseMoney(c.commission)
	if err != nil {
		return nil, fmt.Errorf("invalid commission %q: %w", c.commission, err)
	}
	start, err := parseDay(c.start)
	if err != nil {
		return nil, err
	}
	var end date.Date
	if c.end != "" {
		if end, err = date.Parse(c.end); err != nil {
			return nil, err
		}
	}
	return stocks.NewDollarCostAveraging(c.add, amount, commission, start, end, c.frequency, c.weights)
}
