package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/etnz/stocks/renderer"
	"github.com/google/subcommands"
)

type quoteCmd struct {
	date string
	set  string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "display or record the close of a stock" }
func (*quoteCmd) Usage() string {
	return `pst quote [-d <date>] [-set <close>] <ticker>

  Displays the close of a stock on a date, or the last known close on days
  without quotes. With -set, records the close of that day in the market
  instead.

Usage Examples:
$ pst quote -d 2022-10-29 GOOG
$ pst quote -d 2022-10-31 -set 94.66 GOOG
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Quote date (YYYY-MM-DD). Defaults to today")
	f.StringVar(&c.set, "set", "", "Close price to record")
}

func (c *quoteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("quote expects exactly one ticker")
	}
	on, err := parseDay(c.date)
	if err != nil {
		return usageError("%v", err)
	}
	market, err := openMarket()
	if err != nil {
		return failure("cannot load market: %v", err)
	}
	s, err := market.SeriesForTicker(f.Arg(0))
	if err != nil {
		return failure("%v", err)
	}
	if c.set == "" {
		printMarkdown(renderer.QuoteMarkdown(s, on))
		return subcommands.ExitSuccess
	}

	price, err := strconv.ParseFloat(c.set, 64)
	if err != nil || price <= 0 {
		return usageError("invalid close %q, want a positive price", c.set)
	}
	if on.IsWeekend() {
		return usageError("%s is not a trading day", on)
	}
	s.Append(on, price)
	if err := stocks.EncodeMarket(config.MarketDir, market); err != nil {
		return failure("cannot save market: %v", err)
	}
	fmt.Fprintf(stdout, "Recorded %s close of %s on %s.\n", s.Ticker(), stocks.M(price), on)
	return subcommands.ExitSuccess
}

type declareCmd struct {
	name     string
	exchange string
	ipo      string
}

func (*declareCmd) Name() string     { return "declare" }
func (*declareCmd) Synopsis() string { return "declare a stock in the market" }
func (*declareCmd) Usage() string {
	return `pst declare -name <name> [-exchange <exchange>] [-ipo <date>] <ticker>

  Declares a stock so that its closes can be recorded and traded.

Usage Examples:
$ pst declare -name "Alphabet Inc." -exchange NASDAQ -ipo 2004-08-19 GOOG
`
}

func (c *declareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the company")
	f.StringVar(&c.exchange, "exchange", "", "Exchange the stock is listed on")
	f.StringVar(&c.ipo, "ipo", "", "Day of the initial public offering (YYYY-MM-DD)")
}

func (c *declareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || f.Arg(0) == "" {
		return usageError("declare expects exactly one ticker")
	}
	if c.name == "" {
		return usageError("-name is required")
	}
	var ipo date.Date
	if c.ipo != "" {
		var err error
		if ipo, err = date.Parse(c.ipo); err != nil {
			return usageError("%v", err)
		}
	}
	market, err := openMarket()
	if err != nil {
		return failure("cannot load market: %v", err)
	}
	if err := market.Add(stocks.NewPriceSeries(f.Arg(0), c.name, c.exchange, ipo)); err != nil {
		return failure("%v", err)
	}
	if err := stocks.EncodeMarket(config.MarketDir, market); err != nil {
		return failure("cannot save market: %v", err)
	}
	fmt.Fprintf(stdout, "Declared %s (%s).\n", f.Arg(0), c.name)
	return subcommands.ExitSuccess
}
