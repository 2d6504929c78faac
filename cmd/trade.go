package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/stocks"
	"github.com/etnz/stocks/date"
	"github.com/google/subcommands"
)

// trader is a portfolio accepting manual trades.
type trader interface {
	stocks.Portfolio
	Trade(ticker string, on date.Date, quantity stocks.Quantity, commission stocks.Money) (stocks.Transaction, error)
}

// tradeCmd buys, or sells, shares of a stock at its close.
type tradeCmd struct {
	sell       bool
	date       string
	commission string
}

func (c *tradeCmd) Name() string {
	if c.sell {
		return "sell"
	}
	return "buy"
}

func (c *tradeCmd) Synopsis() string {
	if c.sell {
		return "record a sale of shares in a portfolio"
	}
	return "record a purchase of shares in a portfolio"
}

func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`pst %[1]s [-d <date>] [-c <commission>] <portfolio> <ticker> <quantity>

  Records a trade of whole shares at the close of the day. The day must be a
  trading day of the stock. Inflexible portfolios cannot be traded.

Usage Examples:
$ pst %[1]s -d 2022-10-27 -c 1.5 main GOOG 10
`, c.Name())
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Trade date (YYYY-MM-DD). Defaults to today")
	f.StringVar(&c.commission, "c", "0", "Commission paid for the trade")
}

func (c *tradeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usageError("%s expects a portfolio, a ticker and a quantity", c.Name())
	}
	on, err := parseDay(c.date)
	if err != nil {
		return usageError("%v", err)
	}
	qty, err := stocks.ParseQuantity(f.Arg(2))
	if err != nil || !qty.IsPositive() {
		return usageError("invalid quantity %q, want a positive number of shares", f.Arg(2))
	}
	if c.sell {
		qty = qty.Neg()
	}
	commission, err := stocks.ParseMoney(c.commission)
	if err != nil {
		return usageError("invalid commission %q: %v", c.commission, err)
	}

	store, p, err := loadPortfolio(f.Arg(0))
	if err != nil {
		return failure("%v", err)
	}
	t, ok := p.(trader)
	if !ok {
		return failure("portfolio %q is %s and cannot be traded", p.Name(), p.Kind())
	}
	tx, err := t.Trade(f.Arg(1), on, qty, commission)
	if err != nil {
		return failure("%v", err)
	}
	if err := store.Save(p); err != nil {
		return failure("%v", err)
	}
	fmt.Fprintf(stdout, "Recorded %s of %s %s at %s on %s.\n", c.Name(), qty.Abs(), f.Arg(1), tx.Price(), tx.Date())
	return subcommands.ExitSuccess
}
