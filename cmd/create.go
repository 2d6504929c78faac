package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/stocks"
	"github.com/google/subcommands"
)

type createCmd struct {
	kind   string
	upload string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new portfolio" }
func (*createCmd) Usage() string {
	return `pst create [-kind <kind>] [-upload <file.csv>] <portfolio>

  Creates a portfolio. The kind is one of 'inflexible', 'flexible' or
  'strategic'. An inflexible portfolio is frozen at creation: fill it from an
  upload file of 'ticker,quantity,date[,commission]' rows.

Usage Examples:
$ pst create -kind inflexible -upload broker.csv archive
$ pst create -kind strategic retirement
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", stocks.KindFlexible.String(), "Kind of portfolio: inflexible, flexible or strategic")
	f.StringVar(&c.upload, "upload", "", "CSV file of transactions to fill the portfolio with")
}

func (c *createCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("create expects exactly one portfolio name")
	}
	kind, err := stocks.ParseKind(c.kind)
	if err != nil {
		return usageError("%v", err)
	}
	store, market, err := openStore()
	if err != nil {
		return failure("%v", err)
	}

	var positions []*stocks.Position
	if c.upload != "" {
		positions, err = readUpload(c.upload, market)
		if err != nil {
			return failure("cannot upload %q: %v", c.upload, err)
		}
	}

	var p stocks.Portfolio
	name := f.Arg(0)
	switch kind {
	case stocks.KindInflexible:
		p, err = stocks.NewInflexible(name, market, positions...)
	case stocks.KindFlexible:
		p, err = stocks.NewFlexible(name, market, positions...)
	case stocks.KindStrategic:
		p, err = stocks.NewStrategic(name, market, positions...)
	}
	if err != nil {
		return failure("%v", err)
	}
	if err := store.Create(p); err != nil {
		return failure("%v", err)
	}
	fmt.Fprintf(stdout, "Created %s portfolio %q with %d positions.\n", p.Kind(), p.Name(), len(p.Tickers()))
	return subcommands.ExitSuccess
}

// readUpload reads and validates an upload file.
func readUpload(filename string, feed stocks.PriceFeed) ([]*stocks.Position, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := stocks.DecodeUpload(f)
	if err != nil {
		return nil, err
	}
	return stocks.NewPositionsFromUpload(feed, rows)
}
