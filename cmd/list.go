package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/stocks/renderer"
	"github.com/google/subcommands"
)

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the portfolios of the user" }
func (*listCmd) Usage() string {
	return `pst list

  Lists the portfolios of the current user, by name.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (*listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, _, err := openStore()
	if err != nil {
		return failure("%v", err)
	}
	list, err := store.List()
	if err != nil {
		return failure("%v", err)
	}
	printMarkdown(renderer.PortfoliosMarkdown(config.User, list))
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a portfolio" }
func (*deleteCmd) Usage() string {
	return `pst delete <portfolio>

  Deletes a portfolio of the current user. This cannot be undone.
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("delete expects exactly one portfolio name")
	}
	store, _, err := openStore()
	if err != nil {
		return failure("%v", err)
	}
	if err := store.Delete(f.Arg(0)); err != nil {
		return failure("%v", err)
	}
	fmt.Fprintf(stdout, "Deleted portfolio %q.\n", f.Arg(0))
	return subcommands.ExitSuccess
}
