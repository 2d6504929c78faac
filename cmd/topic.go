package cmd

import (
	"context"
	"flag"

	"github.com/etnz/stocks/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `pst topic [<topic>...]

Show documentation for the given topics, or the list of topics. Use '*' to
show them all.
`
}

func (*topicCmd) SetFlags(*flag.FlagSet) {}

func (*topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return failure("cannot read documentation: %v", err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
