package cmd

import "github.com/google/subcommands"

// Commands lists every pst subcommand, in the order they are documented.
var Commands = []subcommands.Command{
	&createCmd{},
	&listCmd{},
	&deleteCmd{},
	&tradeCmd{},
	&tradeCmd{sell: true},
	&valueCmd{},
	&valueCmd{costBasis: true},
	&compositionCmd{},
	&performanceCmd{},
	&strategyCmd{},
	&quoteCmd{},
	&declareCmd{},
	&topicCmd{},
}
