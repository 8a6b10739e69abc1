package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/warehouse"
	"github.com/google/subcommands"
)

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a JSONPath expression on the inventory" }
func (*queryCmd) Usage() string {
	return `whs query <path>

  Evaluates the JSONPath expression against the snapshot of the inventory, as
  written by export, and prints the result as JSON. For instance:

    whs query '$.assets[?(@.status=="AVAILABLE")].signalNumber'
`
}

func (*queryCmd) SetFlags(f *flag.FlagSet) {}

func (c *queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "query takes exactly one path")
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	v, err := warehouse.Query(a.State(), f.Arg(0))
	if err == nil {
		err = printJSON(v)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	return closeApp(a, subcommands.ExitSuccess)
}
