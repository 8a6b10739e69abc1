package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/warehouse/date"
	"github.com/etnz/warehouse/renderer"
	"github.com/google/subcommands"
)

// statsCmd shows the dashboard.
type statsCmd struct {
	date string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "show the inventory dashboard" }
func (*statsCmd) Usage() string {
	return `whs stats [-d <date>]

  Shows the inventory figures, the items below their safety stock, the totals
  per category and the latest movements.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "today", "Date shown in the dashboard title")
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderDashboard(renderer.NewDashboard(a.State(), on, *currency, a.loc)))
	return closeApp(a, subcommands.ExitSuccess)
}
