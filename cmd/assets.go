package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/renderer"
	"github.com/google/subcommands"
)

// assetsCmd lists the serialized units.
type assetsCmd struct {
	item   string
	status string
}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "list the units of serialized items" }
func (*assetsCmd) Usage() string {
	return `whs assets [-item <item>] [-status AVAILABLE|SHIPPED]

  Lists the units of every serialized item, or of one item, grouped by item.
`
}

func (c *assetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.item, "item", "", "only the units of this item")
	f.StringVar(&c.status, "status", "", "only the units with this status")
}

func (c *assetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	status := warehouse.Status(strings.ToUpper(c.status))
	if status != "" && status != warehouse.Available && status != warehouse.Shipped {
		fmt.Fprintf(os.Stderr, "Error: unknown status %q\n", c.status)
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	var itemID string
	if c.item != "" {
		it, err := a.item(c.item)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return closeApp(a, subcommands.ExitFailure)
		}
		itemID = it.ID
	}
	printMarkdown(renderer.RenderAssets(renderer.NewAssets(a.State(), itemID, status, a.loc)))
	return closeApp(a, subcommands.ExitSuccess)
}

// registerCmd registers new units of a serialized item.
type registerCmd struct {
	partner string
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "register new units of a serialized item" }
func (*registerCmd) Usage() string {
	return `whs register [-partner <partner>] <item> <signal>...

  Registers one unit per signal number. Without a partner the units are
  baseline stock, with one they are an inbound delivery. Registration stops at
  the first signal number already in stock.
`
}

func (c *registerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.partner, "partner", "", "supplier delivering the units")
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "register takes an item and at least one signal number")
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	it, err := a.item(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	partnerID, err := a.partner(c.partner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	for _, signal := range f.Args()[1:] {
		asset, e, err := a.RegisterAsset(it.ID, signal, partnerID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return closeApp(a, subcommands.ExitFailure)
		}
		fmt.Fprintf(stdout, "Registered %s %s (%s)\n", asset.ID, asset.SignalNumber, e.Note)
	}
	return closeApp(a, subcommands.ExitSuccess)
}

// deleteAssetCmd deletes a unit.
type deleteAssetCmd struct {
	item   string
	signal string
	yes    bool
}

func (*deleteAssetCmd) Name() string     { return "delete-asset" }
func (*deleteAssetCmd) Synopsis() string { return "delete a serialized unit" }
func (*deleteAssetCmd) Usage() string {
	return `whs delete-asset [-y] <asset>
whs delete-asset [-y] -item <item> -signal <signal>

  Deletes a unit after confirmation. A unit in stock leaves it: the deletion is
  recorded in the log as an outbound correction.
`
}

func (c *deleteAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.item, "item", "", "item of the unit, with -signal")
	f.StringVar(&c.signal, "signal", "", "signal number of the unit in stock, with -item")
	f.BoolVar(&c.yes, "y", false, "do not ask for confirmation")
}

func (c *deleteAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	bySignal := c.item != "" && c.signal != ""
	if bySignal == (f.NArg() == 1) {
		fmt.Fprintln(os.Stderr, "delete-asset takes either one asset ID or -item and -signal")
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	assetID := f.Arg(0)
	if bySignal {
		it, err := a.item(c.item)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return closeApp(a, subcommands.ExitFailure)
		}
		asset, found := a.FindAvailableAsset(it.ID, c.signal)
		if !found {
			fmt.Fprintf(os.Stderr, "Error: %v: no unit of %q in stock with signal %s\n", warehouse.ErrUnknownAsset, it.Name, c.signal)
			return closeApp(a, subcommands.ExitFailure)
		}
		assetID = asset.ID
	}
	p, err := a.PlanDeleteAsset(assetID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	return commit(a, p, c.yes)
}
