package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/warehouse"
	"github.com/google/subcommands"
)

// txCmd records a movement in one direction: "in" or "out".
type txCmd struct {
	dir      warehouse.Direction
	quantity int
	partner  string
	note     string
	asset    string
	signal   string
}

func (c *txCmd) Name() string { return strings.ToLower(string(c.dir)) }
func (c *txCmd) Synopsis() string {
	if c.dir == warehouse.In {
		return "record goods coming into the warehouse"
	}
	return "record goods leaving the warehouse"
}
func (c *txCmd) Usage() string {
	return fmt.Sprintf(`whs %[1]s [-q <quantity>] [-partner <partner>] [-note <note>] <item>
whs %[1]s [-partner <partner>] [-note <note>] -signal <signal> <item>
whs %[1]s [-partner <partner>] [-note <note>] -asset <asset> <item>

  Records one movement in the log. Bulk items move by quantity. Serialized
  items move one unit at a time, designated by its signal number or its ID.
`, c.Name())
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.quantity, "q", 1, "quantity, bulk items only")
	f.StringVar(&c.partner, "partner", "", "supplier or customer")
	f.StringVar(&c.note, "note", "", "free text")
	f.StringVar(&c.asset, "asset", "", "ID of the unit, serialized items only")
	f.StringVar(&c.signal, "signal", "", "signal number of the unit, serialized items only")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s takes exactly one item\n", c.Name())
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

	var e warehouse.LogEntry
	switch {
	case c.asset == "" && c.signal != "" && c.dir == warehouse.Out:
		e, err = a.ShipSignal(it.ID, c.signal, partnerID, c.note)
	case c.asset == "" && c.signal != "":
		e, err = a.ReceiveSignal(it.ID, c.signal, partnerID, c.note)
	default:
		e, err = a.ProcessTransaction(warehouse.Transaction{
			ItemID:    it.ID,
			Type:      c.dir,
			Quantity:  c.quantity,
			PartnerID: partnerID,
			Note:      c.note,
			AssetID:   c.asset,
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}

	if e.SignalNumber != "" {
		fmt.Fprintf(stdout, "Recorded %s %s %q signal %s\n", e.ID, e.Type, e.ItemName, e.SignalNumber)
	} else {
		fmt.Fprintf(stdout, "Recorded %s %s %q x%d\n", e.ID, e.Type, e.ItemName, e.Quantity)
	}
	if after, found := a.Item(it.ID); found && after.LowStock() {
		fmt.Fprintf(stdout, "Warning: %q is at %d, safety stock is %d\n", after.Name, after.Quantity, after.SafetyStock)
	}
	return closeApp(a, subcommands.ExitSuccess)
}
