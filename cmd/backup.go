package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/date"
	"github.com/etnz/warehouse/sheet"
	"github.com/google/subcommands"
)

// exportCmd writes a backup of the whole inventory.
type exportCmd struct {
	output string
	xlsx   string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a JSON backup of the inventory" }
func (*exportCmd) Usage() string {
	return `whs export [-o <file>] [-xlsx <file>]

  Writes the items, log, partners and units as a JSON snapshot, by default to
  inventory_backup_<date>.json. With -xlsx the current stock is also written to
  a workbook.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "snapshot file, - for the standard output")
	f.StringVar(&c.xlsx, "xlsx", "", "also write the stock to this workbook")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	now := time.Now()
	name := c.output
	if name == "" {
		name = fmt.Sprintf("inventory_backup_%s.json", date.Of(now, a.loc))
	}

	if name == "-" {
		if err := warehouse.ExportSnapshot(stdout, a.State(), now); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return closeApp(a, subcommands.ExitFailure)
		}
	} else {
		file, err := os.Create(name)
		if err == nil {
			err = warehouse.ExportSnapshot(file, a.State(), now)
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", name, err)
			return closeApp(a, subcommands.ExitFailure)
		}
		fmt.Fprintf(stdout, "Wrote %s\n", name)
	}

	if c.xlsx != "" {
		file, err := os.Create(c.xlsx)
		if err == nil {
			err = sheet.WriteInventoryXLSX(file, a.Items(), *currency)
			if cerr := file.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.xlsx, err)
			return closeApp(a, subcommands.ExitFailure)
		}
		fmt.Fprintf(stdout, "Wrote %s\n", c.xlsx)
	}
	return closeApp(a, subcommands.ExitSuccess)
}

// importCmd replaces the inventory with a backup.
type importCmd struct {
	yes bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the inventory with a JSON backup" }
func (*importCmd) Usage() string {
	return `whs import [-y] <file>

  Replaces the whole inventory with the snapshot, after confirmation. A file
  missing one of the items, logs, partners or assets collections is rejected
  and nothing changes.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "do not ask for confirmation")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import takes exactly one file")
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	snap, err := warehouse.DecodeSnapshot(file)
	file.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	p, err := a.PlanImport(snap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	return commit(a, p, c.yes)
}
