package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/renderer"
	"github.com/etnz/warehouse/sheet"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// itemsCmd lists the reconciled inventory.
type itemsCmd struct {
	query string
	low   bool
	json  bool
}

func (*itemsCmd) Name() string     { return "items" }
func (*itemsCmd) Synopsis() string { return "list items with their reconciled quantity" }
func (*itemsCmd) Usage() string {
	return `whs items [-q <term>] [-low] [-json]

  Lists the items of the inventory. The quantity of serialized items is the
  number of their units in stock.
`
}

func (c *itemsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "only items whose ID, name or category contains the term")
	f.BoolVar(&c.low, "low", false, "only items at or below their safety stock")
	f.BoolVar(&c.json, "json", false, "print JSON instead of a table")
}

func (c *itemsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	items := warehouse.SearchItems(a.Items(), c.query)
	if c.low {
		items = warehouse.LowStock(items)
	}
	if c.json {
		if items == nil {
			items = []warehouse.Item{}
		}
		if err := printJSON(items); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return closeApp(a, subcommands.ExitFailure)
		}
		return closeApp(a, subcommands.ExitSuccess)
	}
	printMarkdown(renderer.RenderInventory(renderer.NewInventory(items, *currency, a.loc)))
	return closeApp(a, subcommands.ExitSuccess)
}

// itemFlags are the editable fields of an item.
type itemFlags struct {
	id, name, category string
	quantity, safety   int
	price              string
}

func (c *itemFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "item name")
	f.StringVar(&c.category, "category", "", "item category; 탱크 makes it serialized")
	f.IntVar(&c.quantity, "quantity", 0, "quantity in stock, bulk items only")
	f.IntVar(&c.safety, "safety", 0, "safety stock")
	f.StringVar(&c.price, "price", "0", "unit price")
}

// itemAddCmd adds an item to the catalog.
type itemAddCmd struct{ itemFlags }

func (*itemAddCmd) Name() string     { return "item-add" }
func (*itemAddCmd) Synopsis() string { return "add an item to the catalog" }
func (*itemAddCmd) Usage() string {
	return `whs item-add -name <name> [-id <id>] [-category <category>] [-quantity <n>] [-safety <n>] [-price <amount>]

  Adds an item. An ID is generated when none is given.
`
}

func (c *itemAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "item ID, generated when empty")
	c.itemFlags.set(f)
}

func (c *itemAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	price, err := decimal.NewFromString(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price %q: %v\n", c.price, err)
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	it, err := a.AddItem(warehouse.Item{
		ID:          c.id,
		Name:        c.name,
		Category:    c.category,
		Quantity:    c.quantity,
		SafetyStock: c.safety,
		Price:       price,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding item: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	fmt.Fprintf(stdout, "Added %s %q (%s)\n", it.ID, it.Name, it.Mode())
	return closeApp(a, subcommands.ExitSuccess)
}

// itemEditCmd changes the fields of an item given on the command line.
type itemEditCmd struct{ itemFlags }

func (*itemEditCmd) Name() string     { return "item-edit" }
func (*itemEditCmd) Synopsis() string { return "edit an item" }
func (*itemEditCmd) Usage() string {
	return `whs item-edit [-name <name>] [-category <category>] [-quantity <n>] [-safety <n>] [-price <amount>] <item>

  Changes only the fields given. The item is its ID or its name.
`
}

func (c *itemEditCmd) SetFlags(f *flag.FlagSet) { c.itemFlags.set(f) }

func (c *itemEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "item-edit takes exactly one item")
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
	// the stored item, not the reconciled one
	it, _ = a.State().Item(it.ID)

	var perr error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			it.Name = c.name
		case "category":
			it.Category = c.category
		case "quantity":
			it.Quantity = c.quantity
		case "safety":
			it.SafetyStock = c.safety
		case "price":
			it.Price, perr = decimal.NewFromString(c.price)
		}
	})
	if perr != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price %q: %v\n", c.price, perr)
		return closeApp(a, subcommands.ExitUsageError)
	}
	if it, err = a.UpdateItem(it); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating item: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	fmt.Fprintf(stdout, "Updated %s %q\n", it.ID, it.Name)
	return closeApp(a, subcommands.ExitSuccess)
}

// itemDeleteCmd removes an item and its units.
type itemDeleteCmd struct {
	yes bool
}

func (*itemDeleteCmd) Name() string     { return "item-delete" }
func (*itemDeleteCmd) Synopsis() string { return "delete an item with its units" }
func (*itemDeleteCmd) Usage() string {
	return `whs item-delete [-y] <item>

  Deletes the item and every unit of it, after confirmation. The log entries
  about the item are kept.
`
}

func (c *itemDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "do not ask for confirmation")
}

func (c *itemDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "item-delete takes exactly one item")
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
	p, err := a.PlanDeleteItem(it.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	return commit(a, p, c.yes)
}

// itemImportCmd adds the items of a spreadsheet.
type itemImportCmd struct{}

func (*itemImportCmd) Name() string     { return "item-import" }
func (*itemImportCmd) Synopsis() string { return "add items from an xlsx spreadsheet" }
func (*itemImportCmd) Usage() string {
	return `whs item-import <file.xlsx>

  Adds the items listed in the first sheet. The header row names the columns,
  in Korean or English: 품목명 (Name), 분류 (Category), 수량 (Quantity),
  안전재고 (Safety Stock), 단가 (Price). Only the name is required.
`
}

func (*itemImportCmd) SetFlags(f *flag.FlagSet) {}

func (c *itemImportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "item-import takes exactly one file")
		return subcommands.ExitUsageError
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()
	items, err := sheet.ReadItems(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	for _, it := range items {
		if _, err := a.AddItem(it); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding %q: %v\n", it.Name, err)
			return closeApp(a, subcommands.ExitFailure)
		}
	}
	fmt.Fprintf(stdout, "Added %d item(s).\n", len(items))
	return closeApp(a, subcommands.ExitSuccess)
}
