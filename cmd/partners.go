package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/warehouse"
	"github.com/google/subcommands"
)

// partnersCmd lists the partner directory.
type partnersCmd struct{}

func (*partnersCmd) Name() string     { return "partners" }
func (*partnersCmd) Synopsis() string { return "list suppliers and customers" }
func (*partnersCmd) Usage() string {
	return `whs partners

  Lists the partners as JSON.
`
}

func (*partnersCmd) SetFlags(f *flag.FlagSet) {}

func (c *partnersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	partners := a.Partners()
	if partners == nil {
		partners = []warehouse.Partner{}
	}
	if err := printJSON(partners); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	return closeApp(a, subcommands.ExitSuccess)
}

// partnerFlags are the editable fields of a partner.
type partnerFlags struct {
	id, name, contact, role, address, note string
}

func (c *partnerFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "partner name")
	f.StringVar(&c.contact, "contact", "", "phone number or email")
	f.StringVar(&c.role, "type", string(warehouse.Both), "SUPPLIER, CUSTOMER or BOTH")
	f.StringVar(&c.address, "address", "", "address")
	f.StringVar(&c.note, "note", "", "free text")
}

// partnerAddCmd adds a partner.
type partnerAddCmd struct{ partnerFlags }

func (*partnerAddCmd) Name() string     { return "partner-add" }
func (*partnerAddCmd) Synopsis() string { return "add a supplier or a customer" }
func (*partnerAddCmd) Usage() string {
	return `whs partner-add -name <name> [-id <id>] [-type SUPPLIER|CUSTOMER|BOTH] [-contact <contact>] [-address <address>] [-note <note>]
`
}

func (c *partnerAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "partner ID, generated when empty")
	c.partnerFlags.set(f)
}

func (c *partnerAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	role, err := warehouse.ParseRole(c.role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	p, err := a.AddPartner(warehouse.Partner{
		ID:      c.id,
		Name:    c.name,
		Contact: c.contact,
		Role:    role,
		Address: c.address,
		Note:    c.note,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding partner: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	fmt.Fprintf(stdout, "Added %s %q (%s)\n", p.ID, p.Name, p.Role)
	return closeApp(a, subcommands.ExitSuccess)
}

// partnerEditCmd changes the fields of a partner given on the command line.
type partnerEditCmd struct{ partnerFlags }

func (*partnerEditCmd) Name() string     { return "partner-edit" }
func (*partnerEditCmd) Synopsis() string { return "edit a partner" }
func (*partnerEditCmd) Usage() string {
	return `whs partner-edit [-name <name>] [-type <type>] [-contact <contact>] [-address <address>] [-note <note>] <partner>

  Changes only the fields given. Past log entries keep the former name.
`
}

func (c *partnerEditCmd) SetFlags(f *flag.FlagSet) { c.partnerFlags.set(f) }

func (c *partnerEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "partner-edit takes exactly one partner")
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	id, err := a.partner(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	p, _ := a.State().Partner(id)

	var rerr error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			p.Name = c.name
		case "contact":
			p.Contact = c.contact
		case "type":
			p.Role, rerr = warehouse.ParseRole(c.role)
		case "address":
			p.Address = c.address
		case "note":
			p.Note = c.note
		}
	})
	if rerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", rerr)
		return closeApp(a, subcommands.ExitUsageError)
	}
	if p, err = a.UpdatePartner(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating partner: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	fmt.Fprintf(stdout, "Updated %s %q\n", p.ID, p.Name)
	return closeApp(a, subcommands.ExitSuccess)
}

// partnerDeleteCmd removes a partner from the directory.
type partnerDeleteCmd struct{}

func (*partnerDeleteCmd) Name() string     { return "partner-delete" }
func (*partnerDeleteCmd) Synopsis() string { return "delete a partner" }
func (*partnerDeleteCmd) Usage() string {
	return `whs partner-delete <partner>

  Removes the partner. Units and log entries referring to it are unchanged.
`
}

func (*partnerDeleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *partnerDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "partner-delete takes exactly one partner")
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	id, err := a.partner(f.Arg(0))
	if err == nil {
		err = a.DeletePartner(id)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	fmt.Fprintf(stdout, "Deleted %s\n", id)
	return closeApp(a, subcommands.ExitSuccess)
}
