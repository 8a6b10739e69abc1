// Package cmd implements the whs command line application to manage the
// warehouse inventory.
package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/agent"
	"github.com/etnz/warehouse/renderer"
	"github.com/etnz/warehouse/storage"
	"github.com/google/subcommands"
)

// Environment variables providing the defaults of the global flags. They are
// also passed to extensions.
const (
	EnvDataDir  = "WHS_DATA_DIR"
	EnvStorage  = "WHS_STORAGE"
	EnvCurrency = "WHS_CURRENCY"
	EnvModel    = "WHS_MODEL"
	EnvTimezone = "WHS_TIMEZONE"
	EnvVerbose  = "WHS_VERBOSE"
)

func env(name, value string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return value
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dataDir     = flag.String("data", env(EnvDataDir, ".warehouse"), "Folder holding the inventory data")
	storageKind = flag.String("storage", env(EnvStorage, "dir"), "Storage of the inventory data: dir, sqlite or memory")
	currency    = flag.String("currency", env(EnvCurrency, warehouse.DefaultCurrency), "Currency of item prices")
	model       = flag.String("model", env(EnvModel, agent.DefaultModel), "Gemini model used by summary and assist")
	timezone    = flag.String("tz", env(EnvTimezone, "Local"), "Time zone of days in reports")
	raw         = flag.Bool("raw", false, "Print markdown as is instead of rendering it for the terminal")
	verbose     = flag.Bool("v", env(EnvVerbose, "false") == "true", "Log operational messages")
)

// stdout receives the output of commands.
var stdout io.Writer = os.Stdout

// stdin provides the answers to confirmations.
var stdin io.Reader = os.Stdin

// command is a subcommand and the group it is listed in.
type command struct {
	subcommands.Command
	group string
}

// commands returns every subcommand of the application.
func commands() []command {
	return []command{
		{&statsCmd{}, "inventory"},
		{&itemsCmd{}, "inventory"},
		{&itemAddCmd{}, "inventory"},
		{&itemEditCmd{}, "inventory"},
		{&itemDeleteCmd{}, "inventory"},
		{&itemImportCmd{}, "inventory"},

		{&partnersCmd{}, "partners"},
		{&partnerAddCmd{}, "partners"},
		{&partnerEditCmd{}, "partners"},
		{&partnerDeleteCmd{}, "partners"},

		{&assetsCmd{}, "serialized units"},
		{&registerCmd{}, "serialized units"},
		{&deleteAssetCmd{}, "serialized units"},

		{&txCmd{dir: warehouse.In}, "movements"},
		{&txCmd{dir: warehouse.Out}, "movements"},
		{&historyCmd{}, "movements"},
		{&dailyCmd{}, "movements"},

		{&exportCmd{}, "backup"},
		{&importCmd{}, "backup"},
		{&queryCmd{}, "backup"},

		{&summaryCmd{}, "assistant"},
		{&assistCmd{}, "assistant"},

		{&serveCmd{}, "server"},
		{&topicCmd{}, "help"},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range commands() {
		c.Register(cmd.Command, cmd.group)
	}
}

// Known reports whether name is a subcommand of the application.
func Known(name string) bool {
	for _, c := range commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// location returns the time zone of days.
func location() (*time.Location, error) {
	if *timezone == "" || *timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(*timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", *timezone, err)
	}
	return loc, nil
}

// app is an open inventory. Every commit is saved.
type app struct {
	*warehouse.Store
	persister *storage.Persister
	loc       *time.Location
}

// openApp loads the inventory from the configured storage.
func openApp(ctx context.Context) (*app, error) {
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	loc, err := location()
	if err != nil {
		return nil, err
	}
	where := *dataDir
	if *storageKind == "sqlite" {
		if err := os.MkdirAll(*dataDir, 0755); err != nil {
			return nil, err
		}
		where = filepath.Join(*dataDir, "warehouse.db")
	}
	slots, err := storage.Open(*storageKind, where)
	if err != nil {
		return nil, err
	}
	st, err := storage.Load(ctx, slots)
	if err != nil {
		slots.Close()
		return nil, err
	}
	a := &app{
		Store:     warehouse.NewStore(st),
		persister: storage.NewPersister(slots),
		loc:       loc,
	}
	a.Subscribe(a.persister.Observe)
	return a, nil
}

// Close waits for the last commit to be saved and closes the storage.
func (a *app) Close() error { return a.persister.Close() }

// item finds an item by ID, or by name ignoring case.
func (a *app) item(ref string) (warehouse.Item, error) {
	if it, ok := a.Item(ref); ok {
		return it, nil
	}
	var found []warehouse.Item
	for _, it := range a.Items() {
		if strings.EqualFold(it.Name, strings.TrimSpace(ref)) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return warehouse.Item{}, fmt.Errorf("%w %q", warehouse.ErrUnknownItem, ref)
	default:
		return warehouse.Item{}, fmt.Errorf("several items are named %q, use the item ID", ref)
	}
}

// partner finds a partner by ID, or by name ignoring case. An empty
// reference is no partner.
func (a *app) partner(ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if p, ok := a.State().Partner(ref); ok {
		return p.ID, nil
	}
	for _, p := range a.Partners() {
		if strings.EqualFold(p.Name, strings.TrimSpace(ref)) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("%w %q", warehouse.ErrUnknownPartner, ref)
}

// open is the common prologue of commands reading or changing the inventory.
// It reports the failure and returns nil.
func open(ctx context.Context) *app {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the inventory in %q: %v\n", *dataDir, err)
		return nil
	}
	return a
}

// closeApp saves and closes the inventory, turning a save failure into a failure status.
func closeApp(a *app, status subcommands.ExitStatus) subcommands.ExitStatus {
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving the inventory: %v\n", err)
		return subcommands.ExitFailure
	}
	return status
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// printJSON writes v as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirm shows the plan and asks the user to agree, unless yes is already set.
func confirm(p warehouse.Plan, yes bool) bool {
	printMarkdown(renderer.RenderPlan(p))
	if yes {
		return true
	}
	fmt.Fprint(stdout, "Proceed? [y/N] ")
	line, _ := bufio.NewReader(stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	fmt.Fprintln(stdout, "Cancelled.")
	return false
}

// commit confirms and applies a plan.
func commit(a *app, p warehouse.Plan, yes bool) subcommands.ExitStatus {
	if !confirm(p, yes) {
		return closeApp(a, subcommands.ExitSuccess)
	}
	e, err := a.Commit(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return closeApp(a, subcommands.ExitFailure)
	}
	if e != nil {
		fmt.Fprintf(stdout, "Recorded %s %s %q x%d (%s)\n", e.ID, e.Type, e.ItemName, e.Quantity, e.Note)
	} else {
		fmt.Fprintln(stdout, "Done.")
	}
	return closeApp(a, subcommands.ExitSuccess)
}
