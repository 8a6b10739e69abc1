package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/warehouse"
	"github.com/etnz/warehouse/date"
	"github.com/etnz/warehouse/renderer"
	"github.com/etnz/warehouse/sheet"
	"github.com/google/subcommands"
)

// historyCmd shows the log, grouped by day.
type historyCmd struct {
	query    string
	date     string
	period   string
	from, to string
	tsv      string
	encoding string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the movements grouped by day" }
func (*historyCmd) Usage() string {
	return `whs history [-q <term>] [-d <date> -p <period> | -from <date> -to <date>] [-tsv <file> [-enc utf-8|euc-kr]]

  Shows the log entries, newest day first, with the inbound and outbound totals
  of each day. The term is matched against the item name, the partner name,
  the signal number and the note. With -tsv the entries are also written to a
  tab separated file.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "only entries containing the term")
	f.StringVar(&c.date, "d", "", "a date in the period, with -p")
	f.StringVar(&c.period, "p", "", "period containing -d: day, week, month or year")
	f.StringVar(&c.from, "from", "", "first day")
	f.StringVar(&c.to, "to", "", "last day")
	f.StringVar(&c.tsv, "tsv", "", "write the entries to this file")
	f.StringVar(&c.encoding, "enc", "utf-8", "encoding of the file: utf-8 or euc-kr")
}

// dateRange reads the range of days selected by the flags.
func (c *historyCmd) dateRange() (date.Range, error) {
	var r date.Range
	var err error
	if c.period != "" {
		period, err := date.ParsePeriod(c.period)
		if err != nil {
			return r, err
		}
		on := date.Today()
		if c.date != "" {
			if on, err = date.Parse(c.date); err != nil {
				return r, err
			}
		}
		return date.NewRange(on, period), nil
	}
	if c.date != "" {
		return r, fmt.Errorf("-d requires -p")
	}
	if c.from != "" {
		if r.From, err = date.Parse(c.from); err != nil {
			return r, err
		}
	}
	if c.to != "" {
		if r.To, err = date.Parse(c.to); err != nil {
			return r, err
		}
	}
	return r, nil
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.dateRange()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	enc, err := sheet.ParseEncoding(c.encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}

	if c.tsv != "" {
		logs := warehouse.FilterLogs(warehouse.SearchLogs(a.Logs(), c.query), r, a.loc)
		if err := writeTSV(c.tsv, logs, enc); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.tsv, err)
			return closeApp(a, subcommands.ExitFailure)
		}
		fmt.Fprintf(stdout, "Wrote %d entries to %s\n", len(logs), c.tsv)
	}
	printMarkdown(renderer.RenderHistory(renderer.NewHistory(a.Logs(), c.query, r, a.loc)))
	return closeApp(a, subcommands.ExitSuccess)
}

// writeTSV writes entries to a new tab separated file.
func writeTSV(name string, entries []warehouse.LogEntry, enc sheet.Encoding) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := sheet.WriteTSV(f, entries, enc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
