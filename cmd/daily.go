package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/warehouse/date"
	"github.com/etnz/warehouse/renderer"
	"github.com/etnz/warehouse/sheet"
	"github.com/google/subcommands"
)

// dailyCmd reports the movements of one day.
type dailyCmd struct {
	date     string
	xlsx     string
	tsv      string
	encoding string
}

func (*dailyCmd) Name() string     { return "daily" }
func (*dailyCmd) Synopsis() string { return "report the movements of a day" }
func (*dailyCmd) Usage() string {
	return `whs daily [-d <date>] [-xlsx <file>] [-tsv <file> [-enc utf-8|euc-kr]]

  Shows the movements of the day in chronological order and the totals per
  item. The report can also be written as a workbook or a tab separated file.
`
}

func (c *dailyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "today", "Day of the report. See the user manual for supported date formats.")
	f.StringVar(&c.xlsx, "xlsx", "", "write the report to this workbook")
	f.StringVar(&c.tsv, "tsv", "", "write the movements to this file")
	f.StringVar(&c.encoding, "enc", "utf-8", "encoding of the tsv file: utf-8 or euc-kr")
}

func (c *dailyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
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
	report := renderer.NewDaily(a.Logs(), day, a.loc)

	if c.xlsx != "" {
		file, err := os.Create(c.xlsx)
		if err == nil {
			err = sheet.WriteXLSX(file, report.DailyReport)
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
	if c.tsv != "" {
		if err := writeTSV(c.tsv, report.Entries, enc); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.tsv, err)
			return closeApp(a, subcommands.ExitFailure)
		}
		fmt.Fprintf(stdout, "Wrote %s\n", c.tsv)
	}
	printMarkdown(renderer.RenderDaily(report))
	return closeApp(a, subcommands.ExitSuccess)
}
