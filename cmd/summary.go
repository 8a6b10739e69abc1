package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/warehouse/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// summaryCmd asks the model for an analysis of the inventory.
type summaryCmd struct {
	timeout time.Duration
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "AI analysis of the inventory" }
func (*summaryCmd) Usage() string {
	return `whs summary [-timeout <duration>]

  Sends the current stock and the latest movements to Gemini and prints its
  analysis: overall status, items to watch and suggestions. The API key is read
  from GEMINI_API_KEY or GOOGLE_API_KEY.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.timeout, "timeout", time.Minute, "limit of the request")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return closeApp(a, subcommands.ExitFailure)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	analyst := agent.NewAnalyst(client.Models, *model)
	printMarkdown(analyst.Analyze(ctx, a.Items(), a.Logs()) + "\n")
	return closeApp(a, subcommands.ExitSuccess)
}
