package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/warehouse/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `whs assist [<question>]

  Starts a conversation with Gemini about the inventory. The optional question
  is asked first. Type 'bye' to exit. The assistant only reads the inventory.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := strings.Join(f.Args(), " ")

	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	// the conversation runs on a copy, the inventory can be released
	items, logs := a.Items(), a.Logs()
	if status := closeApp(a, subcommands.ExitSuccess); status != subcommands.ExitSuccess {
		return status
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	chat, err := agent.StartChat(ctx, client, *model, items, logs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error starting the conversation:", err)
		return subcommands.ExitFailure
	}

	if err := agent.New(stdout, stdin).Run(ctx, chat, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
