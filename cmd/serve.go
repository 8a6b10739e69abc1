package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/etnz/warehouse/agent"
	"github.com/etnz/warehouse/server"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// serveCmd serves the inventory over HTTP.
type serveCmd struct {
	addr    string
	timeout time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the inventory as a JSON API" }
func (*serveCmd) Usage() string {
	return `whs serve [-addr <host:port>] [-timeout <duration>]

  Serves the inventory under /api/v1 until interrupted. Every change is saved
  like the other commands do. See 'whs topic server' for the routes.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "localhost:8080", "listening address")
	f.DurationVar(&c.timeout, "timeout", time.Minute, "limit of an AI summary request")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a := open(ctx)
	if a == nil {
		return subcommands.ExitFailure
	}
	// the server logs its requests
	log.SetOutput(os.Stderr)

	cfg := server.Config{Currency: *currency, Location: a.loc, Timeout: c.timeout}
	if client, err := genai.NewClient(ctx, nil); err != nil {
		log.Printf("AI summary disabled: %v", err)
	} else {
		cfg.Analyst = agent.NewAnalyst(client.Models, *model)
	}
	srv := server.New(a.Store, cfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.Listen(c.addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error serving on %s: %v\n", c.addr, err)
		return closeApp(a, subcommands.ExitFailure)
	}
	return closeApp(a, subcommands.ExitSuccess)
}
