// Command whs manages a warehouse inventory: bulk stock and serialized units,
// their movements in and out, reports and backups.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/warehouse/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Complete()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !cmd.Known(name) && !isBuiltin(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func isBuiltin(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	return false
}
