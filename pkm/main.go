package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"

	"github.com/ekurt/pkm/cmd"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(subcommands.HelpCommand(), "help")
	commander.Register(subcommands.FlagsCommand(), "help")
	commander.Register(subcommands.CommandsCommand(), "help")
	cmd.Register(commander)

	// Shell completion: running under COMP_LINE prints candidates and exits.
	completer := &complete.Command{Sub: map[string]*complete.Command{}}
	for _, name := range cmd.Names() {
		completer.Sub[name] = &complete.Command{}
	}
	completer.Complete(path.Base(os.Args[0]))

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
