package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	uhppoted "github.com/uhppoted/uhppoted-lib/command"

	"github.com/yated/yated-sheets/commands"
)

var cli = []uhppoted.Command{
	&commands.ServeCmd,
	&commands.LocateCmd,
	&commands.GetCmd,
	&commands.AppendCmd,
	&commands.VersionCmd,
}

var options = commands.Options{
	Config: commands.DEFAULT_CONFIG,
	Debug:  false,
}

var help = uhppoted.NewHelp(commands.APP, cli, nil)

func main() {
	flag.StringVar(&options.Config, "config", options.Config, "Configuration file path")
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.Parse()

	cmd, err := uhppoted.Parse(cli, nil, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	if cmd == nil {
		help.Execute()
		os.Exit(1)
	}

	if err = cmd.Execute(&options); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}
