package commands

import (
	"context"
	"flag"
	"fmt"
)

var LocateCmd = Locate{}

type Locate struct {
	command
}

func (cmd *Locate) Name() string {
	return "locate"
}

func (cmd *Locate) Description() string {
	return "Prints the ID of the spreadsheet in the configured Google Drive folder"
}

func (cmd *Locate) Usage() string {
	return "[--folder <ID>] [--name <name>]"
}

func (cmd *Locate) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] locate [options]\n", APP)
	fmt.Println()
	fmt.Println("  Finds the spreadsheet with the configured name in the configured Google Drive folder")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    yated-sheets locate --folder 1AbCdEfGhIjKlMnOpQrStUvWxYz --name hi`)
	fmt.Println()
}

func (cmd *Locate) FlagSet() *flag.FlagSet {
	return cmd.flagset("locate")
}

func (cmd *Locate) Execute(args ...any) error {
	cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	backend, err := connect(ctx, cfg)
	if err != nil {
		return err
	}

	id, err := backend.Locate(ctx, cfg.Folder, cfg.Name)
	if err != nil {
		return err
	}

	fmt.Println(id)

	return nil
}
