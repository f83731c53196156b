package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yated/yated-sheets/table"
)

var GetCmd = Get{
	command: command{
		debug: false,
	},

	file: time.Now().Format("2006-01-02T150405.tsv"),
}

type Get struct {
	command
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves the spreadsheet worksheet and stores it to a local TSV file"
}

func (cmd *Get) Usage() string {
	return "[--worksheet <title>] --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] get [options] --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads the spreadsheet worksheet to a TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    yated-sheets --debug get --worksheet "Contacts" --file "contacts.tsv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to '<yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
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

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  worksheet:%q", id, cfg.Worksheet)
	}

	snapshot, err := backend.Read(ctx, id, cfg.Worksheet)
	if err != nil {
		return fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	tmp, err := os.CreateTemp(os.TempDir(), "yated-sheets")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := table.MakeTSV(tmp, snapshot); err != nil {
		return fmt.Errorf("error creating TSV file (%v)", err)
	}

	tmp.Close()

	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), cmd.file); err != nil {
		return err
	}

	infof("Retrieved %d rows to file %s", snapshot.Len(), cmd.file)

	return nil
}
