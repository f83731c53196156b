package commands

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"strings"

	"github.com/yated/yated-sheets/table"
)

var AppendCmd = Append{
	command: command{
		debug: false,
	},

	row: "",
}

type Append struct {
	command
	row string
}

func (cmd *Append) Name() string {
	return "append"
}

func (cmd *Append) Description() string {
	return "Appends a row to the spreadsheet worksheet"
}

func (cmd *Append) Usage() string {
	return "[--worksheet <title>] --row <values>"
}

func (cmd *Append) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] append [options] --row <values>\n", APP)
	fmt.Println()
	fmt.Println("  Appends a row after the last row of the worksheet. The row is a comma separated list with")
	fmt.Println("  one value for each column - quote values that contain commas. Blank values are rejected")
	fmt.Println("  before the spreadsheet is read.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    yated-sheets append --row "Nina,14,Cape Town"`)
	fmt.Println(`    yated-sheets append --worksheet Contacts --row '"Smith, Liam",15,Durban'`)
	fmt.Println()
}

func (cmd *Append) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("append")

	flagset.StringVar(&cmd.row, "row", cmd.row, "Comma separated row values e.g. 'Nina,14,Cape Town'")

	return flagset
}

func (cmd *Append) Execute(args ...any) error {
	cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.row) == "" {
		return fmt.Errorf("--row is a required option")
	}

	values, err := parseRow(cmd.row)
	if err != nil {
		return err
	}

	if err := table.Blank(values, nil, -1); err != nil {
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

	worksheet := cfg.Worksheet
	if worksheet == "" {
		worksheets, err := backend.Worksheets(ctx, id)
		if err != nil {
			return err
		} else if len(worksheets) == 0 {
			return fmt.Errorf("spreadsheet '%s' has no worksheets", cfg.Name)
		}

		worksheet = worksheets[0]
	}

	snapshot, err := backend.Read(ctx, id, worksheet)
	if err != nil {
		return err
	}

	row, err := snapshot.Validate(values)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  worksheet:%q  row:%q", id, worksheet, row)
	}

	if err := backend.Append(ctx, id, worksheet, row); err != nil {
		return err
	}

	infof("Appended row to '%s' worksheet '%s'", cfg.Name, worksheet)

	return nil
}

// parseRow splits a comma separated row using CSV quoting rules.
func parseRow(s string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(s))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	record, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid row '%s' (%v)", s, err)
	}

	return record, nil
}
