package commands

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/yated/yated-sheets/config"
	"github.com/yated/yated-sheets/store"
	"github.com/yated/yated-sheets/ui"
)

const APP = "yated-sheets"
const VERSION = "v0.1.0"

// Options holds the global command line options.
type Options struct {
	Config string
	Debug  bool
}

// command holds the flags shared by the commands that talk to the spreadsheet. Flags left blank fall
// back to the configuration file and YATED_* environment variables.
type command struct {
	secrets   string
	folder    string
	name      string
	worksheet string
	debug     bool
}

// connect opens the spreadsheet backend. Replaced in tests.
var connect = func(ctx context.Context, cfg *config.Config) (ui.Backend, error) {
	credential, err := config.LoadSecrets(cfg.Secrets)
	if err != nil {
		return nil, err
	}

	return store.Connect(ctx, credential)
}

func (cmd *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&cmd.secrets, "secrets", cmd.secrets, "Path for the service account secrets file")
	flagset.StringVar(&cmd.folder, "folder", cmd.folder, "Google Drive folder ID")
	flagset.StringVar(&cmd.name, "name", cmd.name, "Spreadsheet name")
	flagset.StringVar(&cmd.worksheet, "worksheet", cmd.worksheet, "Worksheet title. Defaults to the first worksheet")

	return flagset
}

// configure loads the configuration file and applies the command line overrides.
func (cmd *command) configure(args []any) (*config.Config, error) {
	options := Options{
		Config: DEFAULT_CONFIG,
	}

	if len(args) > 0 {
		if opt, ok := args[0].(*Options); ok && opt != nil {
			options = *opt
		}
	}

	cfg, err := config.Load(options.Config, DEFAULT_SECRETS)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(cmd.secrets); v != "" {
		cfg.Secrets = v
	}

	if v := strings.TrimSpace(cmd.folder); v != "" {
		cfg.Folder = v
	}

	if v := strings.TrimSpace(cmd.name); v != "" {
		cfg.Name = v
	}

	if v := strings.TrimSpace(cmd.worksheet); v != "" {
		cfg.Worksheet = v
	}

	cfg.Debug = cfg.Debug || options.Debug
	cmd.debug = cfg.Debug

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cmd.debug {
		debugf("folder:%s  name:%s  worksheet:%q  secrets:%s", cfg.Folder, cfg.Name, cfg.Worksheet, cfg.Secrets)
	}

	return cfg, nil
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		fmt.Println("  Options:")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
