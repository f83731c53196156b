package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yated/yated-sheets/ui"
)

var ServeCmd = Serve{
	command: command{
		secrets: "",
		debug:   false,
	},

	listen: "",
}

type Serve struct {
	command
	listen string
}

func (cmd *Serve) Name() string {
	return "serve"
}

func (cmd *Serve) Description() string {
	return "Serves the spreadsheet table view and append form"
}

func (cmd *Serve) Usage() string {
	return "[--listen <address>] [--folder <ID>] [--name <name>]"
}

func (cmd *Serve) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] serve [options]\n", APP)
	fmt.Println()
	fmt.Println("  Runs the web UI for viewing the spreadsheet and appending rows to it")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    yated-sheets serve --folder 1AbCdEfGhIjKlMnOpQrStUvWxYz --name hi`)
	fmt.Println(`    yated-sheets --debug --config sheets.toml serve --listen 0.0.0.0:8080`)
	fmt.Println()
}

func (cmd *Serve) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("serve")

	flagset.StringVar(&cmd.listen, "listen", cmd.listen, "HTTP listen address e.g. 127.0.0.1:8080")

	return flagset
}

func (cmd *Serve) Execute(args ...any) error {
	cfg, err := cmd.configure(args)
	if err != nil {
		return err
	}

	if v := strings.TrimSpace(cmd.listen); v != "" {
		cfg.Listen = v
	}

	backend, err := connect(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("unable to connect to Google Drive/Sheets (%v)", err)
	}

	h := ui.NewHandler(backend, cfg)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           ui.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		infof("listening on %s", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	// ... CTRL-C/SIGTERM or server failure
	g.Go(func() error {
		<-gctx.Done()
		infof("shutting down")

		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdown)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("HTTP server error (%v)", err)
	}

	return nil
}
