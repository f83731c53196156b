// Package ui implements the browser front end: the table view, the quick filter, CSV export and the
// append form.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"sync"
	"time"

	"golang.org/x/time/rate"
	gomponents "maragu.dev/gomponents"

	"github.com/yated/yated-sheets/config"
	"github.com/yated/yated-sheets/store"
	"github.com/yated/yated-sheets/table"
)

// Backend is the subset of store.Client used by the handler.
type Backend interface {
	Locate(ctx context.Context, folder, name string) (string, error)
	Worksheets(ctx context.Context, id string) ([]string, error)
	Read(ctx context.Context, id, worksheet string) (*table.Snapshot, error)
	Append(ctx context.Context, id, worksheet string, row []string) error
}

type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Handler serves the spreadsheet UI. Pipeline runs (locate, read, append) are serialised so that at
// most one is in flight.
type Handler struct {
	Store      Backend
	Folder     string
	Name       string
	Worksheet  string
	Production bool
	Debug      bool

	// Limiter throttles appends. Nil disables throttling.
	Limiter *rate.Limiter

	mu    sync.Mutex
	ref   string
	last  *sheet
	state State
}

// sheet is the result of one locate/read pass.
type sheet struct {
	ID         string
	Worksheet  string
	Worksheets []string
	Snapshot   *table.Snapshot
}

func NewHandler(backend Backend, cfg *config.Config) *Handler {
	return &Handler{
		Store:     backend,
		Folder:    cfg.Folder,
		Name:      cfg.Name,
		Worksheet: cfg.Worksheet,
		Debug:     cfg.Debug,

		// Sheets allows 60 write requests per minute per user
		Limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// State returns whether an append is currently being submitted.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state
}

// load locates the spreadsheet (reusing the cached reference if there is one) and reads the
// requested worksheet. A failed read invalidates the cached reference. Must be called with h.mu held.
func (h *Handler) load(ctx context.Context, worksheet string) (*sheet, error) {
	s := sheet{
		Worksheet: worksheet,
	}

	if h.ref == "" {
		id, err := h.Store.Locate(ctx, h.Folder, h.Name)
		if err != nil {
			return &s, err
		}

		h.debugf("located '%s' (%s)", h.Name, id)
		h.ref = id
	}

	s.ID = h.ref

	worksheets, err := h.Store.Worksheets(ctx, s.ID)
	if err != nil {
		h.ref = ""
		return &s, err
	}

	s.Worksheets = worksheets
	if s.Worksheet == "" && len(worksheets) > 0 {
		s.Worksheet = worksheets[0]
	} else if s.Worksheet != "" && !slices.Contains(worksheets, s.Worksheet) {
		return &s, store.NoWorksheet(s.Worksheet)
	}

	snapshot, err := h.Store.Read(ctx, s.ID, s.Worksheet)
	if err != nil {
		var worksheet *store.WorksheetError
		if !errors.Is(err, store.ErrEmpty) && !errors.As(err, &worksheet) {
			h.ref = ""
		}

		return &s, err
	}

	s.Snapshot = snapshot
	h.last = &s

	return &s, nil
}

// cached returns the result of the last successful read if it was of the requested worksheet. Must be
// called with h.mu held.
func (h *Handler) cached(worksheet string) *sheet {
	s := h.last
	if s == nil || s.ID != h.ref {
		return nil
	}

	if worksheet == s.Worksheet || (worksheet == "" && len(s.Worksheets) > 0 && s.Worksheets[0] == s.Worksheet) {
		return s
	}

	return nil
}

func (h *Handler) worksheet(values map[string][]string) string {
	if v := formString(values, "worksheet"); v != "" {
		return v
	}

	return h.Worksheet
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

// describe maps an error to the HTTP status and message shown to the user.
func (h *Handler) describe(err error) (int, string) {
	var ambiguous *store.AmbiguousError
	var invalid *table.InvalidRowError
	var worksheet *store.WorksheetError

	switch {
	case errors.As(err, &ambiguous):
		return http.StatusConflict,
			fmt.Sprintf("Found %d spreadsheets named '%s' in the folder. Rename or remove the duplicates, then refresh.", len(ambiguous.IDs), h.Name)

	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity, "Row not added: " + invalid.Error() + "."

	case errors.As(err, &worksheet):
		return http.StatusNotFound,
			fmt.Sprintf("Couldn't find a worksheet named '%s' in '%s'. Pick one of the worksheets or check the configured name.", worksheet.Title, h.Name)

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound,
			fmt.Sprintf("Couldn't find a spreadsheet named '%s' in the folder. Check the name and that the folder is shared with the service account.", h.Name)

	case errors.Is(err, store.ErrPermissionDenied):
		return http.StatusForbidden, "The service account doesn't have edit access to this spreadsheet."

	case errors.Is(err, store.ErrEmpty):
		return http.StatusOK, "Sheet looks empty. Add headers in row 1 in Google Sheets, then refresh."

	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable, "Google Sheets is unavailable right now. Try again in a moment."

	default:
		return http.StatusInternalServerError, "An unexpected error occurred while loading the spreadsheet."
	}
}

func (h *Handler) debugf(format string, args ...any) {
	if h.Debug {
		log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
	}
}

func (h *Handler) infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func (h *Handler) warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
