package store

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

var (
	ErrNotFound         = errors.New("spreadsheet not found")
	ErrAmbiguous        = errors.New("more than one matching spreadsheet")
	ErrUnavailable      = errors.New("spreadsheet service unavailable")
	ErrPermissionDenied = errors.New("permission denied")
	ErrEmpty            = errors.New("spreadsheet has no data")
)

// AmbiguousError is returned by Locate when more than one spreadsheet in the folder has the
// requested name.
type AmbiguousError struct {
	Name string
	IDs  []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d spreadsheets named '%s' (%s)", len(e.IDs), e.Name, strings.Join(e.IDs, ", "))
}

func (e *AmbiguousError) Unwrap() error {
	return ErrAmbiguous
}

// WorksheetError is returned when a spreadsheet has no worksheet with the requested title. It wraps
// ErrNotFound.
type WorksheetError struct {
	Title string
	err   error
}

func (e *WorksheetError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("no worksheet named '%s' (%v)", e.Title, e.err)
	}

	return fmt.Sprintf("no worksheet named '%s'", e.Title)
}

func (e *WorksheetError) Unwrap() []error {
	if e.err != nil {
		return []error{ErrNotFound, e.err}
	}

	return []error{ErrNotFound}
}

// NoWorksheet returns a WorksheetError for the title.
func NoWorksheet(title string) error {
	return &WorksheetError{Title: title}
}

type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	return fmt.Sprintf("%v (%v)", e.kind, e.err)
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.err}
}

func wrap(kind error, err error) error {
	return &kindError{kind: kind, err: err}
}

func status(err error) int {
	var apierr *googleapi.Error
	if errors.As(err, &apierr) {
		return apierr.Code
	}

	return 0
}

func unavailable(err error) error {
	if status(err) == http.StatusNotFound {
		return wrap(ErrNotFound, err)
	}

	return wrap(ErrUnavailable, err)
}

// missing maps a failed request on a worksheet range. Sheets answers 400 "Unable to parse range" for a
// worksheet title that does not exist.
func missing(err error, title string) error {
	if status(err) == http.StatusBadRequest {
		return &WorksheetError{Title: title, err: err}
	}

	return unavailable(err)
}
