package ui

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/yated/yated-sheets/store"
	"github.com/yated/yated-sheets/table"
)

// Index locates and reads the spreadsheet and renders it with the append form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.load(r.Context(), h.worksheet(r.URL.Query()))

	v := view{
		Name:  h.Name,
		Sheet: s,
		CSRF:  csrfFieldProvider(r),
	}

	if err != nil {
		status, message := h.describe(err)
		if errors.Is(err, store.ErrEmpty) {
			v.Info = message
		} else {
			h.warnf("%v", err)
			v.Error = message
		}

		renderHTML(w, status, sheetPage(v))
		return
	}

	if formString(r.URL.Query(), "added") != "" {
		v.Success = "Row added."
	}

	renderHTML(w, http.StatusOK, sheetPage(v))
}

// AppendRow validates the submitted row against the current header and appends it. On success the
// browser is redirected back to the table, which re-reads the spreadsheet.
func (h *Handler) AppendRow(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderHTML(w, http.StatusBadRequest, errorPage("Invalid Request", "Unable to parse form."))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.state = Submitting
	defer func() {
		h.state = Idle
	}()

	values := formRow(r.Form)
	worksheet := h.worksheet(r.Form)

	// blank fields are rejected before anything is sent to Google
	if err := table.Blank(values, h.header(worksheet), formSerial(r.Form)); err != nil {
		h.reject(w, r, h.cached(worksheet), values, err)
		return
	}

	s, err := h.load(r.Context(), worksheet)
	if err == nil {
		var row []string
		if row, err = s.Snapshot.Validate(values); err == nil {
			if h.Limiter != nil && !h.Limiter.Allow() {
				h.warnf("append to '%s' throttled", h.Name)
				w.Header().Set("Retry-After", "1")
				renderHTML(w, http.StatusTooManyRequests, errorPage("Too Many Requests", "Rows are being added too quickly. Wait a moment and try again."))
				return
			}

			if err = h.Store.Append(r.Context(), s.ID, s.Worksheet, row); err != nil {
				h.ref = ""
			} else {
				h.infof("appended row to '%s' worksheet '%s'", h.Name, s.Worksheet)

				q := url.Values{}
				q.Set("worksheet", s.Worksheet)
				q.Set("added", "1")

				http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
				return
			}
		}
	}

	h.reject(w, r, s, values, err)
}

// reject re-renders the append form with the submitted values and the reason the row was not added.
// Without a sheet to render the form from, it renders a plain error page.
func (h *Handler) reject(w http.ResponseWriter, r *http.Request, s *sheet, values []string, err error) {
	status, message := h.describe(err)
	if status == http.StatusOK {
		status = http.StatusUnprocessableEntity
	}

	h.warnf("append to '%s' failed (%v)", h.Name, err)

	if s == nil {
		renderHTML(w, status, errorPage("Row Not Added", message))
		return
	}

	renderHTML(w, status, sheetPage(view{
		Name:   h.Name,
		Sheet:  s,
		Values: values,
		Error:  message,
		CSRF:   csrfFieldProvider(r),
	}))
}

// header returns the column names of the worksheet as last read, if there is one.
func (h *Handler) header(worksheet string) []string {
	if s := h.cached(worksheet); s != nil {
		return s.Snapshot.Header()
	}

	return nil
}

// Export downloads the current worksheet as CSV, with a UTF-8 byte order mark so that it opens
// cleanly in Excel.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.load(r.Context(), h.worksheet(r.URL.Query()))
	if err != nil {
		status, message := h.describe(err)
		if status == http.StatusOK {
			status = http.StatusNotFound
		}

		renderHTML(w, status, errorPage("Export Failed", message))
		return
	}

	var b bytes.Buffer

	b.WriteString("\ufeff")
	if err := table.MakeCSV(&b, s.Snapshot); err != nil {
		h.warnf("%v", err)
		renderHTML(w, http.StatusInternalServerError, errorPage("Export Failed", err.Error()))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename(h.Name, s.Worksheet)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Bytes())
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func filename(name, worksheet string) string {
	base := name
	if worksheet != "" {
		base += "-" + worksheet
	}

	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, base)

	return base + ".csv"
}
