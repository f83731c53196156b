// Package storetest implements an in-memory stand-in for the Drive and Sheets REST APIs, for use in
// tests that need a store.Client without network access or credentials.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"google.golang.org/api/option"

	"github.com/yated/yated-sheets/store"
)

// Spreadsheet is a file in the fake Drive. Files with a MimeType other than store.SPREADSHEET are
// listed by Drive queries but cannot be opened as spreadsheets.
type Spreadsheet struct {
	ID         string
	Name       string
	MimeType   string
	Folder     string
	Trashed    bool
	Worksheets []Worksheet
}

// Worksheet holds the cell values of a worksheet. An empty row models a blank row between rows of
// data.
type Worksheet struct {
	Title string
	Rows  [][]string
}

// Server is an httptest server answering the subset of the Drive v3 and Sheets v4 APIs used by
// store.Client.
type Server struct {
	URL string

	// PageSize limits the number of files returned per Drive list page. Zero returns everything in
	// one page.
	PageSize int

	// ReadOnly rejects writes with 403 Forbidden.
	ReadOnly bool

	// Fail answers every request with 500 Internal Server Error.
	Fail bool

	sync.Mutex
	server  *httptest.Server
	files   []*Spreadsheet
	queries []string
	lists   int
	appends int
}

// NewServer starts a fake server holding the given files. The caller should Close it when done.
func NewServer(files ...*Spreadsheet) *Server {
	s := &Server{
		files: files,
	}

	r := chi.NewRouter()

	r.Get("/files", s.list)
	r.Get("/v4/spreadsheets/{id}", s.spreadsheet)
	r.Get("/v4/spreadsheets/{id}/values/*", s.values)
	r.Put("/v4/spreadsheets/{id}/values/*", s.update)

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, rq *http.Request) {
		s.Lock()
		fail := s.Fail
		s.Unlock()

		if fail {
			reply(w, http.StatusInternalServerError, "backend error")
			return
		}

		r.ServeHTTP(w, rq)
	}))

	s.URL = s.server.URL

	return s
}

func (s *Server) Close() {
	s.server.Close()
}

// Connect returns a store.Client that talks to this server.
func (s *Server) Connect(ctx context.Context) (*store.Client, error) {
	return store.New(ctx,
		option.WithEndpoint(s.URL+"/"),
		option.WithHTTPClient(s.server.Client()))
}

func (s *Server) SetPageSize(n int) {
	s.Lock()
	defer s.Unlock()

	s.PageSize = n
}

func (s *Server) SetFail(fail bool) {
	s.Lock()
	defer s.Unlock()

	s.Fail = fail
}

func (s *Server) SetReadOnly(readonly bool) {
	s.Lock()
	defer s.Unlock()

	s.ReadOnly = readonly
}

// Lists returns the number of Drive list requests received.
func (s *Server) Lists() int {
	s.Lock()
	defer s.Unlock()

	return s.lists
}

// Queries returns the Drive search queries received, in order.
func (s *Server) Queries() []string {
	s.Lock()
	defer s.Unlock()

	return append([]string{}, s.queries...)
}

// Appends returns the number of row writes that were applied.
func (s *Server) Appends() int {
	s.Lock()
	defer s.Unlock()

	return s.appends
}

// Rows returns a copy of the current contents of a worksheet.
func (s *Server) Rows(id, title string) [][]string {
	s.Lock()
	defer s.Unlock()

	if ws := s.worksheet(id, title); ws != nil {
		rows := make([][]string, len(ws.Rows))
		for i, row := range ws.Rows {
			rows[i] = append([]string{}, row...)
		}

		return rows
	}

	return nil
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	s.lists++

	q := r.URL.Query().Get("q")
	s.queries = append(s.queries, q)

	folder := parent(q)
	name := clause(q, "name")
	mimeType := clause(q, "mimeType")
	matched := []map[string]string{}

	// Drive compares names case-insensitively
	for _, f := range s.files {
		if f.Folder == folder && !f.Trashed && strings.EqualFold(f.Name, name) && f.MimeType == mimeType {
			matched = append(matched, map[string]string{
				"id":       f.ID,
				"name":     f.Name,
				"mimeType": f.MimeType,
			})
		}
	}

	start, _ := strconv.Atoi(r.URL.Query().Get("pageToken"))
	if start > len(matched) {
		start = len(matched)
	}

	end := len(matched)
	if s.PageSize > 0 && start+s.PageSize < end {
		end = start + s.PageSize
	}

	response := map[string]any{
		"files": matched[start:end],
	}

	if end < len(matched) {
		response["nextPageToken"] = strconv.Itoa(end)
	}

	write(w, response)
}

func (s *Server) spreadsheet(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	f := s.find(chi.URLParam(r, "id"))
	if f == nil {
		reply(w, http.StatusNotFound, "Requested entity was not found.")
		return
	}

	sheets := []any{}
	for i, ws := range f.Worksheets {
		sheets = append(sheets, map[string]any{
			"properties": map[string]any{
				"sheetId": i,
				"index":   i,
				"title":   ws.Title,
			},
		})
	}

	write(w, map[string]any{
		"spreadsheetId": f.ID,
		"sheets":        sheets,
	})
}

func (s *Server) values(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	id := chi.URLParam(r, "id")
	rng, err := valuesRange(r)
	if err != nil {
		reply(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.find(id) == nil {
		reply(w, http.StatusNotFound, "Requested entity was not found.")
		return
	}

	ws := s.worksheet(id, title(rng))
	if ws == nil {
		reply(w, http.StatusBadRequest, fmt.Sprintf("Unable to parse range: %s", rng))
		return
	}

	response := map[string]any{
		"range":          rng,
		"majorDimension": "ROWS",
	}

	// The Sheets API omits trailing empty cells and rows
	values := [][]string{}
	for _, row := range ws.Rows {
		end := len(row)
		for end > 0 && row[end-1] == "" {
			end--
		}

		values = append(values, row[:end])
	}

	for len(values) > 0 && len(values[len(values)-1]) == 0 {
		values = values[:len(values)-1]
	}

	if len(values) > 0 {
		response["values"] = values
	}

	write(w, response)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	s.Lock()
	defer s.Unlock()

	id := chi.URLParam(r, "id")
	rng, err := valuesRange(r)
	if err != nil {
		reply(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.find(id) == nil {
		reply(w, http.StatusNotFound, "Requested entity was not found.")
		return
	}

	if s.ReadOnly {
		reply(w, http.StatusForbidden, "The caller does not have permission")
		return
	}

	ws := s.worksheet(id, title(rng))
	start := firstRow(rng)
	if ws == nil || start < 1 {
		reply(w, http.StatusBadRequest, fmt.Sprintf("Unable to parse range: %s", rng))
		return
	}

	var body struct {
		Values [][]any `json:"values"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		reply(w, http.StatusBadRequest, err.Error())
		return
	}

	for k, v := range body.Values {
		ix := start - 1 + k
		for len(ws.Rows) <= ix {
			ws.Rows = append(ws.Rows, []string{})
		}

		row := ws.Rows[ix]
		for len(row) < len(v) {
			row = append(row, "")
		}

		for i, cell := range v {
			if cell != nil {
				row[i] = fmt.Sprintf("%v", cell)
			}
		}

		ws.Rows[ix] = row
	}

	s.appends++

	write(w, map[string]any{
		"spreadsheetId": id,
		"updatedRange":  rng,
		"updatedRows":   len(body.Values),
	})
}

func (s *Server) find(id string) *Spreadsheet {
	for _, f := range s.files {
		if f.ID == id && f.MimeType == store.SPREADSHEET {
			return f
		}
	}

	return nil
}

func (s *Server) worksheet(id, title string) *Worksheet {
	if f := s.find(id); f != nil {
		for i := range f.Worksheets {
			if f.Worksheets[i].Title == title {
				return &f.Worksheets[i]
			}
		}
	}

	return nil
}

// valuesRange extracts the A1 range from the escaped request path, so that titles containing '/'
// survive routing.
func valuesRange(r *http.Request) (string, error) {
	path := r.URL.EscapedPath()
	ix := strings.Index(path, "/values/")
	if ix < 0 {
		return "", fmt.Errorf("missing range")
	}

	return url.PathUnescape(path[ix+len("/values/"):])
}

// title returns the worksheet title from an A1 range such as 'Sheet 1'!A1 or Sheet1.
func title(rng string) string {
	if strings.HasPrefix(rng, "'") {
		var b strings.Builder
		for i := 1; i < len(rng); i++ {
			if rng[i] == '\'' {
				if i+1 < len(rng) && rng[i+1] == '\'' {
					b.WriteByte('\'')
					i++
					continue
				}

				break
			}

			b.WriteByte(rng[i])
		}

		return b.String()
	}

	if ix := strings.Index(rng, "!"); ix >= 0 {
		return rng[:ix]
	}

	return rng
}

// firstRow returns the row number of the first cell of an A1 range such as 'Sheet 1'!A5:C5, or 0 if
// the range does not have one.
func firstRow(rng string) int {
	cells := rng[strings.LastIndex(rng, "!")+1:]
	if ix := strings.Index(cells, ":"); ix >= 0 {
		cells = cells[:ix]
	}

	row, err := strconv.Atoi(strings.TrimLeft(cells, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	if err != nil {
		return 0
	}

	return row
}

// parent extracts the folder ID from a "'<folder>' in parents" Drive query clause.
func parent(q string) string {
	if !strings.HasPrefix(q, "'") || !strings.Contains(q, "' in parents") {
		return ""
	}

	return literal(q[1:])
}

// clause extracts the value compared in a "<field> = '<value>'" Drive query clause.
func clause(q, field string) string {
	prefix := field + " = '"
	ix := strings.Index(q, prefix)
	if ix < 0 {
		return ""
	}

	return literal(q[ix+len(prefix):])
}

// literal unescapes a quoted query string up to its closing quote.
func literal(q string) string {
	var b strings.Builder
	for i := 0; i < len(q); i++ {
		switch {
		case q[i] == '\\' && i+1 < len(q):
			i++
		case q[i] == '\'':
			return b.String()
		}

		b.WriteByte(q[i])
	}

	return b.String()
}

func write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func reply(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
