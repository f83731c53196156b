package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRow is returned (wrapped in an InvalidRowError) when a new row is rejected locally.
var ErrInvalidRow = errors.New("invalid row")

// Snapshot is the full content of a worksheet at the time it was read. Row 0 is the header row.
type Snapshot struct {
	Rows [][]string
}

// InvalidRowError lists the columns that were left blank in a submitted row.
type InvalidRowError struct {
	Missing  []string
	Expected int
	Got      int
}

func (e *InvalidRowError) Error() string {
	if e.Expected != e.Got {
		return fmt.Sprintf("expected %d values, got %d", e.Expected, e.Got)
	}

	return fmt.Sprintf("missing value for %s", strings.Join(e.Missing, ", "))
}

func (e *InvalidRowError) Unwrap() error {
	return ErrInvalidRow
}

// MakeSnapshot converts the cell values returned by the Sheets API to a Snapshot.
func MakeSnapshot(values [][]any) (*Snapshot, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("Empty sheet")
	}

	rows := make([][]string, len(values))
	for i, row := range values {
		record := make([]string, len(row))
		for j, v := range row {
			if v != nil {
				record[j] = fmt.Sprintf("%v", v)
			}
		}

		rows[i] = record
	}

	return &Snapshot{
		Rows: rows,
	}, nil
}

// Width is the number of columns in the widest row.
func (s *Snapshot) Width() int {
	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	return width
}

// Len is the number of data rows, excluding the header.
func (s *Snapshot) Len() int {
	if len(s.Rows) == 0 {
		return 0
	}

	return len(s.Rows) - 1
}

// Header returns the header row padded to the table width, with blank names replaced by col_<n> and
// duplicates suffixed with _<k>.
func (s *Snapshot) Header() []string {
	width := s.Width()
	header := make([]string, width)
	seen := map[string]int{}

	var row []string
	if len(s.Rows) > 0 {
		row = s.Rows[0]
	}

	for i := 0; i < width; i++ {
		name := ""
		if i < len(row) {
			name = clean(row[i])
		}

		if name == "" {
			name = fmt.Sprintf("col_%d", i+1)
		}

		n := seen[name]
		seen[name] = n + 1
		if n > 0 {
			name = fmt.Sprintf("%s_%d", name, n+1)
		}

		header[i] = name
	}

	return header
}

// Records returns the data rows, each right-padded with blanks to the table width.
func (s *Snapshot) Records() [][]string {
	width := s.Width()
	records := [][]string{}

	if len(s.Rows) < 2 {
		return records
	}

	for _, row := range s.Rows[1:] {
		record := make([]string, width)
		copy(record, row)
		records = append(records, record)
	}

	return records
}

// Validate checks a new row before it is appended: one value per column and no blank values, except
// in the serial column where a blank value is replaced with the next serial number. The returned slice
// holds the trimmed values.
func (s *Snapshot) Validate(values []string) ([]string, error) {
	width := s.Width()
	if len(values) != width {
		return nil, &InvalidRowError{Expected: width, Got: len(values)}
	}

	header := s.Header()
	serial := s.Serial()
	row := make([]string, width)
	missing := []string{}

	for i, v := range values {
		row[i] = clean(v)
		if row[i] == "" && i == serial {
			row[i] = s.NextSerial()
		} else if row[i] == "" {
			missing = append(missing, header[i])
		}
	}

	if len(missing) > 0 {
		return nil, &InvalidRowError{Missing: missing, Expected: width, Got: len(values)}
	}

	return row, nil
}

// Blank rejects a row with blank values without reference to the worksheet contents, so that it can
// be checked before anything is read. Columns are named from header where it is known and by position
// otherwise. The serial column (-1 for none) may be blank.
func Blank(values []string, header []string, serial int) error {
	missing := []string{}
	for i, v := range values {
		if clean(v) != "" || i == serial {
			continue
		}

		if i < len(header) {
			missing = append(missing, header[i])
		} else {
			missing = append(missing, fmt.Sprintf("column %d", i+1))
		}
	}

	if len(missing) > 0 {
		return &InvalidRowError{Missing: missing, Expected: len(values), Got: len(values)}
	}

	return nil
}

// Serial returns the index of the ID column, or -1 if the header has no column that looks like one.
// Exact names are preferred over names that merely contain an ID word.
func (s *Snapshot) Serial() int {
	header := s.Header()

	for i, h := range header {
		switch strings.ToLower(h) {
		case "id", "serial", "מזהה", "מספר מזהה", "מספר סידורי":
			return i
		}
	}

	for i, h := range header {
		for _, word := range strings.Fields(strings.ToLower(h)) {
			switch strings.Trim(word, "#.:()") {
			case "id", "serial", "מזהה":
				return i
			}
		}
	}

	return -1
}

// NextSerial returns one more than the largest integer in the serial column, or 1 if there is none.
func (s *Snapshot) NextSerial() string {
	serial := s.Serial()
	if serial < 0 {
		return ""
	}

	next := 1
	for _, record := range s.Records() {
		if n, err := strconv.Atoi(clean(record[serial])); err == nil && n >= next {
			next = n + 1
		}
	}

	return strconv.Itoa(next)
}

func clean(v string) string {
	return strings.TrimSpace(v)
}
