package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// MakeTSV writes the header and records of a snapshot as tab separated values.
func MakeTSV(f io.Writer, s *Snapshot) error {
	return write(f, s, '\t')
}

// MakeCSV writes the header and records of a snapshot as comma separated values.
func MakeCSV(f io.Writer, s *Snapshot) error {
	return write(f, s, ',')
}

func write(f io.Writer, s *Snapshot, comma rune) error {
	if s == nil || len(s.Rows) == 0 {
		return fmt.Errorf("Empty sheet")
	}

	header := s.Header()
	if len(header) == 0 {
		return fmt.Errorf("Missing/invalid header row")
	}

	w := csv.NewWriter(f)
	w.Comma = comma

	w.Write(header)
	for _, record := range s.Records() {
		w.Write(record)
	}

	w.Flush()

	return w.Error()
}
