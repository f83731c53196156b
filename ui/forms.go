package ui

import (
	"fmt"
	"strconv"
	"strings"
)

func formString(values map[string][]string, key string) string {
	if values == nil {
		return ""
	}
	return strings.TrimSpace(first(values[key]))
}

// formRow collects the col0, col1, ... fields of the append form in column order. Values are returned
// as submitted; trimming and blank checks are left to table.Snapshot.Validate.
func formRow(values map[string][]string) []string {
	row := []string{}
	for i := 0; ; i++ {
		v, ok := values[column(i)]
		if !ok {
			break
		}
		row = append(row, first(v))
	}
	return row
}

// formSerial returns the index of the column the form marked as auto-numbered, or -1.
func formSerial(values map[string][]string) int {
	serial, err := strconv.Atoi(formString(values, "serial"))
	if err != nil {
		return -1
	}

	return serial
}

func column(i int) string {
	return fmt.Sprintf("col%d", i)
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
