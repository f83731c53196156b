package table

import (
	"strings"
	"testing"
)

func TestMakeTSV(t *testing.T) {
	expected := `Name	Age	City
Nina	12	Ofakim
Liam	14	Hazor
`

	var f strings.Builder
	var data = Snapshot{
		Rows: [][]string{
			{"Name", "Age", "City"},
			{"Nina", "12", "Ofakim"},
			{"Liam", "14", "Hazor"},
		},
	}

	err := MakeTSV(&f, &data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestMakeTSVWithShortRows(t *testing.T) {
	expected := "Name\tAge\tCity\nNina\t\t\nLiam\t14\t\n"

	var f strings.Builder
	var data = Snapshot{
		Rows: [][]string{
			{"Name", "Age", "City"},
			{"Nina"},
			{"Liam", "14"},
		},
	}

	err := MakeTSV(&f, &data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %q\n   got:      %q\n", expected, f.String())
	}
}

func TestMakeCSV(t *testing.T) {
	expected := `Name,Notes
Nina,"Monday, Tuesday"
`

	var f strings.Builder
	var data = Snapshot{
		Rows: [][]string{
			{"Name", "Notes"},
			{"Nina", "Monday, Tuesday"},
		},
	}

	err := MakeCSV(&f, &data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeCSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect CSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestMakeTSVWithEmptySheet(t *testing.T) {
	var f strings.Builder
	var data = Snapshot{}

	err := MakeTSV(&f, &data)
	if err == nil {
		t.Fatalf("Expected error return for empty sheet, got %v", err)
	}
}

func TestMakeTSVWithoutHeaders(t *testing.T) {
	var f strings.Builder

	data := Snapshot{
		Rows: [][]string{
			{},
		},
	}

	err := MakeTSV(&f, &data)
	if err == nil {
		t.Fatalf("Expected error return for missing headers, got %v", err)
	}
}
