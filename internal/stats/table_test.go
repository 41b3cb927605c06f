package stats

import (
	"bytes"
	"testing"
)

func TestWriteTableAlignsColumns(t *testing.T) {
	cols := []column{{title: "Note"}, {title: "Accuracy", right: true}, {title: "Correct", right: true}}
	rows := [][]string{
		{"C4", "97.50%", "12"},
		{"Db4", "8.00%", "3"},
	}

	var buf bytes.Buffer
	if err := writeTable(&buf, cols, rows); err != nil {
		t.Fatalf("writeTable failed: %v", err)
	}
	want := "Note Accuracy Correct\n" +
		"C4     97.50%      12\n" +
		"Db4     8.00%       3\n"
	if buf.String() != want {
		t.Fatalf("unexpected table:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteTableShortRow(t *testing.T) {
	var buf bytes.Buffer
	if err := writeTable(&buf, []column{{title: "A"}, {title: "B", right: true}}, [][]string{{"x"}}); err != nil {
		t.Fatalf("writeTable failed: %v", err)
	}
	if buf.String() != "A B\nx  \n" {
		t.Fatalf("unexpected table: %q", buf.String())
	}
}

func TestWriteTableNoColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := writeTable(&buf, nil, [][]string{{"x"}}); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output, got %q (%v)", buf.String(), err)
	}
}
