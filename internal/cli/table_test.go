package cli

import (
	"strings"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"Name", "Age"})

	table.AddRow([]string{"Alice", "30"})
	table.AddRow([]string{"Bob"})
	table.AddRow([]string{"Charlie", "25", "Extra"})

	if len(table.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.rows))
	}
	for i, row := range table.rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d columns, want 2", i, len(row))
		}
	}
	if table.rows[1][1] != "" {
		t.Errorf("Expected empty string for padded column, got %q", table.rows[1][1])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"CODE", "HEX", "COUNT"})
	table.AlignRight(2)
	table.AddRow([]string{"A1", "#FAF4C8", "7"})
	table.AddRow([]string{"F12", "#FFFFFF", "1024"})

	want := strings.Join([]string{
		"CODE  HEX      COUNT",
		"----  -------  -----",
		"A1    #FAF4C8      7",
		"F12   #FFFFFF   1024",
		"",
	}, "\n")
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderEmpty(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Expected empty string for empty table, got: %q", got)
	}

	got := NewTable([]string{"Column1", "Column2"}).Render()
	if got != "Column1  Column2\n-------  -------\n" {
		t.Errorf("headers-only table = %q", got)
	}
}

func TestTableIgnoresANSIWidth(t *testing.T) {
	table := NewTable([]string{"", "HEX"})
	table.AddRow([]string{"\033[48;2;255;0;0m  \033[0m", "#FF0000"})

	lines := strings.Split(table.Render(), "\n")
	if lines[1] != "--  -------" {
		t.Errorf("separator = %q; escape codes should not widen the column", lines[1])
	}
}

func TestTableTrimsTrailingSpace(t *testing.T) {
	table := NewTable([]string{"#", "DONE"})
	table.AddRow([]string{"1", ""})
	table.AddRow([]string{"2", "✓"})

	lines := strings.Split(table.Render(), "\n")
	if lines[2] != "1" {
		t.Errorf("row without a mark = %q, want %q", lines[2], "1")
	}
	if lines[3] != "2  ✓" {
		t.Errorf("row with a mark = %q", lines[3])
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		input string
		width int
		right string
		left  string
	}{
		{"test", 10, "test      ", "      test"},
		{"hello", 5, "hello", "hello"},
		{"world", 3, "world", "world"},
		{"", 3, "   ", "   "},
		{"★", 2, "★ ", " ★"},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.width); got != tt.right {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.right)
		}
		if got := padLeft(tt.input, tt.width); got != tt.left {
			t.Errorf("padLeft(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.left)
		}
	}
}
