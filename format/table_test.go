package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableEmpty(t *testing.T) {
	assert.Equal(t, "", NewTable().String())
}

func TestTableSingleColumn(t *testing.T) {
	tbl := NewTable()
	tbl.AddRow([]string{"shop"})
	tbl.AddRow([]string{"inventory"})

	want := strings.Join([]string{
		"+-----------+",
		"| shop      |",
		"+-----------+",
		"| inventory |",
		"+-----------+",
	}, "\n")
	assert.Equal(t, want, tbl.String())
}

func TestTableHeaderAndAlignment(t *testing.T) {
	tbl := NewTable()
	tbl.AddRows([][]string{
		{"1", "alice", "42"},
		{"2", "bo", "7"},
	})
	tbl.SetHeader([]string{"id", "name", "age"})

	want := strings.Join([]string{
		"+----+-------+-----+",
		"| id | name  | age |",
		"+----+-------+-----+",
		"| 1  | alice | 42  |",
		"+----+-------+-----+",
		"| 2  | bo    | 7   |",
		"+----+-------+-----+",
	}, "\n")
	assert.Equal(t, want, tbl.String())
	assert.Equal(t, 2, tbl.Len())
}

func TestTableDropsMismatchedRows(t *testing.T) {
	tbl := NewTable()
	tbl.AddRow([]string{"a", "b"})
	tbl.AddRow([]string{"only-one"})
	tbl.AddRow([]string{"c", "d"})
	assert.Equal(t, 2, tbl.Len())
}

// Splitting the rendered grid back apart on its border characters must
// recover the original cells, as long as the cells contain no '|'.
func TestTableRoundTrip(t *testing.T) {
	rows := [][]string{
		{"alpha", "1", ""},
		{"b", "22", "zz top"},
		{"gamma ray", "333", "x"},
	}
	tbl := NewTable()
	tbl.AddRows(rows)

	var got [][]string
	for _, line := range strings.Split(tbl.String(), "\n") {
		if !strings.HasPrefix(line, "|") {
			continue
		}
		cells := strings.Split(line, "|")
		cells = cells[1 : len(cells)-1]
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = strings.TrimSpace(c)
		}
		got = append(got, row)
	}

	require.Len(t, got, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i], got[i])
	}
}
