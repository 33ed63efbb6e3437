package esri2wkt

import (
	"encoding/csv"
	"io"
	"strconv"
)

type OutputRow struct {
	Key string
	WKT string
}

// OutputTable is an append-only list of rows in processing order.
type OutputTable struct {
	rows   []OutputRow
	frozen bool
}

func NewOutputTable() *OutputTable {
	return &OutputTable{
		rows: make([]OutputRow, 0),
	}
}

func (t *OutputTable) Append(key, wkt string) {
	if t.frozen {
		panic("esri2wkt: append to frozen output table")
	}
	t.rows = append(t.rows, OutputRow{Key: key, WKT: wkt})
}

// Freeze marks the table as complete, further appends panic.
func (t *OutputTable) Freeze() {
	t.frozen = true
}

func (t *OutputTable) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows.
func (t *OutputTable) Rows() []OutputRow {
	rows := make([]OutputRow, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// WriteCSV writes the table with the header ",key,wkt". The first column
// is the 0-based row index.
func (t *OutputTable) WriteCSV(out io.Writer) error {
	w := csv.NewWriter(out)
	err := w.Write([]string{"", "key", "wkt"})
	if err != nil {
		return err
	}

	for i, row := range t.rows {
		err = w.Write([]string{strconv.Itoa(i), row.Key, row.WKT})
		if err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
