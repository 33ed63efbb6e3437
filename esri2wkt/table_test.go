package esri2wkt

import (
	"bytes"
	"testing"

	"github.com/cheekybits/is"
)

func TestWriteCSV(t *testing.T) {
	is := is.New(t)

	table := NewOutputTable()
	table.Append("R1", "POINT(1 2)")
	table.Append("R2", "LINESTRING(0 0,1 1)")

	var buf bytes.Buffer
	err := table.WriteCSV(&buf)
	is.NoErr(err)
	is.Equal(buf.String(), ",key,wkt\n0,R1,POINT(1 2)\n1,R2,\"LINESTRING(0 0,1 1)\"\n")
}

func TestWriteEmptyCSV(t *testing.T) {
	is := is.New(t)

	var buf bytes.Buffer
	err := NewOutputTable().WriteCSV(&buf)
	is.NoErr(err)
	is.Equal(buf.String(), ",key,wkt\n")
}

func TestFrozenTable(t *testing.T) {
	is := is.New(t)

	table := NewOutputTable()
	table.Append("R1", "POINT(1 2)")
	table.Freeze()
	is.Equal(table.Len(), 1)

	defer func() {
		is.NotNil(recover())
	}()
	table.Append("R2", "POINT(3 4)")
}
