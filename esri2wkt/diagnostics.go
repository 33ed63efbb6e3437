package esri2wkt

import (
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// Diagnostics is the human readable message stream of a run, one line
// per event.
type Diagnostics struct {
	log *log.Logger
}

func NewDiagnostics(out io.Writer) *Diagnostics {
	return &Diagnostics{
		log: log.New(out, "", 0),
	}
}

func defaultDiagnostics() *Diagnostics {
	return &Diagnostics{
		log: log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (d *Diagnostics) Printf(format string, args ...interface{}) {
	d.log.Printf(format, args...)
}

func (d *Diagnostics) Warnf(format string, args ...interface{}) {
	d.log.Printf("Warning: "+format, args...)
}

// Keys prints a set of keys as a quoted list, e.g. ["R1" "R2"].
func (d *Diagnostics) Keys(keys []string) {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = strconv.Quote(k)
	}
	d.log.Printf("[%s]", strings.Join(quoted, " "))
}
