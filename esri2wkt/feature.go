package esri2wkt

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulsmith/gogeos/geos"
)

// Feature is one record of a layer. The geometry is owned by the engine.
type Feature struct {
	Index    int
	Key      string
	Geometry *geos.Geometry

	// Parts is filled in by the classification stage.
	Parts int
}

// formatKey renders an attribute value the way it appears in the output.
// Integral numbers lose their decimal point, so 12.0 becomes "12".
func formatKey(v interface{}) (string, bool) {
	switch k := v.(type) {
	case nil:
		return "", false
	case string:
		return k, true
	case float64:
		if k == math.Trunc(k) && math.Abs(k) < 1e15 {
			return strconv.FormatInt(int64(k), 10), true
		}
		return strconv.FormatFloat(k, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(k), true
	default:
		return fmt.Sprint(k), true
	}
}
