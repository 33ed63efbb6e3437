package esri2wkt

import (
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	WebMercator       = 3857
	webMercatorLegacy = 900913
)

// SpatialReference identifies a coordinate reference system by EPSG code
// together with the projection that brings its coordinates to WGS84.
type SpatialReference struct {
	EPSG int
	Name string

	toWGS84 orb.Projection
}

func NewSpatialReference(epsg int) (*SpatialReference, error) {
	switch epsg {
	case WGS84:
		return &SpatialReference{EPSG: WGS84, Name: "WGS 84"}, nil
	case WebMercator, webMercatorLegacy:
		return &SpatialReference{
			EPSG:    WebMercator,
			Name:    "WGS 84 / Pseudo-Mercator",
			toWGS84: project.Mercator.ToWGS84,
		}, nil
	default:
		return nil, configErrorf(nil, "unsupported spatial reference EPSG:%d", epsg)
	}
}

// Project returns g expressed in the target reference. Only WGS84 targets
// are supported. g is modified in place.
func (s *SpatialReference) Project(g orb.Geometry, target *SpatialReference) (orb.Geometry, error) {
	if target.EPSG != WGS84 {
		return nil, configErrorf(nil, "cannot project to EPSG:%d", target.EPSG)
	}
	if s.toWGS84 == nil {
		return g, nil
	}
	return project.Geometry(g, s.toWGS84), nil
}

func (s *SpatialReference) String() string {
	return s.Name
}

// detectPrj maps the Esri WKT found in a shapefile's .prj sidecar onto one
// of the supported references.
func detectPrj(shpPath string) (int, error) {
	prj := strings.TrimSuffix(shpPath, ".shp") + ".prj"
	data, err := ioutil.ReadFile(prj)
	if os.IsNotExist(err) {
		log.Printf("No .prj found next to %s, assuming EPSG:%d", shpPath, WGS84)
		return WGS84, nil
	}
	if err != nil {
		return 0, configErrorf(err, "cannot read %s", prj)
	}

	return parsePrj(string(data))
}

func parsePrj(wkt string) (int, error) {
	wkt = strings.TrimSpace(wkt)
	switch {
	case strings.Contains(wkt, "Web_Mercator"),
		strings.Contains(wkt, "Pseudo-Mercator"),
		strings.Contains(wkt, "Mercator_Auxiliary_Sphere"):
		return WebMercator, nil
	case strings.HasPrefix(wkt, "GEOGCS") &&
		(strings.Contains(wkt, "WGS_1984") || strings.Contains(wkt, "WGS 84")):
		return WGS84, nil
	}

	name := wkt
	if i := strings.Index(name, ","); i > 0 {
		name = name[:i]
	}
	return 0, configErrorf(nil, "unsupported spatial reference %s, set source_epsg", name)
}
