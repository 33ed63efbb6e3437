// Package geojson converts between GeoJSON geometries and GEOS geometries.
package geojson

import (
	"fmt"
	"io"
	"io/ioutil"
	"runtime"

	gj "github.com/paulmach/go.geojson"
	"github.com/paulsmith/gogeos/geos"
)

// ReadFeatures decodes a FeatureCollection, or a single Feature, from in.
func ReadFeatures(in io.Reader) ([]*gj.Feature, error) {
	data, err := ioutil.ReadAll(in)
	if err != nil {
		return nil, err
	}

	fc, err := gj.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}

	switch fc.Type {
	case "FeatureCollection":
		return fc.Features, nil
	case "Feature":
		f, err := gj.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return []*gj.Feature{f}, nil
	default:
		return nil, fmt.Errorf("Unknown GeoJSON type: %q", fc.Type)
	}
}

// ToGeos builds a GEOS geometry. A nil geometry becomes an empty
// collection.
func ToGeos(g *gj.Geometry) (*geos.Geometry, error) {
	if g == nil {
		return geos.FromWKT("GEOMETRYCOLLECTION EMPTY")
	}

	switch g.Type {
	case gj.GeometryPoint:
		if len(g.Point) == 0 {
			return geos.FromWKT("POINT EMPTY")
		}
		c, err := toCoord(g.Point)
		if err != nil {
			return nil, err
		}
		return geos.NewPoint(c)
	case gj.GeometryMultiPoint:
		points := make([]*geos.Geometry, 0, len(g.MultiPoint))
		for _, p := range g.MultiPoint {
			c, err := toCoord(p)
			if err != nil {
				return nil, err
			}
			point, err := geos.NewPoint(c)
			if err != nil {
				return nil, err
			}
			points = append(points, point)
		}
		return collection(geos.MULTIPOINT, points)
	case gj.GeometryLineString:
		if len(g.LineString) == 0 {
			return geos.FromWKT("LINESTRING EMPTY")
		}
		coords, err := toCoords(g.LineString)
		if err != nil {
			return nil, err
		}
		return geos.NewLineString(coords...)
	case gj.GeometryMultiLineString:
		lines := make([]*geos.Geometry, 0, len(g.MultiLineString))
		for _, l := range g.MultiLineString {
			coords, err := toCoords(l)
			if err != nil {
				return nil, err
			}
			line, err := geos.NewLineString(coords...)
			if err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
		return collection(geos.MULTILINESTRING, lines)
	case gj.GeometryPolygon:
		return toPolygon(g.Polygon)
	case gj.GeometryMultiPolygon:
		polygons := make([]*geos.Geometry, 0, len(g.MultiPolygon))
		for _, p := range g.MultiPolygon {
			if len(p) == 0 {
				continue
			}
			polygon, err := toPolygon(p)
			if err != nil {
				return nil, err
			}
			polygons = append(polygons, polygon)
		}
		return collection(geos.MULTIPOLYGON, polygons)
	case gj.GeometryCollection:
		geoms := make([]*geos.Geometry, 0, len(g.Geometries))
		for _, child := range g.Geometries {
			geom, err := ToGeos(child)
			if err != nil {
				return nil, err
			}
			geoms = append(geoms, geom)
		}
		return collection(geos.GEOMETRYCOLLECTION, geoms)
	default:
		return nil, fmt.Errorf("Unknown geometry type: %v", g.Type)
	}
}

func toPolygon(rings [][][]float64) (*geos.Geometry, error) {
	if len(rings) == 0 {
		return geos.FromWKT("POLYGON EMPTY")
	}

	shell, err := toCoords(rings[0])
	if err != nil {
		return nil, err
	}
	holes := make([][]geos.Coord, 0, len(rings)-1)
	for _, r := range rings[1:] {
		hole, err := toCoords(r)
		if err != nil {
			return nil, err
		}
		holes = append(holes, hole)
	}
	return geos.NewPolygon(shell, holes...)
}

func collection(t geos.GeometryType, geoms []*geos.Geometry) (*geos.Geometry, error) {
	if len(geoms) == 0 {
		return geos.FromWKT(fmt.Sprintf("%s EMPTY", emptyName[t]))
	}
	return geos.NewCollection(t, geoms...)
}

var emptyName = map[geos.GeometryType]string{
	geos.MULTIPOINT:         "MULTIPOINT",
	geos.MULTILINESTRING:    "MULTILINESTRING",
	geos.MULTIPOLYGON:       "MULTIPOLYGON",
	geos.GEOMETRYCOLLECTION: "GEOMETRYCOLLECTION",
}

// toCoord drops any altitude. Positions need at least two elements.
func toCoord(p []float64) (geos.Coord, error) {
	if len(p) < 2 {
		return geos.Coord{}, fmt.Errorf("Invalid position: %v", p)
	}
	return geos.NewCoord(p[0], p[1]), nil
}

func toCoords(points [][]float64) ([]geos.Coord, error) {
	coords := make([]geos.Coord, 0, len(points))
	for _, p := range points {
		c, err := toCoord(p)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

// FromGeos is the inverse of ToGeos.
func FromGeos(geom *geos.Geometry) (*gj.Geometry, error) {
	t, err := geom.Type()
	if err != nil {
		return nil, err
	}

	switch t {
	case geos.POINT:
		c, err := geom.Coords()
		if err != nil {
			return nil, err
		}
		if len(c) == 0 {
			return gj.NewPointGeometry(nil), nil
		}
		return gj.NewPointGeometry(fromCoord(c[0])), nil
	case geos.LINESTRING, geos.LINEARRING:
		c, err := geom.Coords()
		if err != nil {
			return nil, err
		}
		return gj.NewLineStringGeometry(fromCoords(c)), nil
	case geos.POLYGON:
		rings, err := polyToRings(geom)
		if err != nil {
			return nil, err
		}
		return gj.NewPolygonGeometry(rings), nil
	case geos.MULTIPOINT, geos.MULTILINESTRING, geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		// Children borrow the parent's memory
		defer runtime.KeepAlive(geom)

		n, err := geom.NGeometry()
		if err != nil {
			return nil, err
		}

		children := make([]*gj.Geometry, n)
		for i := 0; i < n; i++ {
			g, err := geom.Geometry(i)
			if err != nil {
				return nil, err
			}
			children[i], err = FromGeos(g)
			if err != nil {
				return nil, err
			}
		}

		switch t {
		case geos.MULTIPOINT:
			points := make([][]float64, n)
			for i, c := range children {
				points[i] = c.Point
			}
			return gj.NewMultiPointGeometry(points...), nil
		case geos.MULTILINESTRING:
			lines := make([][][]float64, n)
			for i, c := range children {
				lines[i] = c.LineString
			}
			return gj.NewMultiLineStringGeometry(lines...), nil
		case geos.MULTIPOLYGON:
			polygons := make([][][][]float64, n)
			for i, c := range children {
				polygons[i] = c.Polygon
			}
			return gj.NewMultiPolygonGeometry(polygons...), nil
		default:
			return gj.NewCollectionGeometry(children...), nil
		}
	default:
		return nil, fmt.Errorf("Unknown geometry type: %v", t)
	}
}

func polyToRings(geom *geos.Geometry) ([][][]float64, error) {
	empty, err := geom.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		return [][][]float64{}, nil
	}
	defer runtime.KeepAlive(geom)

	shell, err := geom.Shell()
	if err != nil {
		return nil, err
	}
	c, err := shell.Coords()
	if err != nil {
		return nil, err
	}

	holes, err := geom.Holes()
	if err != nil {
		return nil, err
	}

	rings := make([][][]float64, len(holes)+1)
	rings[0] = fromCoords(c)
	for i, h := range holes {
		c, err := h.Coords()
		if err != nil {
			return nil, err
		}
		rings[i+1] = fromCoords(c)
	}

	return rings, nil
}

func fromCoord(c geos.Coord) []float64 {
	return []float64{c.X, c.Y}
}

func fromCoords(coords []geos.Coord) [][]float64 {
	points := make([][]float64, len(coords))
	for i, c := range coords {
		points[i] = fromCoord(c)
	}
	return points
}
