package esri2wkt

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulsmith/gogeos/geos"
)

func readShapefile(filename, keyField string) ([]*Feature, error) {
	shape, err := shp.Open(filename)
	if err != nil {
		return nil, configErrorf(err, "cannot open shapefile %s", filename)
	}
	defer shape.Close()

	keyIndex := -1
	fields := shape.Fields()
	for i, f := range fields {
		if f.String() == keyField {
			keyIndex = i
			break
		}
	}
	if keyIndex < 0 {
		// dBase field names are commonly upper case
		for i, f := range fields {
			if strings.EqualFold(f.String(), keyField) {
				keyIndex = i
				break
			}
		}
	}
	if keyIndex < 0 {
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.String()
		}
		return nil, configErrorf(nil, "key field %q not found in %s, available fields: %s", keyField, filename, strings.Join(names, ", "))
	}

	features := make([]*Feature, 0)
	for shape.Next() {
		n, s := shape.Shape()
		key := strings.TrimSpace(shape.ReadAttribute(n, keyIndex))

		geom, err := shapeToGeos(s)
		if err != nil {
			return nil, engineError("read shapefile", fmt.Errorf("record %d: %s", n, err))
		}

		features = append(features, &Feature{
			Index:    n,
			Key:      key,
			Geometry: geom,
		})
	}

	return features, nil
}

func shapeToGeos(s shp.Shape) (*geos.Geometry, error) {
	switch p := s.(type) {
	case *shp.Null:
		return geos.FromWKT("GEOMETRYCOLLECTION EMPTY")
	case *shp.Point:
		return geos.NewPoint(geos.NewCoord(p.X, p.Y))
	case *shp.PointZ:
		return geos.NewPoint(geos.NewCoord(p.X, p.Y))
	case *shp.MultiPoint:
		return pointsToGeos(p.Points)
	case *shp.MultiPointZ:
		return pointsToGeos(p.Points)
	case *shp.PolyLine:
		return linesToGeos(splitRings(p.Parts, p.Points))
	case *shp.PolyLineZ:
		return linesToGeos(splitRings(p.Parts, p.Points))
	case *shp.Polygon:
		return polygonToGeos(splitRings(p.Parts, p.Points))
	case *shp.PolygonZ:
		return polygonToGeos(splitRings(p.Parts, p.Points))
	default:
		return nil, fmt.Errorf("Unsupported shape type: %s", reflect.TypeOf(s).Elem())
	}
}

func splitRings(parts []int32, points []shp.Point) [][]shp.Point {
	rings := make([][]shp.Point, 0, len(parts))
	for i, first := range parts {
		last := len(points)
		if i < len(parts)-1 {
			last = int(parts[i+1])
		}
		rings = append(rings, points[first:last])
	}
	return rings
}

func pointsToGeos(points []shp.Point) (*geos.Geometry, error) {
	if len(points) == 0 {
		return geos.FromWKT("MULTIPOINT EMPTY")
	}

	geoms := make([]*geos.Geometry, 0, len(points))
	for _, p := range points {
		g, err := geos.NewPoint(geos.NewCoord(p.X, p.Y))
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, g)
	}
	return geos.NewCollection(geos.MULTIPOINT, geoms...)
}

func linesToGeos(lines [][]shp.Point) (*geos.Geometry, error) {
	geoms := make([]*geos.Geometry, 0, len(lines))
	for _, l := range lines {
		if len(l) < 2 {
			continue
		}
		g, err := geos.NewLineString(toCoords(l)...)
		if err != nil {
			return nil, err
		}
		geoms = append(geoms, g)
	}

	switch len(geoms) {
	case 0:
		return geos.FromWKT("LINESTRING EMPTY")
	case 1:
		return geoms[0], nil
	default:
		return geos.NewCollection(geos.MULTILINESTRING, geoms...)
	}
}

// polygonToGeos groups shapefile rings into polygons. Outer rings are
// clockwise, holes counter-clockwise.
func polygonToGeos(rings [][]shp.Point) (*geos.Geometry, error) {
	outer := make([][]shp.Point, 0)
	inner := make([][]shp.Point, 0)
	for _, points := range rings {
		if len(points) < 4 {
			continue
		}

		if signedArea(points) >= 0 {
			outer = append(outer, points)
		} else {
			inner = append(inner, points)
		}
	}

	if len(outer) == 0 {
		return geos.FromWKT("POLYGON EMPTY")
	}

	outerPolys, err := shpToGeom(outer)
	if err != nil {
		return nil, err
	}
	innerPolys, err := shpToGeom(inner)
	if err != nil {
		return nil, err
	}

	return MakePolygons(outerPolys, innerPolys)
}

// signedArea is positive for clockwise rings.
func signedArea(points []shp.Point) float64 {
	sum := 0.0
	for i := 0; i < len(points)-1; i++ {
		sum += (points[i+1].X - points[i].X) * (points[i+1].Y + points[i].Y)
	}
	return sum / 2
}

func shpToGeom(rings [][]shp.Point) ([]*geos.Geometry, error) {
	polygons := make([]*geos.Geometry, len(rings))
	for i, r := range rings {
		p, err := geos.NewPolygon(toCoords(r))
		if err != nil {
			return nil, err
		}
		polygons[i] = p
	}
	return polygons, nil
}

func toCoords(points []shp.Point) []geos.Coord {
	coords := make([]geos.Coord, len(points))
	for i, p := range points {
		coords[i] = geos.NewCoord(p.X, p.Y)
	}
	return coords
}

// MakePolygons assigns every hole to the first outer ring containing it.
// Holes outside all outer rings are dropped.
func MakePolygons(outerPolys, innerPolys []*geos.Geometry) (*geos.Geometry, error) {
	polygons := make([]*geos.Geometry, 0, len(outerPolys))
	for _, shell := range outerPolys {
		holes := make([][]geos.Coord, 0)

		if len(innerPolys) > 0 {
			pshell := geos.PrepareGeometry(shell)

			for i := 0; i < len(innerPolys); i++ {
				hole := innerPolys[i]
				c, err := pshell.Contains(hole)
				if err != nil {
					return nil, err
				}
				if !c {
					continue
				}

				s, err := hole.Shell()
				if err != nil {
					return nil, err
				}
				coords, err := s.Coords()
				if err != nil {
					return nil, err
				}
				runtime.KeepAlive(hole)

				holes = append(holes, coords)
				innerPolys = append(innerPolys[:i], innerPolys[i+1:]...)
				i-- // Counter-act the increment at the end of the iteration
			}
		}

		s, err := shell.Shell()
		if err != nil {
			return nil, err
		}
		scoords, err := s.Coords()
		if err != nil {
			return nil, err
		}
		runtime.KeepAlive(shell)

		polygon, err := geos.NewPolygon(scoords, holes...)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, polygon)
	}

	if len(polygons) == 1 {
		return polygons[0], nil
	}
	return geos.NewCollection(geos.MULTIPOLYGON, polygons...)
}
