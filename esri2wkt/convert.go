package esri2wkt

import (
	"fmt"
	"runtime"

	"github.com/paulmach/orb"
	"github.com/paulsmith/gogeos/geos"
)

// toOrb copies a GEOS geometry into orb types, which are used for
// reprojection and WKT output.
func toOrb(geom *geos.Geometry) (orb.Geometry, error) {
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
			return orb.Collection{}, nil
		}
		return orb.Point{c[0].X, c[0].Y}, nil
	case geos.LINESTRING, geos.LINEARRING:
		c, err := geom.Coords()
		if err != nil {
			return nil, err
		}
		return orb.LineString(toPoints(c)), nil
	case geos.POLYGON:
		return toOrbPolygon(geom)
	case geos.MULTIPOINT, geos.MULTILINESTRING, geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		defer runtime.KeepAlive(geom)

		n, err := geom.NGeometry()
		if err != nil {
			return nil, err
		}

		children := make([]orb.Geometry, n)
		for i := 0; i < n; i++ {
			g, err := geom.Geometry(i)
			if err != nil {
				return nil, err
			}
			children[i], err = toOrb(g)
			if err != nil {
				return nil, err
			}
		}

		switch t {
		case geos.MULTIPOINT:
			mp := make(orb.MultiPoint, 0, n)
			for _, c := range children {
				if p, ok := c.(orb.Point); ok {
					mp = append(mp, p)
				}
			}
			return mp, nil
		case geos.MULTILINESTRING:
			mls := make(orb.MultiLineString, n)
			for i, c := range children {
				mls[i] = c.(orb.LineString)
			}
			return mls, nil
		case geos.MULTIPOLYGON:
			mp := make(orb.MultiPolygon, n)
			for i, c := range children {
				mp[i] = c.(orb.Polygon)
			}
			return mp, nil
		default:
			return orb.Collection(children), nil
		}
	default:
		return nil, fmt.Errorf("Unknown geometry type: %v", t)
	}
}

func toOrbPolygon(geom *geos.Geometry) (orb.Polygon, error) {
	empty, err := geom.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		return orb.Polygon{}, nil
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

	polygon := make(orb.Polygon, len(holes)+1)
	polygon[0] = orb.Ring(toPoints(c))
	for i, h := range holes {
		c, err := h.Coords()
		if err != nil {
			return nil, err
		}
		polygon[i+1] = orb.Ring(toPoints(c))
	}
	return polygon, nil
}

func toPoints(coords []geos.Coord) []orb.Point {
	points := make([]orb.Point, len(coords))
	for i, c := range coords {
		points[i] = orb.Point{c.X, c.Y}
	}
	return points
}

// detach returns a copy of geom that does not share memory with a parent
// collection.
func detach(geom *geos.Geometry) (*geos.Geometry, error) {
	wkt, err := geom.ToWKT()
	if err != nil {
		return nil, err
	}
	return geos.FromWKT(wkt)
}
