package esri2wkt

import (
	"runtime"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulsmith/gogeos/geos"
)

// Engine wraps GEOS and the scratch workspace. Layers are addressed by
// name, like the feature classes of a GIS workspace.
type Engine struct {
	ws     *Workspace
	source *SpatialReference
}

func NewEngine(ws *Workspace, source *SpatialReference) *Engine {
	return &Engine{
		ws:     ws,
		source: source,
	}
}

// SpatialReference constructs a reference by EPSG code.
func (e *Engine) SpatialReference(epsg int) (*SpatialReference, error) {
	return NewSpatialReference(epsg)
}

// CopyFeatures writes features to layer, replacing its contents. Features
// are renumbered in the order given.
func (e *Engine) CopyFeatures(layer string, features []*Feature) error {
	err := e.ws.drop(layer)
	if err != nil {
		return engineError("copy features", err)
	}

	records := make([]*record, 0, len(features))
	for i, f := range features {
		r, err := toRecord(i, f.Key, f.Geometry)
		if err != nil {
			return engineError("copy features", err)
		}
		records = append(records, r)
	}

	return engineError("copy features", e.ws.put(layer, records))
}

// Features loads all features of layer in index order.
func (e *Engine) Features(layer string) ([]*Feature, error) {
	records, err := e.ws.scan(layer)
	if err != nil {
		return nil, engineError("read features", err)
	}

	features := make([]*Feature, 0, len(records))
	for _, r := range records {
		f, err := r.feature()
		if err != nil {
			return nil, engineError("read features", err)
		}
		features = append(features, f)
	}
	return features, nil
}

// Feature loads a single feature, nil if there is none at index.
func (e *Engine) Feature(layer string, index int) (*Feature, error) {
	r, err := e.ws.get(layer, index)
	if err != nil {
		return nil, engineError("read feature", err)
	}
	if r == nil {
		return nil, nil
	}

	f, err := r.feature()
	if err != nil {
		return nil, engineError("read feature", err)
	}
	return f, nil
}

// EliminateHoles copies in to out, dropping every interior ring smaller
// than minAreaPercent of its polygon's outer ring that does not touch the
// outer ring.
func (e *Engine) EliminateHoles(in, out string, minAreaPercent float64) error {
	features, err := e.Features(in)
	if err != nil {
		return err
	}

	for _, f := range features {
		geom, _, err := eliminateHoles(f.Geometry, minAreaPercent)
		if err != nil {
			return engineError("eliminate holes", err)
		}
		f.Geometry = geom
	}

	return e.CopyFeatures(out, features)
}

// eliminateHoles walks polygons at any depth of a collection. The returned
// geometry is geom itself when nothing changed.
func eliminateHoles(geom *geos.Geometry, minAreaPercent float64) (*geos.Geometry, bool, error) {
	t, err := geom.Type()
	if err != nil {
		return nil, false, err
	}

	switch t {
	case geos.POLYGON:
		return eliminatePolygonHoles(geom, minAreaPercent)
	case geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		// Children borrow the parent's memory
		defer runtime.KeepAlive(geom)

		n, err := geom.NGeometry()
		if err != nil {
			return nil, false, err
		}

		changed := false
		children := make([]*geos.Geometry, n)
		for i := 0; i < n; i++ {
			child, err := geom.Geometry(i)
			if err != nil {
				return nil, false, err
			}

			result, c, err := eliminateHoles(child, minAreaPercent)
			if err != nil {
				return nil, false, err
			}
			if c {
				changed = true
			}
			children[i] = result
		}

		if !changed {
			return geom, false, nil
		}

		// Children still owned by geom must be copied before they are
		// handed to a new collection.
		for i, child := range children {
			children[i], err = detach(child)
			if err != nil {
				return nil, false, err
			}
		}

		result, err := geos.NewCollection(t, children...)
		if err != nil {
			return nil, false, err
		}
		return result, true, nil
	default:
		return geom, false, nil
	}
}

func eliminatePolygonHoles(polygon *geos.Geometry, minAreaPercent float64) (*geos.Geometry, bool, error) {
	empty, err := polygon.IsEmpty()
	if err != nil || empty {
		return polygon, false, err
	}

	defer runtime.KeepAlive(polygon)

	holes, err := polygon.Holes()
	if err != nil {
		return nil, false, err
	}
	if len(holes) == 0 {
		return polygon, false, nil
	}

	shell, err := polygon.Shell()
	if err != nil {
		return nil, false, err
	}
	shellCoords, err := shell.Coords()
	if err != nil {
		return nil, false, err
	}

	outerArea, err := ringArea(shellCoords)
	if err != nil {
		return nil, false, err
	}
	threshold := outerArea * minAreaPercent / 100

	keep := make([][]geos.Coord, 0, len(holes))
	for _, hole := range holes {
		coords, err := hole.Coords()
		if err != nil {
			return nil, false, err
		}

		area, err := ringArea(coords)
		if err != nil {
			return nil, false, err
		}

		if area < threshold {
			// Only holes fully inside the outer ring are eliminated
			touches, err := shell.Intersects(hole)
			if err != nil {
				return nil, false, err
			}
			if !touches {
				continue
			}
		}

		keep = append(keep, coords)
	}

	if len(keep) == len(holes) {
		return polygon, false, nil
	}

	result, err := geos.NewPolygon(shellCoords, keep...)
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

func ringArea(coords []geos.Coord) (float64, error) {
	p, err := geos.NewPolygon(coords)
	if err != nil {
		return 0, err
	}
	return p.Area()
}

// CountParts returns the number of non-empty parts of a feature.
func (e *Engine) CountParts(f *Feature) (int, error) {
	n, err := countParts(f.Geometry)
	return n, engineError("count parts", err)
}

func countParts(geom *geos.Geometry) (int, error) {
	empty, err := geom.IsEmpty()
	if err != nil {
		return 0, err
	}
	if empty {
		return 0, nil
	}

	t, err := geom.Type()
	if err != nil {
		return 0, err
	}

	switch t {
	case geos.MULTIPOINT, geos.MULTILINESTRING, geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		defer runtime.KeepAlive(geom)

		n, err := geom.NGeometry()
		if err != nil {
			return 0, err
		}

		parts := 0
		for i := 0; i < n; i++ {
			child, err := geom.Geometry(i)
			if err != nil {
				return 0, err
			}
			c, err := countParts(child)
			if err != nil {
				return 0, err
			}
			parts += c
		}
		return parts, nil
	default:
		return 1, nil
	}
}

// SplitMultipart writes one feature per part of every feature of in to
// out. Sub-features keep their key and are ordered by source feature, then
// by part.
func (e *Engine) SplitMultipart(in, out string) error {
	features, err := e.Features(in)
	if err != nil {
		return err
	}

	parts := make([]*Feature, 0, len(features))
	for _, f := range features {
		p, err := splitFeature(f)
		if err != nil {
			return engineError("split multipart", err)
		}
		parts = append(parts, p...)
	}

	return e.CopyFeatures(out, parts)
}

// splitFeature returns the parts of f as independent geometries, which
// stay valid after f's geometry is freed.
func splitFeature(f *Feature) ([]*Feature, error) {
	geoms, err := splitParts(f.Geometry)
	if err != nil {
		return nil, err
	}

	parts := make([]*Feature, 0, len(geoms))
	for _, g := range geoms {
		part, err := detach(g)
		if err != nil {
			return nil, err
		}

		parts = append(parts, &Feature{
			Key:      f.Key,
			Geometry: part,
		})
	}
	runtime.KeepAlive(f.Geometry)
	return parts, nil
}

// splitParts flattens geom into its single part geometries. Parts taken
// from a collection borrow its memory.
func splitParts(geom *geos.Geometry) ([]*geos.Geometry, error) {
	empty, err := geom.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}

	t, err := geom.Type()
	if err != nil {
		return nil, err
	}

	switch t {
	case geos.MULTIPOINT, geos.MULTILINESTRING, geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		n, err := geom.NGeometry()
		if err != nil {
			return nil, err
		}

		result := make([]*geos.Geometry, 0, n)
		for i := 0; i < n; i++ {
			child, err := geom.Geometry(i)
			if err != nil {
				return nil, err
			}
			parts, err := splitParts(child)
			if err != nil {
				return nil, err
			}
			result = append(result, parts...)
		}
		return result, nil
	default:
		return []*geos.Geometry{geom}, nil
	}
}

// ToWKT reprojects the feature into target and encodes it as WKT.
func (e *Engine) ToWKT(f *Feature, target *SpatialReference) (string, error) {
	g, err := toOrb(f.Geometry)
	if err != nil {
		return "", engineError("to wkt", err)
	}

	g, err = e.source.Project(g, target)
	if err != nil {
		return "", engineError("project", err)
	}

	return wkt.MarshalString(g), nil
}

func toRecord(index int, key string, geom *geos.Geometry) (*record, error) {
	text, err := geom.ToWKT()
	if err != nil {
		return nil, err
	}

	return &record{
		Index: index,
		Key:   key,
		WKT:   text,
	}, nil
}

func (r *record) feature() (*Feature, error) {
	geom, err := geos.FromWKT(r.WKT)
	if err != nil {
		return nil, err
	}

	return &Feature{
		Index:    r.Index,
		Key:      r.Key,
		Geometry: geom,
	}, nil
}
