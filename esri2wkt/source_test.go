package esri2wkt

import (
	"archive/zip"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cheekybits/is"
	"github.com/jonas-p/go-shp"
)

const wgs84Prj = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

const webMercatorPrj = `PROJCS["WGS_1984_Web_Mercator_Auxiliary_Sphere",GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Mercator_Auxiliary_Sphere"],PARAMETER["False_Easting",0.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",0.0],PARAMETER["Standard_Parallel_1",0.0],PARAMETER["Auxiliary_Sphere_Type",0.0],UNIT["Meter",1.0]]`

func square(x, y, size float64, clockwise bool) []shp.Point {
	ring := []shp.Point{
		{X: x, Y: y},
		{X: x, Y: y + size},
		{X: x + size, Y: y + size},
		{X: x + size, Y: y},
		{X: x, Y: y},
	}
	if !clockwise {
		for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
			ring[i], ring[j] = ring[j], ring[i]
		}
	}
	return ring
}

func shpPolygon(rings ...[]shp.Point) *shp.Polygon {
	p := shp.Polygon(*shp.NewPolyLine(rings))
	return &p
}

// writeShapefile creates a shapefile with a single ROUTE field holding
// keys[i] for shapes[i].
func writeShapefile(is is.I, filename string, shapeType shp.ShapeType, prj string, keys []string, shapes []shp.Shape) {
	w, err := shp.Create(filename, shapeType)
	is.NoErr(err)

	w.SetFields([]shp.Field{
		shp.StringField("ROUTE", 25),
	})
	for i, s := range shapes {
		n := w.Write(s)
		w.WriteAttribute(int(n), 0, keys[i])
	}
	w.Close()

	if prj != "" {
		err = ioutil.WriteFile(strings.TrimSuffix(filename, ".shp")+".prj", []byte(prj), 0644)
		is.NoErr(err)
	}
}

func testShapes() []shp.Shape {
	return []shp.Shape{
		shpPolygon(square(0, 0, 10, true), square(2, 2, 2, false)),
		shpPolygon(square(0, 0, 1, true), square(5, 5, 1, true)),
	}
}

func TestReadGeoJSON(t *testing.T) {
	is := is.New(t)

	in := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {"route": "R1"}, "geometry": {"type": "Point", "coordinates": [1, 2]}},
		{"type": "Feature", "properties": {"route": 12}, "geometry": {"type": "MultiLineString", "coordinates": [[[0, 0], [1, 1]], [[2, 2], [3, 3]]]}}
	]}`

	features, err := readGeoJSON(strings.NewReader(in), "route")
	is.NoErr(err)
	is.Equal(len(features), 2)
	is.Equal(features[0].Index, 0)
	is.Equal(features[0].Key, "R1")
	is.Equal(features[1].Index, 1)
	is.Equal(features[1].Key, "12")
	isGeomEqual(is, features[1].Geometry, "MULTILINESTRING ((0 0, 1 1), (2 2, 3 3))")
}

func TestReadGeoJSONMissingKey(t *testing.T) {
	is := is.New(t)

	in := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {"route": "R1"}, "geometry": {"type": "Point", "coordinates": [1, 2]}},
		{"type": "Feature", "properties": {"name": "R2"}, "geometry": {"type": "Point", "coordinates": [3, 4]}}
	]}`

	_, err := readGeoJSON(strings.NewReader(in), "route")
	is.Err(err)

	var cerr *ConfigurationError
	is.True(errors.As(err, &cerr))
	is.True(strings.Contains(cerr.Msg, "feature 1"))
}

func TestReadSourceUnknownFormat(t *testing.T) {
	is := is.New(t)

	folder, err := ioutil.TempDir("", "test")
	is.NoErr(err)
	defer os.RemoveAll(folder)

	filename := filepath.Join(folder, "input.gpkg")
	is.NoErr(ioutil.WriteFile(filename, []byte{}, 0644))

	_, err = ReadSource(filename, "route", 0)
	var cerr *ConfigurationError
	is.True(errors.As(err, &cerr))

	_, err = ReadSource(filepath.Join(folder, "missing.geojson"), "route", 0)
	is.True(errors.As(err, &cerr))
}

func TestReadShapefile(t *testing.T) {
	is := is.New(t)

	folder, err := ioutil.TempDir("", "test")
	is.NoErr(err)
	defer os.RemoveAll(folder)

	filename := filepath.Join(folder, "routes.shp")
	writeShapefile(is, filename, shp.POLYGON, wgs84Prj, []string{"R1", "R2"}, testShapes())

	// dBase field names are upper case, lookup falls back to a case
	// insensitive match.
	src, err := ReadSource(filename, "route", 0)
	is.NoErr(err)
	is.Equal(src.EPSG, WGS84)
	is.Equal(len(src.Features), 2)

	is.Equal(src.Features[0].Key, "R1")
	isGeomEqual(is, src.Features[0].Geometry, "POLYGON ((0 0, 0 10, 10 10, 10 0, 0 0), (2 2, 4 2, 4 4, 2 4, 2 2))")

	is.Equal(src.Features[1].Key, "R2")
	isGeomEqual(is, src.Features[1].Geometry, "MULTIPOLYGON (((0 0, 0 1, 1 1, 1 0, 0 0)), ((5 5, 5 6, 6 6, 6 5, 5 5)))")
}

func TestReadShapefileMissingField(t *testing.T) {
	is := is.New(t)

	folder, err := ioutil.TempDir("", "test")
	is.NoErr(err)
	defer os.RemoveAll(folder)

	filename := filepath.Join(folder, "routes.shp")
	writeShapefile(is, filename, shp.POLYGON, wgs84Prj, []string{"R1", "R2"}, testShapes())

	_, err = ReadSource(filename, "name", 0)
	var cerr *ConfigurationError
	is.True(errors.As(err, &cerr))
	is.True(strings.Contains(cerr.Msg, "ROUTE"))
}

func TestReadShapefileProjection(t *testing.T) {
	is := is.New(t)

	folder, err := ioutil.TempDir("", "test")
	is.NoErr(err)
	defer os.RemoveAll(folder)

	mercator := filepath.Join(folder, "mercator.shp")
	writeShapefile(is, mercator, shp.POLYGON, webMercatorPrj, []string{"R1", "R2"}, testShapes())

	src, err := ReadSource(mercator, "ROUTE", 0)
	is.NoErr(err)
	is.Equal(src.EPSG, WebMercator)

	// Explicit reference wins
	src, err = ReadSource(mercator, "ROUTE", WGS84)
	is.NoErr(err)
	is.Equal(src.EPSG, WGS84)

	// No .prj at all
	bare := filepath.Join(folder, "bare.shp")
	writeShapefile(is, bare, shp.POLYGON, "", []string{"R1", "R2"}, testShapes())

	src, err = ReadSource(bare, "ROUTE", 0)
	is.NoErr(err)
	is.Equal(src.EPSG, WGS84)
}

func zipFolder(is is.I, filename, folder, prefix string) {
	fp, err := os.Create(filename)
	is.NoErr(err)
	defer fp.Close()

	w := zip.NewWriter(fp)
	files, err := ioutil.ReadDir(folder)
	is.NoErr(err)
	for _, f := range files {
		in, err := os.Open(filepath.Join(folder, f.Name()))
		is.NoErr(err)

		out, err := w.Create(prefix + f.Name())
		is.NoErr(err)
		_, err = io.Copy(out, in)
		is.NoErr(err)
		in.Close()
	}
	is.NoErr(w.Close())
}

func TestReadZip(t *testing.T) {
	is := is.New(t)

	folder, err := ioutil.TempDir("", "test")
	is.NoErr(err)
	defer os.RemoveAll(folder)

	data := filepath.Join(folder, "data")
	is.NoErr(os.Mkdir(data, 0755))
	writeShapefile(is, filepath.Join(data, "routes.shp"), shp.POLYGON, webMercatorPrj, []string{"R1", "R2"}, testShapes())

	filename := filepath.Join(folder, "routes.zip")
	zipFolder(is, filename, data, "routes/")

	src, err := ReadSource(filename, "ROUTE", 0)
	is.NoErr(err)
	is.Equal(src.EPSG, WebMercator)
	is.Equal(len(src.Features), 2)
	is.Equal(src.Features[1].Key, "R2")
}

func TestReadZipWithoutShapefile(t *testing.T) {
	is := is.New(t)

	folder, err := ioutil.TempDir("", "test")
	is.NoErr(err)
	defer os.RemoveAll(folder)

	data := filepath.Join(folder, "data")
	is.NoErr(os.Mkdir(data, 0755))
	is.NoErr(ioutil.WriteFile(filepath.Join(data, "readme.txt"), []byte("hello"), 0644))

	filename := filepath.Join(folder, "empty.zip")
	zipFolder(is, filename, data, "")

	_, err = ReadSource(filename, "ROUTE", 0)
	var cerr *ConfigurationError
	is.True(errors.As(err, &cerr))
}
