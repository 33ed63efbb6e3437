package esri2wkt

import (
	"archive/zip"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	gj "github.com/paulmach/go.geojson"
	"github.com/tom-montgomery/esri2wkt/geojson"
)

// Source is a decoded input dataset.
type Source struct {
	Features []*Feature

	// EPSG is the reference the coordinates are expressed in.
	EPSG int
}

// ReadSource loads GeoJSON (.geojson, .json), shapefiles (.shp) or a zip
// archive containing a single shapefile. The key field must be present on
// every feature.
func ReadSource(filename, keyField string, epsg int) (*Source, error) {
	_, err := os.Stat(filename)
	if err != nil {
		return nil, configErrorf(err, "cannot read input")
	}

	var src *Source
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".geojson", ".json":
		src, err = readGeoJSONFile(filename, keyField)
	case ".shp":
		src, err = readShapefileSource(filename, keyField)
	case ".zip":
		src, err = readZip(filename, keyField)
	default:
		return nil, configErrorf(nil, "unknown input format: %s", filename)
	}
	if err != nil {
		return nil, err
	}

	if epsg != 0 {
		src.EPSG = epsg
	}
	return src, nil
}

func readGeoJSONFile(filename, keyField string) (*Source, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, configErrorf(err, "cannot read input")
	}
	defer fp.Close()

	features, err := readGeoJSON(fp, keyField)
	if err != nil {
		return nil, err
	}

	// RFC 7946 coordinates are always WGS84
	return &Source{
		Features: features,
		EPSG:     WGS84,
	}, nil
}

func readGeoJSON(in io.Reader, keyField string) ([]*Feature, error) {
	gjFeatures, err := geojson.ReadFeatures(in)
	if err != nil {
		return nil, configErrorf(err, "invalid GeoJSON")
	}

	// Check the schema before building any geometry
	keys := make([]string, len(gjFeatures))
	for i, f := range gjFeatures {
		key, ok := featureKey(f, keyField)
		if !ok {
			return nil, configErrorf(nil, "key field %q missing on feature %d", keyField, i)
		}
		keys[i] = key
	}

	features := make([]*Feature, len(gjFeatures))
	for i, f := range gjFeatures {
		geom, err := geojson.ToGeos(f.Geometry)
		if err != nil {
			return nil, engineError("read geojson", fmt.Errorf("feature %d: %s", i, err))
		}

		features[i] = &Feature{
			Index:    i,
			Key:      keys[i],
			Geometry: geom,
		}
	}
	return features, nil
}

func featureKey(f *gj.Feature, keyField string) (string, bool) {
	v, ok := f.Properties[keyField]
	if !ok {
		return "", false
	}
	return formatKey(v)
}

func readShapefileSource(filename, keyField string) (*Source, error) {
	epsg, err := detectPrj(filename)
	if err != nil {
		return nil, err
	}

	features, err := readShapefile(filename, keyField)
	if err != nil {
		return nil, err
	}

	return &Source{
		Features: features,
		EPSG:     epsg,
	}, nil
}

func readZip(zipfile, keyField string) (*Source, error) {
	tmp, err := ioutil.TempDir("", "esri2wkt-zip")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	r, err := zip.OpenReader(zipfile)
	if err != nil {
		return nil, configErrorf(err, "cannot open %s", zipfile)
	}
	defer r.Close()

	shpName := ""
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		err = unpackFile(f, tmp)
		if err != nil {
			return nil, err
		}

		if strings.HasSuffix(strings.ToLower(f.Name), ".shp") {
			if shpName != "" {
				return nil, configErrorf(nil, "more than one shape file in %s", zipfile)
			}
			shpName = path.Base(f.Name)
		}
	}

	if shpName == "" {
		return nil, configErrorf(nil, "no shape file found in %s", zipfile)
	}
	log.Printf("Parsing %s", shpName)

	return readShapefileSource(filepath.Join(tmp, shpName), keyField)
}

// unpackFile extracts f into dir, flattening any folders inside the
// archive.
func unpackFile(f *zip.File, dir string) error {
	in, err := f.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(dir, path.Base(f.Name)))
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
