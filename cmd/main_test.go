package cmd

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/cheekybits/is"
	"github.com/jessevdk/go-flags"
	"github.com/tom-montgomery/esri2wkt/esri2wkt"
)

func TestLoadConfigDefaults(t *testing.T) {
	is := is.New(t)

	g := &GlobalOptions{KeyField: "route"}
	cfg, err := g.LoadConfig()
	is.NoErr(err)
	is.Equal(cfg.KeyField, "route")
	is.Equal(cfg.HolePercent, float64(esri2wkt.DefaultHolePercent))
	is.Equal(cfg.TargetEPSG, esri2wkt.WGS84)
}

func TestLoadConfigOverrides(t *testing.T) {
	is := is.New(t)

	folder, err := ioutil.TempDir("", "test")
	is.NoErr(err)
	defer os.RemoveAll(folder)

	filename := filepath.Join(folder, "config.yaml")
	err = ioutil.WriteFile(filename, []byte(`
input: routes.shp
output: routes
key_field: ROUTE
hole_percent: 5
source_epsg: 3857
`), 0644)
	is.NoErr(err)

	holes := 20.0
	g := &GlobalOptions{
		Config: filename,
		Holes:  &holes,
	}
	cfg, err := g.LoadConfig()
	is.NoErr(err)
	is.Equal(cfg.Input, "routes.shp")
	is.Equal(cfg.KeyField, "ROUTE")
	is.Equal(cfg.HolePercent, 20.0)
	is.Equal(cfg.SourceEPSG, 3857)
}

func TestHolePercentZeroOverrides(t *testing.T) {
	is := is.New(t)

	folder, err := ioutil.TempDir("", "test")
	is.NoErr(err)
	defer os.RemoveAll(folder)

	filename := filepath.Join(folder, "config.yaml")
	is.NoErr(ioutil.WriteFile(filename, []byte("hole_percent: 5\n"), 0644))

	opts := GlobalOptions{}
	p := flags.NewParser(&opts, flags.Default)
	_, err = p.ParseArgs([]string{"--config", filename, "--hole-percent", "0"})
	is.NoErr(err)
	is.NotNil(opts.Holes)

	cfg, err := opts.LoadConfig()
	is.NoErr(err)
	is.Equal(cfg.HolePercent, 0.0)

	// Not given on the command line
	opts = GlobalOptions{}
	p = flags.NewParser(&opts, flags.Default)
	_, err = p.ParseArgs([]string{"--config", filename})
	is.NoErr(err)

	cfg, err = opts.LoadConfig()
	is.NoErr(err)
	is.Equal(cfg.HolePercent, 5.0)
}

func TestParseCommands(t *testing.T) {
	is := is.New(t)

	for _, name := range []string{"convert", "parts", "get"} {
		is.NotNil(parser.Find(name))
	}
}
