package cmd

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/tom-montgomery/esri2wkt/esri2wkt"
)

type GlobalOptions struct {
	Config    string   `short:"c" long:"config" description:"YAML configuration file"`
	KeyField  string   `short:"k" long:"key-field" description:"Attribute used as feature key"`
	Holes     *float64 `long:"hole-percent" description:"Remove contained holes smaller than this percentage of their polygon (default: 10)"`
	EPSG      int      `long:"source-epsg" description:"Spatial reference of the input, detected when omitted"`
	Workspace string   `long:"workspace" description:"Directory for the scratch store"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.HelpFlag|flags.PassDoubleDash)

func Run() error {
	_, err := parser.Parse()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	return err
}

// LoadConfig reads the config file, if any, and applies the command line
// overrides on top.
func (g *GlobalOptions) LoadConfig() (*esri2wkt.Config, error) {
	cfg := esri2wkt.NewConfig()
	if g.Config != "" {
		c, err := esri2wkt.LoadConfig(g.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	if g.KeyField != "" {
		cfg.KeyField = g.KeyField
	}
	if g.Holes != nil {
		cfg.HolePercent = *g.Holes
	}
	if g.EPSG != 0 {
		cfg.SourceEPSG = g.EPSG
	}
	if g.Workspace != "" {
		cfg.Workspace = g.Workspace
	}
	return cfg, nil
}
