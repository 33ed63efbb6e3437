package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/kr/pretty"
	"github.com/tom-montgomery/esri2wkt/esri2wkt"
	"github.com/tom-montgomery/esri2wkt/geojson"
)

type CmdGet struct {
	global *GlobalOptions

	GeoJSON bool `long:"geojson" description:"Print the geometry as GeoJSON"`
}

func init() {
	_, err := parser.AddCommand("get",
		"Get a feature",
		"Print a single feature after hole elimination",
		&CmdGet{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdGet) Usage() string {
	return "input index"
}

type featureInfo struct {
	Index int
	Key   string
	Parts int
	WKT   string
}

func (cmd CmdGet) Execute(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}

	index, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}

	cfg, err := cmd.global.LoadConfig()
	if err != nil {
		return err
	}
	cfg.Input = args[0]

	f, err := esri2wkt.NewPipeline(cfg).Get(index)
	if err != nil {
		return fmt.Errorf("Failed to get feature: %s", err)
	}
	if f == nil {
		return fmt.Errorf("No feature with index %d", index)
	}

	if cmd.GeoJSON {
		g, err := geojson.FromGeos(f.Geometry)
		if err != nil {
			return err
		}

		b, err := json.Marshal(g)
		if err != nil {
			return err
		}
		os.Stdout.Write(b)
		os.Stdout.WriteString("\n")
		return nil
	}

	wkt, err := f.Geometry.ToWKT()
	if err != nil {
		return err
	}

	fmt.Printf("%# v\n", pretty.Formatter(featureInfo{
		Index: f.Index,
		Key:   f.Key,
		Parts: f.Parts,
		WKT:   wkt,
	}))
	return nil
}
