package main

import (
	"log"
	"os"

	"github.com/tom-montgomery/esri2wkt/esri2wkt"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	input    = kingpin.Arg("input", "input features (.geojson, .shp or zipped shapefile)").Required().String()
	output   = kingpin.Arg("output", "output name, .csv is appended").Required().String()
	keyField = kingpin.Arg("key-field", "attribute used as feature key").Required().String()
	explode  = kingpin.Arg("explode", "split multipart features").Default("false").Bool()

	sourceEPSG = kingpin.Flag("source-epsg", "spatial reference of the input").Int()
	progress   = kingpin.Flag("progress", "show a progress bar").Bool()
)

func main() {
	kingpin.Parse()

	cfg := esri2wkt.NewConfig()
	cfg.Input = *input
	cfg.Output = *output
	cfg.KeyField = *keyField
	cfg.ExplodeMultipart = *explode
	cfg.SourceEPSG = *sourceEPSG
	cfg.Progress = *progress

	_, err := esri2wkt.NewPipeline(cfg).Run()
	if err != nil {
		log.Println(err.Error())
		os.Exit(1)
	}
}
