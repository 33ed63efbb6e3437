package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/tom-montgomery/esri2wkt/esri2wkt"
)

type CmdParts struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("parts",
		"List part counts",
		"Lists the key and number of parts of every feature after hole elimination",
		&CmdParts{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdParts) Usage() string {
	return "input"
}

func (cmd CmdParts) Execute(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("Input not specified, Usage: %s", cmd.Usage())
	}

	cfg, err := cmd.global.LoadConfig()
	if err != nil {
		return err
	}
	cfg.Input = args[0]

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "index\tkey\tparts")
	err = esri2wkt.NewPipeline(cfg).Inspect(func(f *esri2wkt.Feature) error {
		_, err := fmt.Fprintf(w, "%d\t%s\t%d\n", f.Index, f.Key, f.Parts)
		return err
	})
	if err != nil {
		return fmt.Errorf("Failed to inspect: %s", err)
	}

	return w.Flush()
}
