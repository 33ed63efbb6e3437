package cmd

import (
	"fmt"

	"github.com/tom-montgomery/esri2wkt/esri2wkt"
)

type CmdConvert struct {
	global *GlobalOptions

	Explode  bool `short:"e" long:"explode" description:"Split multipart features into numbered single part rows"`
	Progress bool `short:"p" long:"progress" description:"Show a progress bar"`
}

func init() {
	_, err := parser.AddCommand("convert",
		"Convert features to WKT",
		"Removes small holes, splits multipart features and writes key/WKT rows to <output>.csv",
		&CmdConvert{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdConvert) Usage() string {
	return "[input [output]]"
}

func (cmd CmdConvert) Execute(args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("Too many arguments, Usage: %s", cmd.Usage())
	}

	cfg, err := cmd.global.LoadConfig()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}
	if cmd.Explode {
		cfg.ExplodeMultipart = true
	}
	if cmd.Progress {
		cfg.Progress = true
	}

	_, err = esri2wkt.NewPipeline(cfg).Run()
	if err != nil {
		return fmt.Errorf("Failed to convert: %s", err)
	}

	return nil
}
