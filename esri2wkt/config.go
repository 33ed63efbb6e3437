package esri2wkt

import (
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

const (
	// DefaultHolePercent is the relative area below which contained holes
	// are removed.
	DefaultHolePercent = 10

	// WGS84 is the only reference the output is written in.
	WGS84 = 4326
)

type Config struct {
	Input            string  `yaml:"input"`
	Output           string  `yaml:"output"`
	KeyField         string  `yaml:"key_field"`
	ExplodeMultipart bool    `yaml:"explode_multipart"`
	HolePercent      float64 `yaml:"hole_percent"`

	// SourceEPSG overrides the reference detected from the input. Zero
	// means detect (GeoJSON is always WGS84, shapefiles use their .prj).
	SourceEPSG int `yaml:"source_epsg"`
	TargetEPSG int `yaml:"target_epsg"`

	// Workspace is the directory the scratch store is created in.
	Workspace string `yaml:"workspace"`
	Progress  bool   `yaml:"progress"`
}

func NewConfig() *Config {
	return &Config{
		HolePercent: DefaultHolePercent,
		TargetEPSG:  WGS84,
	}
}

func LoadConfig(filename string) (*Config, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, configErrorf(err, "cannot open config %s", filename)
	}
	defer fp.Close()
	return ParseConfig(fp)
}

func ParseConfig(in io.Reader) (*Config, error) {
	c := NewConfig()
	err := yaml.NewDecoder(in).Decode(c)
	if err != nil && err != io.EOF {
		return nil, configErrorf(err, "invalid config")
	}
	return c, nil
}

// Validate checks the invocation parameters. It does not touch the input
// or output files.
func (c *Config) Validate() error {
	if c.Output == "" {
		return configErrorf(nil, "no output specified")
	}
	return c.validateSource()
}

func (c *Config) validateSource() error {
	if c.Input == "" {
		return configErrorf(nil, "no input specified")
	}
	if c.KeyField == "" {
		return configErrorf(nil, "no key field specified")
	}
	if c.HolePercent < 0 || c.HolePercent > 100 {
		return configErrorf(nil, "hole_percent must be between 0 and 100, got %g", c.HolePercent)
	}
	if c.TargetEPSG != WGS84 {
		return configErrorf(nil, "unsupported target reference EPSG:%d, output is always EPSG:%d", c.TargetEPSG, WGS84)
	}
	return nil
}
