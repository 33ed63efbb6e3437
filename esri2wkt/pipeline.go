package esri2wkt

import (
	"os"

	"github.com/cheggaaa/pb"
	"github.com/google/uuid"
)

const (
	layerInput      = "input"
	layerHoles      = "holes_removed"
	layerMultipart  = "multipart"
	layerSinglepart = "singlepart"
)

type Result struct {
	RunID  string
	Output string
	Table  *OutputTable

	// Composite lists the distinct keys of multipart features. They were
	// exploded when Exploded is set, dropped otherwise.
	Composite []string
	Exploded  bool

	// Dropped counts multipart features left out of the table.
	Dropped int

	// Skipped counts features without any geometry part.
	Skipped int

	// Duplicates counts single part features left out because an earlier
	// feature already used their key.
	Duplicates int
}

// Pipeline turns a feature dataset into a table of single part WKT
// geometries keyed by a unique string.
type Pipeline struct {
	config *Config
	diag   *Diagnostics
}

func NewPipeline(config *Config) *Pipeline {
	return &Pipeline{
		config: config,
		diag:   defaultDiagnostics(),
	}
}

func (p *Pipeline) Diagnostics(d *Diagnostics) *Pipeline {
	p.diag = d
	return p
}

// session is the engine state after hole elimination and part counting.
type session struct {
	ws       *Workspace
	engine   *Engine
	features []*Feature
}

func (s *session) Close() {
	s.ws.Close()
}

func (p *Pipeline) prepare(runID string) (*session, error) {
	src, err := ReadSource(p.config.Input, p.config.KeyField, p.config.SourceEPSG)
	if err != nil {
		return nil, err
	}

	sr, err := NewSpatialReference(src.EPSG)
	if err != nil {
		return nil, err
	}

	ws, err := OpenWorkspace(p.config.Workspace, runID)
	if err != nil {
		return nil, engineError("open workspace", err)
	}

	s := &session{
		ws:     ws,
		engine: NewEngine(ws, sr),
	}
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	p.diag.Printf("Workspace %s", ws.Path())
	p.diag.Printf("Loaded %d features (%s)", len(src.Features), sr)
	err = s.engine.CopyFeatures(layerInput, src.Features)
	if err != nil {
		return nil, err
	}

	err = s.engine.EliminateHoles(layerInput, layerHoles, p.config.HolePercent)
	if err != nil {
		return nil, err
	}

	s.features, err = s.engine.Features(layerHoles)
	if err != nil {
		return nil, err
	}

	for _, f := range s.features {
		f.Parts, err = s.engine.CountParts(f)
		if err != nil {
			return nil, err
		}
	}

	ok = true
	return s, nil
}

// Inspect runs hole elimination and part counting only, calling fn for
// every feature in input order.
func (p *Pipeline) Inspect(fn func(f *Feature) error) error {
	err := p.config.validateSource()
	if err != nil {
		return err
	}

	s, err := p.prepare(uuid.New().String())
	if err != nil {
		return err
	}
	defer s.Close()

	for _, f := range s.features {
		err = fn(f)
		if err != nil {
			return err
		}
	}
	return nil
}

// Get returns the feature at index after hole elimination, with its part
// count set. It returns nil when there is no such feature.
func (p *Pipeline) Get(index int) (*Feature, error) {
	err := p.config.validateSource()
	if err != nil {
		return nil, err
	}

	s, err := p.prepare(uuid.New().String())
	if err != nil {
		return nil, err
	}
	defer s.Close()

	f, err := s.engine.Feature(layerHoles, index)
	if err != nil || f == nil {
		return nil, err
	}

	f.Parts, err = s.engine.CountParts(f)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Pipeline) Run() (*Result, error) {
	err := p.config.Validate()
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:    uuid.New().String(),
		Exploded: p.config.ExplodeMultipart,
	}
	p.diag.Printf("Run %s", result.RunID)
	p.diag.Printf("Key field: %s", p.config.KeyField)

	out, err := createOutput(p.config.Output)
	if err != nil {
		return nil, err
	}
	defer out.Discard()

	s, err := p.prepare(result.RunID)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	c := Classify(s.features)
	for _, f := range c.Skipped {
		p.diag.Warnf("Skipping feature %d (key %q): geometry has no parts", f.Index, f.Key)
	}
	result.Skipped = len(c.Skipped)

	target, err := s.engine.SpatialReference(p.config.TargetEPSG)
	if err != nil {
		return nil, err
	}

	table := NewOutputTable()
	keys := NewKeyAssigner()

	total := len(c.Simple)
	if p.config.ExplodeMultipart {
		for _, f := range c.Composite {
			total += f.Parts
		}
	}
	bar := p.startProgress(total)
	defer bar.Finish()

	for _, f := range c.Simple {
		key, err := keys.Simple(f.Key)
		if err != nil {
			// The first feature with a key wins
			p.diag.Warnf("Skipping feature %d: %s", f.Index, err)
			result.Duplicates++
			bar.Increment()
			continue
		}

		text, err := s.engine.ToWKT(f, target)
		if err != nil {
			return nil, err
		}

		table.Append(key, text)
		bar.Increment()
	}

	p.diag.Printf("Multipart Features Processed:")
	composite := make(keySet)
	for _, f := range c.Composite {
		composite.Add(f.Key)
	}
	result.Composite = composite.Sorted()

	if !p.config.ExplodeMultipart {
		if len(c.Composite) > 0 {
			p.diag.Warnf("Dropped %d multipart features, enable explode_multipart to keep them", len(c.Composite))
		}
		result.Dropped = len(c.Composite)
	} else if len(c.Composite) > 0 {
		err = p.explode(s, c.Composite, target, keys, table, bar)
		if err != nil {
			return nil, err
		}
	}
	p.diag.Keys(result.Composite)

	table.Freeze()
	result.Table = table

	err = out.Commit(table)
	if err != nil {
		return nil, configErrorf(err, "cannot write %s", out.name)
	}
	result.Output = out.name
	p.diag.Printf("Wrote %d rows to %s", table.Len(), out.name)

	return result, nil
}

func (p *Pipeline) explode(s *session, features []*Feature, target *SpatialReference, keys *KeyAssigner, table *OutputTable, bar *progress) error {
	err := s.engine.CopyFeatures(layerMultipart, features)
	if err != nil {
		return err
	}

	err = s.engine.SplitMultipart(layerMultipart, layerSinglepart)
	if err != nil {
		return err
	}

	parts, err := s.engine.Features(layerSinglepart)
	if err != nil {
		return err
	}

	for _, f := range parts {
		text, err := s.engine.ToWKT(f, target)
		if err != nil {
			return err
		}

		table.Append(keys.Next(f.Key), text)
		bar.Increment()
	}
	return nil
}

type progress struct {
	bar *pb.ProgressBar
}

func (p *Pipeline) startProgress(total int) *progress {
	if !p.config.Progress {
		return &progress{}
	}

	bar := pb.New(total)
	bar.Output = os.Stderr
	bar.Start()
	return &progress{bar: bar}
}

func (p *progress) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *progress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
