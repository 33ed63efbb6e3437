package esri2wkt

// Classification partitions a layer by part count. Order within each
// group follows the input.
type Classification struct {
	Simple    []*Feature
	Composite []*Feature

	// Skipped holds degenerate features without any part.
	Skipped []*Feature
}

// Classify expects Parts to be set on every feature.
func Classify(features []*Feature) *Classification {
	c := &Classification{
		Simple:    make([]*Feature, 0, len(features)),
		Composite: make([]*Feature, 0),
		Skipped:   make([]*Feature, 0),
	}

	for _, f := range features {
		switch {
		case f.Parts == 1:
			c.Simple = append(c.Simple, f)
		case f.Parts > 1:
			c.Composite = append(c.Composite, f)
		default:
			c.Skipped = append(c.Skipped, f)
		}
	}
	return c
}
