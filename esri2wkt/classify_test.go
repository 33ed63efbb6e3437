package esri2wkt

import (
	"testing"

	"github.com/cheekybits/is"
)

func TestClassify(t *testing.T) {
	is := is.New(t)

	features := []*Feature{
		{Index: 0, Key: "a", Parts: 1},
		{Index: 1, Key: "b", Parts: 3},
		{Index: 2, Key: "c", Parts: 0},
		{Index: 3, Key: "d", Parts: 1},
		{Index: 4, Key: "e", Parts: 2},
	}

	c := Classify(features)
	is.Equal(len(c.Simple), 2)
	is.Equal(c.Simple[0].Key, "a")
	is.Equal(c.Simple[1].Key, "d")

	is.Equal(len(c.Composite), 2)
	is.Equal(c.Composite[0].Key, "b")
	is.Equal(c.Composite[1].Key, "e")

	is.Equal(len(c.Skipped), 1)
	is.Equal(c.Skipped[0].Key, "c")
}

func TestClassifyEmpty(t *testing.T) {
	is := is.New(t)

	c := Classify(nil)
	is.Equal(len(c.Simple), 0)
	is.Equal(len(c.Composite), 0)
	is.Equal(len(c.Skipped), 0)
}
