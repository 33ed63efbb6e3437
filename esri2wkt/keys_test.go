package esri2wkt

import (
	"testing"

	"github.com/cheekybits/is"
)

func TestSimpleKeysUnchanged(t *testing.T) {
	is := is.New(t)

	k := NewKeyAssigner()
	key, err := k.Simple("R1")
	is.NoErr(err)
	is.Equal(key, "R1")

	key, err = k.Simple("R2")
	is.NoErr(err)
	is.Equal(key, "R2")
}

func TestDuplicateSimpleKey(t *testing.T) {
	is := is.New(t)

	k := NewKeyAssigner()
	_, err := k.Simple("R1")
	is.NoErr(err)

	_, err = k.Simple("R1")
	is.Err(err)
	collision, ok := err.(*KeyCollisionError)
	is.True(ok)
	is.Equal(collision.Key, "R1")
}

func TestNumberedKeys(t *testing.T) {
	is := is.New(t)

	k := NewKeyAssigner()
	is.Equal(k.Next("R1"), "R1-1")
	is.Equal(k.Next("R1"), "R1-2")
	is.Equal(k.Next("R3"), "R3-1")

	// A second multipart feature with the same key continues the sequence
	is.Equal(k.Next("R1"), "R1-3")
}

func TestNumberedKeysSkipReserved(t *testing.T) {
	is := is.New(t)

	k := NewKeyAssigner()
	_, err := k.Simple("R1-1")
	is.NoErr(err)

	is.Equal(k.Next("R1"), "R1-2")
	is.Equal(k.Next("R1"), "R1-3")

	// Generated keys are reserved too
	_, err = k.Simple("R1-2")
	is.Err(err)
}

func TestKeySetSorted(t *testing.T) {
	is := is.New(t)

	s := make(keySet)
	s.Add("b")
	s.Add("a")
	s.Add("b")
	is.Equal(s.Sorted(), []string{"a", "b"})
}
