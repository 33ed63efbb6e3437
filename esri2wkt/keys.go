package esri2wkt

import (
	"fmt"
	"sort"
)

// KeyAssigner hands out the final keys of one run. Simple features keep
// their nominal key; parts of multipart features get "<key>-<n>" where n
// counts per nominal key across the whole run, so two multipart features
// sharing a key are numbered in one sequence.
type KeyAssigner struct {
	counters map[string]int
	used     map[string]bool
}

func NewKeyAssigner() *KeyAssigner {
	return &KeyAssigner{
		counters: make(map[string]int),
		used:     make(map[string]bool),
	}
}

// Simple reserves key for a single part feature.
func (k *KeyAssigner) Simple(key string) (string, error) {
	if k.used[key] {
		return "", &KeyCollisionError{Key: key}
	}
	k.used[key] = true
	return key, nil
}

// Next returns the next numbered key for a part of a multipart feature.
// Numbers that would collide with a key already handed out are skipped.
func (k *KeyAssigner) Next(key string) string {
	for {
		k.counters[key]++
		final := fmt.Sprintf("%s-%d", key, k.counters[key])
		if !k.used[final] {
			k.used[final] = true
			return final
		}
	}
}

// keySet collects distinct nominal keys for diagnostics.
type keySet map[string]struct{}

func (s keySet) Add(key string) {
	s[key] = struct{}{}
}

// Sorted returns the keys in lexical order.
func (s keySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
