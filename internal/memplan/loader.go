package memplan

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a memory plan: configuration plus
// the lifetime table, optionally with pre-assigned offsets when the
// document records a completed plan for verification.
type Document struct {
	Config Config `yaml:"config"`
	Plan   Plan   `yaml:"plan"`
}

// Load reads a plan document from a YAML file. Unknown fields are a
// load error; silently ignoring a misspelled flag would let a relaxed
// verification pass where a strict one was intended.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan document: %w", err)
	}
	return Parse(data)
}

// Parse decodes a plan document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	doc.Config = DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding plan document: %w", err)
	}
	for _, iv := range doc.Plan.Intervals {
		if iv.Name == "" {
			return nil, planErrf(ErrBadInterval, "", "interval without a name")
		}
	}
	return &doc, nil
}
