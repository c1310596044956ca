package model

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format is a model file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf picks the encoding from a file extension; anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}

	return FormatYAML
}

// LoadFile loads and parses a model file from the given path.
func LoadFile(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model file %s", path)
	}

	b, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, errors.Wrapf(err, "model file %s", path)
	}

	return b, nil
}

// Parse decodes a model. Defaults are applied by Prepare, not here.
func Parse(data []byte, format Format) (*Batch, error) {
	var (
		b   Batch
		err error
	)

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &b)
	default:
		err = yaml.Unmarshal(data, &b)
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to parse model")
	}

	if b.Output.Path == "" {
		return nil, errors.New("model has no output package path")
	}

	return &b, nil
}

// Marshal serializes a batch in the given format.
func Marshal(b *Batch, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(b, "", "  ")
	}

	return yaml.Marshal(b)
}

// WriteFile writes a batch to path, choosing the format from the extension.
func WriteFile(b *Batch, path string) error {
	data, err := Marshal(b, FormatOf(path))
	if err != nil {
		return errors.Wrap(err, "failed to marshal model")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write model file %s", path)
	}

	return nil
}
