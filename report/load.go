package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML lets the payload carry either the form value or the English slug.
func (v *Variant) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" {
		*v = ""
		return nil
	}
	parsed, err := ParseVariant(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*v = parsed
	return nil
}

// Decode reads a YAML or JSON payload. JSON is accepted because it is a YAML subset.
func Decode(r io.Reader) (*Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read report data: %w", err)
	}
	var data Data
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("decode report data: %w", err)
		}
	}
	data.Normalize()
	return &data, nil
}

// Load decodes the payload stored at path on fs.
func Load(fs afero.Fs, path string) (*Data, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report data %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
