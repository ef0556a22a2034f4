package definition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format names a definition encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FormatFromPath picks the format from a file extension.
// Unknown extensions default to YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".fst", ".txt":
		return FormatText
	default:
		return FormatYAML
	}
}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt", "fst":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown definition format %q", name)
}

// LoadFile reads and validates a definition file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	def, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def, nil
}

// Parse decodes and validates a definition.
func Parse(data []byte, format Format) (*Definition, error) {
	var def Definition
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse json definition: %w", err)
		}
	case FormatText:
		d, err := parseText(data)
		if err != nil {
			return nil, err
		}
		def = *d
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse yaml definition: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown definition format %q", format)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Decode builds a definition from a generic map, such as document frontmatter
// or a decoded request body. Numeric symbols are accepted and converted to
// strings.
func Decode(raw map[string]any) (*Definition, error) {
	var def Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Marshal encodes a definition.
func Marshal(def *Definition, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(def, "", "  ")
	case FormatText:
		return formatText(def), nil
	case FormatYAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return nil, fmt.Errorf("failed to encode yaml definition: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown definition format %q", format)
}
