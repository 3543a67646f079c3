package card

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/cardbuilder/pkg/errors"
)

// Format is a card file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported card file %q (use .json, .yaml or .toml)", path)
}

// ReadFile loads a card from path.
func ReadFile(path string) (Card, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Card{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Card{}, fmt.Errorf("read card: %w", err)
	}
	return Decode(data, format)
}

// WriteFile saves c to path in the format its extension names.
func WriteFile(path string, c Card) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(c, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create card dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write card: %w", err)
	}
	return nil
}

// Encode serialises c. YAML and TOML are produced from the JSON form so all
// three formats share one schema.
func Encode(c Card, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal card: %w", err)
	}
	if format == FormatJSON {
		return append(data, '\n'), nil
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("marshal card: %w", err)
	}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q", format)
}

// Decode parses a card in format.
func Decode(data []byte, format Format) (Card, error) {
	var c Card
	if format == FormatJSON {
		if err := json.Unmarshal(data, &c); err != nil {
			return Card{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse json card")
		}
		return c, nil
	}

	var doc map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Card{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse yaml card")
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return Card{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse toml card")
		}
	default:
		return Card{}, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q", format)
	}

	// TOML dates decode as time.Time, which re-encodes as RFC 3339.
	raw, err := json.Marshal(doc)
	if err != nil {
		return Card{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "convert %s card", format)
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return Card{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse %s card", format)
	}
	return c, nil
}
