package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/Carmen-Shannon/oxy-ring/ring"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for config files whose extension names no supported format.
var ErrUnknownFormat = errors.New("config: unknown format")

// Format is a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

type codec struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

var codecs = map[Format]codec{
	FormatYAML: {yaml.Marshal, yaml.Unmarshal},
	FormatTOML: {toml.Marshal, toml.Unmarshal},
	FormatJSON: {
		func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
		json.Unmarshal,
	},
}

// FormatFor picks the format from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the format
//   - error: ErrUnknownFormat for any other extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Load reads a ring configuration file. A leading ~ expands to the user's home directory, the
// format follows the extension, and fields absent from the file keep their defaults. The
// result is normalized.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - ring.Config: the configuration
//   - error: error if the file cannot be read or parsed
func Load(path string) (ring.Config, error) {
	resolved, err := homedir.Expand(path)
	if err != nil {
		return ring.Config{}, fmt.Errorf("config: expand %s: %w", path, err)
	}
	format, err := FormatFor(resolved)
	if err != nil {
		return ring.Config{}, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return ring.Config{}, fmt.Errorf("config: read %s: %w", resolved, err)
	}
	cfg, err := Decode(data, format)
	if err != nil {
		return ring.Config{}, fmt.Errorf("%w (%s)", err, resolved)
	}
	return cfg, nil
}

// Decode parses a configuration document onto the defaults and normalizes it. An items field
// that is present but not a list is dropped with a warning, leaving the ring empty.
//
// Parameters:
//   - data: the document
//   - format: its encoding
//
// Returns:
//   - ring.Config: the configuration
//   - error: error if the document is malformed
func Decode(data []byte, format Format) (ring.Config, error) {
	c, ok := codecs[format]
	if !ok {
		return ring.Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	var doc map[string]any
	if err := c.unmarshal(data, &doc); err != nil {
		return ring.Config{}, fmt.Errorf("config: parse %s: %w", format, err)
	}
	if items, ok := doc["items"]; ok && items != nil && !isList(items) {
		log.Printf("[config] items is a %T, not a list; using no items", items)
		delete(doc, "items")
		var err error
		if data, err = c.marshal(doc); err != nil {
			return ring.Config{}, fmt.Errorf("config: re-encode %s: %w", format, err)
		}
	}

	cfg := ring.DefaultConfig()
	if err := c.unmarshal(data, &cfg); err != nil {
		return ring.Config{}, fmt.Errorf("config: parse %s: %w", format, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Encode writes a configuration in the given format.
//
// Parameters:
//   - cfg: the configuration
//   - format: the encoding
//
// Returns:
//   - []byte: the document
//   - error: error if the format is unknown or encoding fails
func Encode(cfg ring.Config, format Format) ([]byte, error) {
	c, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	data, err := c.marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: encode %s: %w", format, err)
	}
	return data, nil
}

func isList(v any) bool {
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
