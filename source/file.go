package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/civicindex/request"
)

// Fixture is the on-disk shape of a request file:
//
//	requests:
//	  - owner_id: u1
//	    title: Pothole on Main St
//	    status: in_progress
type Fixture struct {
	Requests []request.Request `json:"requests" yaml:"requests" toml:"requests"`
}

// Format names a fixture encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf maps a file extension to its Format.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// LoadFile reads a fixture file into a new Memory. Read failures wrap
// ErrRecordSourceUnavailable.
func LoadFile(path string) (*Memory, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrRecordSourceUnavailable, path, err)
	}
	m, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("source: load %s: %w", path, err)
	}
	return m, nil
}

// Decode parses a fixture from r and adds every request to a new Memory.
// Status strings are normalised with request.ParseStatus; an empty status
// means Submitted.
func Decode(r io.Reader, format Format) (*Memory, error) {
	var fx Fixture
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&fx); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&fx); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&fx); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	m := NewMemory()
	for i, req := range fx.Requests {
		if req.Status != "" {
			st, err := request.ParseStatus(string(req.Status))
			if err != nil {
				return nil, fmt.Errorf("request %d: %w", i, err)
			}
			req.Status = st
		}
		if _, err := m.Add(req); err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
	}
	return m, nil
}

// File is a Source that re-reads its fixture on every Stream, so each
// rebuild sees the current file contents.
type File struct {
	Path string
}

// Compile-time check that File implements Source.
var _ Source = File{}

// Stream loads the file and streams the matching requests.
func (f File) Stream(ctx context.Context, flt request.Filter) iter.Seq2[*request.Request, error] {
	return func(yield func(*request.Request, error) bool) {
		m, err := LoadFile(f.Path)
		if err != nil {
			yield(nil, err)
			return
		}
		for r, err := range m.Stream(ctx, flt) {
			if !yield(r, err) || err != nil {
				return
			}
		}
	}
}
