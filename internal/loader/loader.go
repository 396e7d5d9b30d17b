// Package loader reads the source units an analysis run scans: named
// files, or standard input when the reserved "-" path is given.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// StdinPath is the reserved path that reads a source unit from
// standard input instead of a named file.
const StdinPath = "-"

// ErrEmptyPath is returned for an empty source path.
var ErrEmptyPath = errors.New("empty source path")

// Source is one unit of source text together with where it came from.
type Source struct {
	// Path is the file path, or StdinPath.
	Path string

	// Content is the full text of the unit.
	Content []byte
}

// IsStdin reports whether the source was read from standard input.
func (s Source) IsStdin() bool { return s.Path == StdinPath }

// Load reads a single source unit. stdin is consulted only when path
// is StdinPath; a nil stdin falls back to os.Stdin.
func Load(path string, stdin io.Reader) (Source, error) {
	if path == "" {
		return Source{}, ErrEmptyPath
	}

	if path == StdinPath {
		if stdin == nil {
			stdin = os.Stdin
		}
		content, err := io.ReadAll(stdin)
		if err != nil {
			return Source{}, fmt.Errorf("reading standard input: %w", err)
		}
		return Source{Path: path, Content: content}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("loading source %q: %w", path, err)
	}
	return Source{Path: path, Content: content}, nil
}

// LoadAll reads every path in order. It stops at the first unreadable
// file. Standard input is drained on its first use, so a repeated "-"
// yields an empty unit.
func LoadAll(paths []string, stdin io.Reader) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		src, err := Load(p, stdin)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}
