package discover

import (
	"path/filepath"
	"strings"

	"github.com/unbound-force/zentest/internal/config"
)

// Filter returns true if the given relative path should be included
// when expanding a directory, based on the patterns in scan.
//
// Logic:
//  1. If include patterns are set, the file must match at least one.
//  2. If the file matches any exclude pattern, it is excluded.
//  3. Otherwise, the file is included.
func Filter(rel string, scan config.ScanConfig) bool {
	rel = filepath.ToSlash(rel)

	if len(scan.Include) > 0 {
		matched := false
		for _, pattern := range scan.Include {
			if matchGlob(pattern, rel) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pattern := range scan.Exclude {
		if matchGlob(pattern, rel) {
			return false
		}
	}

	return true
}

// matchGlob matches a path against a glob pattern. It supports
// both simple glob syntax (filepath.Match) and double-star
// prefix patterns like "vendor/**" and "tmp/**".
func matchGlob(pattern, rel string) bool {
	if strings.HasSuffix(pattern, "/**") {
		prefix := strings.TrimSuffix(pattern, "/**")
		return rel == prefix || strings.HasPrefix(rel, prefix+"/")
	}

	matched, err := filepath.Match(pattern, rel)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Patterns without a separator also match the base name, so
	// "*_spec.rb" excludes spec files at any depth.
	if !strings.Contains(pattern, "/") {
		matched, err = filepath.Match(pattern, filepath.Base(rel))
		if err != nil {
			return false
		}
		return matched
	}

	return false
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
