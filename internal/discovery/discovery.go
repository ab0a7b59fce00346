// Package discovery finds the Java sources to load under a project root.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/mvp-joe/fragment-lint/internal/config"
)

// StateDir is the tool's own directory under the project root. It is
// never scanned.
const StateDir = ".fraglint"

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
	// rootGlob is the pattern without its leading "**/", so that it also
	// matches at the root.
	rootGlob glob.Glob
}

// Files is the result of a discovery walk. Paths are absolute or relative
// as the root was given, in lexical order.
type Files struct {
	// Analyze lists sources that are linted.
	Analyze []string
	// Types lists sources loaded only for their declarations.
	Types []string
}

// Discovery matches project files against include, types and ignore
// patterns.
type Discovery struct {
	rootDir        string
	includes       []compiledPattern
	types          []compiledPattern
	ignorePatterns []compiledPattern
}

// New compiles the patterns of a paths configuration.
func New(rootDir string, paths config.PathsConfig) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}
	var err error
	if d.includes, err = compile(paths.Include); err != nil {
		return nil, err
	}
	if d.types, err = compile(paths.Types); err != nil {
		return nil, err
	}
	if d.ignorePatterns, err = compile(paths.Ignore); err != nil {
		return nil, err
	}
	return d, nil
}

func compile(patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
			if rg, err := glob.Compile(simplified, '/'); err == nil {
				cp.rootGlob = rg
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

// Root returns the directory discovery walks.
func (d *Discovery) Root() string {
	return d.rootDir
}

// Discover walks the root and classifies every matching file.
func (d *Discovery) Discover() (*Files, error) {
	files := &Files{Analyze: []string{}, Types: []string{}}

	err := filepath.WalkDir(d.rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if relPath != "." && d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		switch d.classify(relPath) {
		case Analyze:
			files.Analyze = append(files.Analyze, path)
		case Types:
			files.Types = append(files.Types, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	return files, nil
}

// Role says how a discovered file is loaded.
type Role int

const (
	// Skip files are not loaded.
	Skip Role = iota
	// Analyze files are linted.
	Analyze
	// Types files only contribute declarations.
	Types
)

// Classify returns the role of a path. Paths are taken relative to the
// root; a relative path given against an absolute root is read as
// root-relative. Paths outside the root are skipped.
func (d *Discovery) Classify(path string) Role {
	rel, ok := d.relative(path)
	if !ok {
		return Skip
	}
	return d.classify(rel)
}

// IgnoresDir reports whether a directory under the root is pruned from
// discovery.
func (d *Discovery) IgnoresDir(path string) bool {
	rel, ok := d.relative(path)
	if !ok || rel == "." {
		return false
	}
	return d.shouldIgnore(rel)
}

func (d *Discovery) relative(path string) (string, bool) {
	root := d.rootDir
	if filepath.IsAbs(path) != filepath.IsAbs(root) {
		if !filepath.IsAbs(path) {
			return filepath.ToSlash(filepath.Clean(path)), true
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", false
		}
		root = abs
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (d *Discovery) classify(relPath string) Role {
	if d.shouldIgnore(relPath) {
		return Skip
	}
	if matchesAny(relPath, d.includes) {
		return Analyze
	}
	if matchesAny(relPath, d.types) {
		return Types
	}
	return Skip
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if relPath == StateDir || strings.HasPrefix(relPath, StateDir+"/") {
		return true
	}
	if matchesAny(relPath, d.ignorePatterns) {
		return true
	}
	// A directory such as "build" should match pattern "build/**".
	return matchesAny(relPath+"/**", d.ignorePatterns)
}

func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.rootGlob != nil && cp.rootGlob.Match(path) {
			return true
		}
	}
	return false
}
