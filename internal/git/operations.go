// Package git asks git which files of a worktree changed.
package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Operations defines the git queries fraglint needs.
// This allows mocking git commands in tests.
type Operations interface {
	// WorktreeRoot returns the git worktree root path.
	// Falls back to projectPath if not a git repository.
	WorktreeRoot(projectPath string) string

	// ChangedFiles returns the files that differ from base, including
	// staged, unstaged and untracked files, as absolute paths. Deleted
	// files are omitted.
	ChangedFiles(projectPath, base string) ([]string, error)
}

// gitOps is the real implementation using exec.Command.
type gitOps struct{}

// NewOperations returns the default git operations implementation.
func NewOperations() Operations {
	return &gitOps{}
}

func (g *gitOps) WorktreeRoot(projectPath string) string {
	output, err := run(projectPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return projectPath
	}
	return strings.TrimSpace(string(output))
}

func (g *gitOps) ChangedFiles(projectPath, base string) ([]string, error) {
	if base == "" {
		base = "HEAD"
	}
	root := g.WorktreeRoot(projectPath)

	diff, err := run(projectPath, "diff", "--name-only", "--diff-filter=d", "-z", base, "--")
	if err != nil {
		return nil, fmt.Errorf("git diff against %s failed: %w", base, err)
	}
	untracked, err := run(projectPath, "ls-files", "--others", "--exclude-standard", "--full-name", "-z")
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	seen := make(map[string]bool)
	var files []string
	for _, out := range [][]byte{diff, untracked} {
		for _, name := range bytes.Split(out, []byte{0}) {
			if len(name) == 0 {
				continue
			}
			path := filepath.Join(root, filepath.FromSlash(string(name)))
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func run(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return output, nil
}
