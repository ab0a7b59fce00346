package git

// MockGitOps is a mock implementation of Operations for testing.
type MockGitOps struct {
	Root    string
	Changed []string
	Err     error
}

// NewMockGitOps creates a mock rooted at root.
func NewMockGitOps(root string, changed ...string) *MockGitOps {
	return &MockGitOps{Root: root, Changed: changed}
}

func (m *MockGitOps) WorktreeRoot(projectPath string) string {
	return m.Root
}

func (m *MockGitOps) ChangedFiles(projectPath, base string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Changed, nil
}
