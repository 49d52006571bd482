package fallback

import (
	"context"
	"fmt"
	"os"
)

// FileSnapshot serves the bundled bank-code dataset from disk.
// The file is read on every call so an operator can replace it without a restart.
type FileSnapshot struct {
	path string
}

func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

func (f *FileSnapshot) LoadSnapshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read bank snapshot %s: %w", f.path, err)
	}
	return data, nil
}
