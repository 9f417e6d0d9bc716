package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hackspace/internal/model"
)

// RootFS reads and writes workspace files below Root. It satisfies the workspace
// controller's Loader and Saver.
type RootFS struct {
	Root string
}

func (r RootFS) resolve(p model.Path) (string, error) {
	if strings.TrimSpace(r.Root) == "" {
		return "", errors.New("root fs: no root directory")
	}
	if len(p) == 0 {
		return "", errors.New("root fs: empty path")
	}
	for _, seg := range p {
		if seg == ".." || strings.ContainsAny(seg, `/\`) {
			return "", fmt.Errorf("root fs: invalid path segment %q", seg)
		}
	}
	return filepath.Join(append([]string{filepath.Clean(r.Root)}, p...)...), nil
}

func (r RootFS) Load(p model.Path) (string, error) {
	path, err := r.resolve(p)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Save writes content atomically, keeping the file's mode when it already exists.
func (r RootFS) Save(p model.Path, content string) error {
	path, err := r.resolve(p)
	if err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		perm = st.Mode().Perm()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, "."+filepath.Base(path)+".*.tmp", path, []byte(content), perm)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
