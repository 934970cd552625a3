package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Store is the artifact sink: it accepts finished artifact bytes under a
// destination key and returns a retrievable URL. Re-putting the same key
// overwrites the previous content.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	URL(key string) string
}

// LocalStore implements Store on the local filesystem. Keys map to paths under
// the root directory and URLs to paths under the public base (served by the
// HTTP layer).
type LocalStore struct {
	root       string
	publicBase string
}

// NewLocalStore creates a LocalStore rooted at root. publicBase is the URL
// prefix artifacts are served under; empty means "/artifacts".
func NewLocalStore(root, publicBase string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating artifact root: %w", err)
	}
	if publicBase == "" {
		publicBase = "/artifacts"
	}
	return &LocalStore{
		root:       root,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Root returns the directory artifacts are written under.
func (s *LocalStore) Root() string { return s.root }

// Put writes data to <root>/<key>, creating parent directories as needed.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	clean, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0755); err != nil {
		return "", fmt.Errorf("creating artifact directory: %w", err)
	}
	if err := os.WriteFile(clean, data, 0644); err != nil {
		return "", fmt.Errorf("writing artifact %s: %w", key, err)
	}
	return s.URL(key), nil
}

// URL returns the public path an artifact key is served at.
func (s *LocalStore) URL(key string) string {
	return s.publicBase + "/" + strings.TrimLeft(path.Clean("/"+key), "/")
}

// Get reads back a previously stored artifact.
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	clean, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("reading artifact %s: %w", key, err)
	}
	return data, nil
}

// ListKeys returns the keys of all artifacts under prefix, sorted.
func (s *LocalStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	base, err := s.resolve(prefix)
	if err != nil {
		return nil, err
	}

	var keys []string
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("listing artifacts under %s: %w", prefix, err)
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid artifact key: %s", key)
	}
	return filepath.Join(s.root, clean), nil
}
