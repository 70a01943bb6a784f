// Package local stores visitor photos on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/skarthik/gatepass/internal/photostore"
)

type Store struct {
	basePath string
}

func New(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

func (s *Store) Save(_ context.Context, suggestedName string, r io.Reader) (string, error) {
	name := sanitize(suggestedName)
	if filepath.Ext(name) == "" {
		name += ".jpg" // gate cameras produce JPEG
	}
	path := filepath.Join(s.basePath, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close photo file: %w", err)
	}
	return name, nil
}

func (s *Store) Get(_ context.Context, ref string) (io.ReadCloser, string, error) {
	path, err := s.safeJoin(ref)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", photostore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	return f, mimeFor(path), nil
}

func (s *Store) Delete(_ context.Context, ref string) error {
	path, err := s.safeJoin(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return photostore.ErrNotFound
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// sanitize keeps the reference a single flat filename.
func sanitize(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "photo"
	}
	return b.String()
}

// safeJoin resolves ref under basePath and rejects traversal.
func (s *Store) safeJoin(ref string) (string, error) {
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.basePath, ref))
	if err != nil {
		return "", fmt.Errorf("invalid photo reference: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid photo reference")
	}
	return absPath, nil
}

func mimeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
