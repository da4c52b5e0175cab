// Package filesystem loads corpus documents from the local filesystem.
//
// A Connector reads every regular file in a directory (non-recursive)
// into a domain.Document named after its base filename. A Watcher can
// additionally report files as they are created or modified, for
// long-running processes that re-ingest on change.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
)

// Connector loads documents from a directory.
type Connector struct {
	dir string
}

// NewConnector creates a connector rooted at dir.
func NewConnector(dir string) (*Connector, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}
	return &Connector{dir: dir}, nil
}

// LoadAll reads every regular file in the directory, sorted by name.
// Hidden files are skipped.
func (c *Connector) LoadAll() ([]domain.Document, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]domain.Document, 0, len(names))
	for _, name := range names {
		doc, err := c.Load(name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Load reads a single file by base name.
func (c *Connector) Load(name string) (*domain.Document, error) {
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: document file %q", domain.ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading document %s: %w", name, err)
	}
	return &domain.Document{
		Name:    name,
		RawText: string(data),
	}, nil
}

// Dir returns the corpus directory path.
func (c *Connector) Dir() string {
	return c.dir
}
