package cdms

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CommitCache = (*Store)(nil)

// Store is a directory of CDMS files, one per commit.
// The directory must exist and be writable; Store does not create it.
type Store struct {
	dir string
}

// NewStore creates a store backed by dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes c to Commit_<id>.cdms in the cache directory.
// Nothing is written if the commit cannot be encoded.
func (s *Store) Save(c *domain.Commit) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	path := filepath.Join(s.dir, FileName(c.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Load reads the commit stored at path.
func (s *Store) Load(path string) (*domain.Commit, error) {
	return ReadFile(path)
}

// List returns the paths of all *.cdms files in the directory, sorted by name.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Clear removes every CDMS file from the directory. Other files are left alone.
func (s *Store) Clear() error {
	paths, err := s.List()
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile decodes the CDMS file at path.
func ReadFile(path string) (*domain.Commit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}
