package driven

import "github.com/custodia-labs/comani/internal/core/domain"

// CommitCache persists commits so a later run can reuse them
// instead of extracting again.
type CommitCache interface {
	// Save writes c to the cache, replacing an earlier copy.
	Save(c *domain.Commit) error

	// Load reads one cached commit from path.
	Load(path string) (*domain.Commit, error)

	// List returns the paths of all cached commits, sorted by name.
	List() ([]string, error)

	// Clear removes all cached commits.
	Clear() error

	// Dir returns the cache directory.
	Dir() string
}
