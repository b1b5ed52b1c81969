package domain

import (
	"strconv"
	"strings"
)

// Commit is one extracted change record.
// It is created by an extractor (or rebuilt from the cache), handed through
// the commit queue and finally owned by an analyzer. Nothing in the core
// mutates a commit once it has been queued.
type Commit struct {
	// ID identifies the commit within its repository, e.g. a git hash.
	ID string

	// Date is the commit timestamp as reported by the version control system.
	Date string

	// Header holds the raw metadata lines of the commit (author, message, ...).
	Header []string

	// ChangedArtifacts lists the touched files in the order they were extracted.
	ChangedArtifacts []ChangedArtifact
}

// ChangedArtifact is one file touched by a commit.
type ChangedArtifact struct {
	// Path is the path of the artifact relative to the repository root.
	// It may be empty if unknown.
	Path string

	// Name is the file name of the artifact.
	Name string

	// DiffHeader holds the lines that introduce the change of this artifact.
	DiffHeader []string

	// Content holds the diff lines. They are never reordered or trimmed.
	Content []string
}

// NewCommit creates a commit with the given identity and no content.
func NewCommit(id, date string) *Commit {
	return &Commit{ID: id, Date: date}
}

// AddHeaderLine appends a raw header line.
func (c *Commit) AddHeaderLine(line string) {
	c.Header = append(c.Header, line)
}

// AddChangedArtifact appends an artifact, keeping extraction order.
func (c *Commit) AddChangedArtifact(a ChangedArtifact) {
	c.ChangedArtifacts = append(c.ChangedArtifacts, a)
}

// HasIdentity reports whether both id and date are set.
func (c *Commit) HasIdentity() bool {
	return c.ID != "" && c.Date != ""
}

// String renders the commit in a readable, multi-line form.
func (c *Commit) String() string {
	var sb strings.Builder
	sb.WriteString("Commit " + c.ID + " (" + c.Date + ")\n")
	if len(c.Header) > 0 {
		sb.WriteString("  Header:\n")
		for _, line := range c.Header {
			sb.WriteString("    " + line + "\n")
		}
	}
	sb.WriteString("  Changed artifacts: " + strconv.Itoa(len(c.ChangedArtifacts)) + "\n")
	for i := range c.ChangedArtifacts {
		sb.WriteString(c.ChangedArtifacts[i].String())
	}
	return sb.String()
}

// String renders the artifact indented for use inside Commit.String.
func (a *ChangedArtifact) String() string {
	var sb strings.Builder
	sb.WriteString("    " + a.Path + " (" + a.Name + ")\n")
	for _, line := range a.DiffHeader {
		sb.WriteString("      " + line + "\n")
	}
	for _, line := range a.Content {
		sb.WriteString("      " + line + "\n")
	}
	return sb.String()
}
