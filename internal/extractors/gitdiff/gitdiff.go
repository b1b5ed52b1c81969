// Package gitdiff converts git's textual commit output into commits.
//
// The accepted input is what `git show` or `git log -p` prints for a single
// commit: metadata lines, a blank line, the indented message and a unified
// diff with one "diff --git" section per changed file.
package gitdiff

import (
	"fmt"
	"path"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/custodia-labs/comani/internal/core/domain"
)

const (
	diffStart    = "diff --git "
	commitPrefix = "commit "
	datePrefix   = "Date:"
	devNull      = "/dev/null"
)

// ParseCommit builds a commit from the text of a single commit.
// The commit id is taken from the "commit" line and the date from the
// "Date:" line. Every line before the first diff becomes a header line.
func ParseCommit(text string) (*domain.Commit, error) {
	lines := SplitLines(text)

	split := len(lines)
	for i, line := range lines {
		if strings.HasPrefix(line, diffStart) {
			split = i
			break
		}
	}

	header := trimBlank(TextLines(strings.Join(lines[:split], "\n")))
	commit := domain.NewCommit("", "")
	for _, line := range header {
		switch {
		case commit.ID == "" && strings.HasPrefix(line, commitPrefix):
			if fields := strings.Fields(line[len(commitPrefix):]); len(fields) > 0 {
				commit.ID = fields[0]
			}
		case commit.Date == "" && strings.HasPrefix(line, datePrefix):
			commit.Date = strings.TrimSpace(line[len(datePrefix):])
		}
		commit.AddHeaderLine(line)
	}

	if commit.ID == "" {
		return nil, fmt.Errorf("%w: no commit line", domain.ErrMalformedCommit)
	}

	if split < len(lines) {
		artifacts, err := Artifacts(strings.Join(lines[split:], "\n") + "\n")
		if err != nil {
			return nil, err
		}
		for _, a := range artifacts {
			commit.AddChangedArtifact(a)
		}
	}

	return commit, nil
}

// Artifacts splits a unified git diff into one changed artifact per file.
// The diff header holds the extended header lines followed by the file
// lines; the content holds the hunks including their "@@" lines.
func Artifacts(patch string) ([]domain.ChangedArtifact, error) {
	if strings.TrimSpace(patch) == "" {
		return nil, nil
	}

	files, err := diff.NewMultiFileDiffReader(strings.NewReader(patch)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCommit, err)
	}

	artifacts := make([]domain.ChangedArtifact, 0, len(files))
	for _, fd := range files {
		artifact, err := toArtifact(fd)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

func toArtifact(fd *diff.FileDiff) (domain.ChangedArtifact, error) {
	p := artifactPath(fd)
	artifact := domain.ChangedArtifact{
		Path: p,
		Name: path.Base(p),
	}
	if p == "" {
		artifact.Name = ""
	}

	artifact.DiffHeader = append(artifact.DiffHeader, fd.Extended...)
	if len(fd.Hunks) > 0 {
		artifact.DiffHeader = append(artifact.DiffHeader, "--- "+fd.OrigName, "+++ "+fd.NewName)

		hunks, err := diff.PrintHunks(fd.Hunks)
		if err != nil {
			return artifact, fmt.Errorf("%w: %v", domain.ErrMalformedCommit, err)
		}
		artifact.Content = SplitLines(string(hunks))
	}
	return artifact, nil
}

// artifactPath prefers the new name and falls back to the old one for
// deletions. Renames and binary changes may carry no file lines, so the
// "diff --git" line is the last resort.
func artifactPath(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == devNull {
		name = fd.OrigName
	}
	if name == "" || name == devNull {
		name = fromGitLine(fd.Extended)
	}
	return stripSide(name)
}

func fromGitLine(extended []string) string {
	for _, line := range extended {
		if !strings.HasPrefix(line, diffStart) {
			continue
		}
		rest := line[len(diffStart):]
		if i := strings.LastIndex(rest, " b/"); i >= 0 {
			return rest[i+1:]
		}
	}
	return ""
}

func stripSide(name string) string {
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}

// SplitLines splits text at newlines. Lines are kept verbatim, so a carriage
// return ending a line stays part of it. A trailing newline does not
// produce an empty last line.
func SplitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// TextLines splits message or header text into lines, accepting both LF and
// CRLF line endings.
func TextLines(text string) []string {
	return SplitLines(strings.ReplaceAll(text, "\r\n", "\n"))
}

// trimBlank drops leading and trailing blank lines.
func trimBlank(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}
