package cdms

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/comani/internal/core/domain"
)

// Markers. Commit and changed artifact markers carry attributes and are
// matched by prefix; all other markers must match a whole line.
const (
	commitStart     = "[CDMS::Start::Commit("
	commitEnd       = "[CDMS::End::Commit("
	headerStart     = "[CDMS::Start::CommitHeader]"
	headerEnd       = "[CDMS::End::CommitHeader]"
	artifactStart   = "[CDMS::Start::ChangedArtifact("
	artifactEnd     = "[CDMS::End::ChangedArtifact("
	diffHeaderStart = "[CDMS::Start::DiffHeader]"
	diffHeaderEnd   = "[CDMS::End::DiffHeader]"
	contentStart    = "[CDMS::Start::Content]"
	contentEnd      = "[CDMS::End::Content]"
	markerClose     = ")]"
	attrSeparator   = ","
)

const (
	// Extension is the file extension of cache files.
	Extension = ".cdms"

	filePrefix = "Commit_"

	// maxLineSize bounds a single line when decoding.
	maxLineSize = 64 * 1024 * 1024
)

// FileName returns the cache file name for a commit id.
func FileName(id string) string {
	return filePrefix + id + Extension
}

// Encode serializes c into CDMS. It fails with domain.ErrMissingIdentity if
// the commit has no id or no date.
func Encode(c *domain.Commit) ([]byte, error) {
	if c == nil || !c.HasIdentity() {
		return nil, domain.ErrMissingIdentity
	}

	var buf bytes.Buffer
	commitAttrs := c.ID + attrSeparator + c.Date

	buf.WriteString(commitStart + commitAttrs + markerClose + "\n\n")

	buf.WriteString(headerStart + "\n")
	writeLines(&buf, c.Header)
	buf.WriteString(headerEnd + "\n\n")

	for i := range c.ChangedArtifacts {
		a := &c.ChangedArtifacts[i]
		artifactAttrs := a.Path + attrSeparator + a.Name

		buf.WriteString(artifactStart + artifactAttrs + markerClose + "\n")
		buf.WriteString(diffHeaderStart + "\n")
		writeLines(&buf, a.DiffHeader)
		buf.WriteString(diffHeaderEnd + "\n")
		buf.WriteString(contentStart + "\n")
		writeLines(&buf, a.Content)
		buf.WriteString(contentEnd + "\n")
		buf.WriteString(artifactEnd + artifactAttrs + markerClose + "\n\n")
	}

	buf.WriteString(commitEnd + commitAttrs + markerClose + "\n")
	return buf.Bytes(), nil
}

func writeLines(buf *bytes.Buffer, lines []string) {
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

// Decode reads one CDMS commit from r.
func Decode(r io.Reader) (*domain.Commit, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cdms: %w", err)
	}
	return DecodeLines(lines)
}

// DecodeLines rebuilds a commit from the lines of a CDMS file.
//
// It fails if there are no lines, if no commit start marker exists or if
// the commit attributes are malformed. A missing header block yields an
// empty header. Changed artifact blocks with malformed attributes are
// skipped.
func DecodeLines(lines []string) (*domain.Commit, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty cdms data", domain.ErrMalformedCommit)
	}

	start := indexPrefix(lines, commitStart, 0)
	if start < 0 {
		return nil, fmt.Errorf("%w: no commit start marker", domain.ErrMalformedCommit)
	}
	id, date, ok := attributes(lines[start])
	if !ok {
		return nil, fmt.Errorf("%w: malformed commit attributes %q", domain.ErrMalformedCommit, lines[start])
	}
	c := domain.NewCommit(id, date)

	hs := indexExact(lines, headerStart, 0)
	he := indexExact(lines, headerEnd, hs)
	if hs >= 0 && he > hs {
		for _, line := range lines[hs+1 : he] {
			c.AddHeaderLine(line)
		}
	}

	as := indexPrefix(lines, artifactStart, 0)
	ae := indexPrefix(lines, artifactEnd, as)
	for as >= 0 && ae > as {
		if a, ok := decodeArtifact(lines[as : ae+1]); ok {
			c.AddChangedArtifact(a)
		}
		as = indexPrefix(lines, artifactStart, as+1)
		ae = indexPrefix(lines, artifactEnd, as)
	}

	return c, nil
}

// decodeArtifact parses one block from its start marker to its end marker.
func decodeArtifact(block []string) (domain.ChangedArtifact, bool) {
	path, name, ok := attributes(block[0])
	if !ok {
		return domain.ChangedArtifact{}, false
	}
	a := domain.ChangedArtifact{Path: path, Name: name}

	ds := indexExact(block, diffHeaderStart, 1)
	de := indexExact(block, diffHeaderEnd, ds)
	if ds >= 0 && de > ds {
		a.DiffHeader = append(a.DiffHeader, block[ds+1:de]...)
	}

	cs := indexExact(block, contentStart, max(de, 1))
	ce := indexExact(block, contentEnd, cs)
	if cs >= 0 && ce > cs {
		a.Content = append(a.Content, block[cs+1:ce]...)
	}

	return a, true
}

// attributes splits the "(first,second)" part of a marker line at the first
// opening parenthesis, the first comma and the last closing parenthesis.
func attributes(line string) (string, string, bool) {
	open := strings.Index(line, "(")
	sep := strings.Index(line, attrSeparator)
	closing := strings.LastIndex(line, ")")
	if open < 0 || sep <= open || closing <= sep {
		return "", "", false
	}
	return line[open+1 : sep], line[sep+1 : closing], true
}

// indexPrefix returns the index of the first line at or after from that
// starts with prefix, or -1. A negative from yields -1.
func indexPrefix(lines []string, prefix string, from int) int {
	if from < 0 {
		return -1
	}
	for i := from; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], prefix) {
			return i
		}
	}
	return -1
}

// indexExact returns the index of the first line at or after from that
// equals marker, or -1. A negative from yields -1.
func indexExact(lines []string, marker string, from int) int {
	if from < 0 {
		return -1
	}
	for i := from; i < len(lines); i++ {
		if lines[i] == marker {
			return i
		}
	}
	return -1
}
