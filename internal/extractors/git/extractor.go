// Package git extracts commits from a local git repository using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/extractors/gitdiff"
	"github.com/custodia-labs/comani/internal/logger"
)

// Name is the registry name of this extractor.
const Name = "git"

// DateFormat is the layout git uses for the Date header line.
const DateFormat = "Mon Jan 2 15:04:05 2006 -0700"

const origin = "GitExtractor"

// ErrQueueClosed indicates the commit queue stopped accepting commits.
var ErrQueueClosed = errors.New("commit queue closed")

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads commits with go-git and pushes them into a queue.
// Each commit is diffed against its first parent; root commits are diffed
// against the empty tree.
type Extractor struct {
	queue driven.ExtractionQueue
	log   *logger.Logger
}

// New creates a git extractor writing to queue.
func New(queue driven.ExtractionQueue, log *logger.Logger) *Extractor {
	return &Extractor{queue: queue, log: log}
}

// SupportsOS returns true; go-git runs everywhere Go does.
func (e *Extractor) SupportsOS(string) bool {
	return true
}

// SupportsVCS reports whether vcs is git.
func (e *Extractor) SupportsVCS(vcs string) bool {
	return strings.EqualFold(strings.TrimSpace(vcs), "git")
}

// Extract pushes every commit reachable from HEAD, newest first.
func (e *Extractor) Extract(ctx context.Context, repoPath string) error {
	repo, err := open(repoPath)
	if err != nil {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("resolve HEAD of %s: %w", repoPath, err)
	}

	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return fmt.Errorf("read log of %s: %w", repoPath, err)
	}
	defer iter.Close()

	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.push(ctx, c); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return err
	}

	e.log.Debug(origin, "extracted %d commits from %s", count, repoPath)
	return nil
}

// ExtractIDs pushes the commits with the given ids in list order.
// Ids that do not resolve are reported together after all others are pushed.
func (e *Extractor) ExtractIDs(ctx context.Context, repoPath string, ids []string) error {
	repo, err := open(repoPath)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		hash, err := repo.ResolveRevision(plumbing.Revision(id))
		if err != nil {
			e.log.Warn(origin, "cannot resolve commit %s: %v", id, err)
			errs = append(errs, fmt.Errorf("%w: commit %s", domain.ErrNotFound, id))
			continue
		}

		c, err := repo.CommitObject(*hash)
		if err != nil {
			errs = append(errs, fmt.Errorf("read commit %s: %w", id, err))
			continue
		}

		if err := e.push(ctx, c); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}

// ExtractText parses text as the output of `git show` for one commit.
func (e *Extractor) ExtractText(_ context.Context, text string) error {
	c, err := gitdiff.ParseCommit(text)
	if err != nil {
		return err
	}
	if !e.queue.Put(c) {
		return ErrQueueClosed
	}
	return nil
}

func (e *Extractor) push(ctx context.Context, c *object.Commit) error {
	commit, err := Convert(ctx, c)
	if err != nil {
		return err
	}
	if !e.queue.Put(commit) {
		return ErrQueueClosed
	}
	e.log.Debug(origin, "queued commit %s", commit.ID)
	return nil
}

// Convert turns a go-git commit into a domain commit.
// The header mirrors `git show`: commit line, merge parents, author, date
// and the indented message.
func Convert(ctx context.Context, c *object.Commit) (*domain.Commit, error) {
	date := c.Author.When.Format(DateFormat)
	commit := domain.NewCommit(c.Hash.String(), date)

	commit.AddHeaderLine("commit " + c.Hash.String())
	if c.NumParents() > 1 {
		parents := make([]string, 0, c.NumParents())
		for _, p := range c.ParentHashes {
			parents = append(parents, p.String()[:7])
		}
		commit.AddHeaderLine("Merge: " + strings.Join(parents, " "))
	}
	commit.AddHeaderLine(fmt.Sprintf("Author: %s <%s>", c.Author.Name, c.Author.Email))
	commit.AddHeaderLine("Date:   " + date)
	commit.AddHeaderLine("")
	for _, line := range gitdiff.TextLines(strings.TrimRight(c.Message, "\n")) {
		commit.AddHeaderLine("    " + line)
	}

	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("read tree of %s: %w", c.Hash, err)
	}

	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("read parent of %s: %w", c.Hash, err)
		}
		if parentTree, err = parent.Tree(); err != nil {
			return nil, fmt.Errorf("read parent tree of %s: %w", c.Hash, err)
		}
	}

	patch, err := parentTree.PatchContext(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("diff %s: %w", c.Hash, err)
	}

	artifacts, err := gitdiff.Artifacts(patch.String())
	if err != nil {
		return nil, fmt.Errorf("parse diff of %s: %w", c.Hash, err)
	}
	for _, a := range artifacts {
		commit.AddChangedArtifact(a)
	}
	return commit, nil
}

func open(repoPath string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	return repo, nil
}
