package github

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/extractors/gitdiff"
	"github.com/custodia-labs/comani/internal/logger"
)

// Name is the registry name of this extractor.
const Name = "github"

// Property keys read by the extractor.
const (
	KeyToken   = "extraction.github.token"
	KeyBaseURL = "extraction.github.base_url"
	KeyRate    = "extraction.github.requests_per_second"

	// EnvToken is consulted when no token is configured.
	EnvToken = "GITHUB_TOKEN"
)

// DateFormat is the layout git uses for the Date header line.
const DateFormat = "Mon Jan 2 15:04:05 2006 -0700"

const origin = "GitHubExtractor"

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor fetches commits from GitHub and pushes them into a queue.
type Extractor struct {
	client *Client
	queue  driven.ExtractionQueue
	log    *logger.Logger
}

// New creates an extractor using client.
func New(client *Client, queue driven.ExtractionQueue, log *logger.Logger) *Extractor {
	return &Extractor{client: client, queue: queue, log: log}
}

// NewFromProperties creates an extractor configured from extraction properties.
func NewFromProperties(props domain.Properties, queue driven.ExtractionQueue, log *logger.Logger) (*Extractor, error) {
	perSecond := 0.0
	if v := props.Get(KeyRate); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidConfig, KeyRate)
		}
		perSecond = f
	}

	token := props.Get(KeyToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv(EnvToken))
	}

	client := NewClientWithToken(context.Background(), token, NewRateLimiterWithRate(perSecond))
	if baseURL := props.Get(KeyBaseURL); baseURL != "" {
		if err := client.SetBaseURL(baseURL); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, KeyBaseURL, err)
		}
	}

	return New(client, queue, log), nil
}

// SupportsOS returns true; the extractor only talks HTTP.
func (e *Extractor) SupportsOS(string) bool {
	return true
}

// SupportsVCS reports whether vcs is git.
func (e *Extractor) SupportsVCS(vcs string) bool {
	return strings.EqualFold(strings.TrimSpace(vcs), "git")
}

// Extract pushes every commit of the repository's default branch, newest first.
func (e *Extractor) Extract(ctx context.Context, repoPath string) error {
	owner, repo, err := ParseRepository(repoPath)
	if err != nil {
		return err
	}

	commits, err := e.client.ListCommits(ctx, owner, repo)
	if err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("%w: %s/%s", ErrRepoNotFound, owner, repo)
		}
		return err
	}
	e.log.Debug(origin, "%s/%s has %d commits", owner, repo, len(commits))

	for _, listed := range commits {
		if err := e.push(ctx, owner, repo, listed.GetSHA()); err != nil {
			return err
		}
	}
	return nil
}

// ExtractIDs pushes the commits with the given ids in list order.
// Unknown ids are reported together after all others are pushed.
func (e *Extractor) ExtractIDs(ctx context.Context, repoPath string, ids []string) error {
	owner, repo, err := ParseRepository(repoPath)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range ids {
		err := e.push(ctx, owner, repo, id)
		switch {
		case err == nil:
		case IsNotFound(err):
			e.log.Warn(origin, "commit %s not found in %s/%s", id, owner, repo)
			errs = append(errs, fmt.Errorf("%w: commit %s", domain.ErrNotFound, id))
		default:
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

func (e *Extractor) push(ctx context.Context, owner, repo, sha string) error {
	rc, err := e.client.GetCommit(ctx, owner, repo, sha)
	if err != nil {
		return err
	}

	commit := Convert(rc)
	if !e.queue.Put(commit) {
		return ErrQueueClosed
	}
	e.log.Debug(origin, "queued commit %s", commit.ID)
	return nil
}

// Convert turns a GitHub commit into a domain commit shaped like the output
// of `git show`.
func Convert(rc *gh.RepositoryCommit) *domain.Commit {
	author := rc.GetCommit().GetAuthor()
	date := ""
	if when := author.GetDate(); !when.IsZero() {
		date = when.Format(DateFormat)
	}

	commit := domain.NewCommit(rc.GetSHA(), date)
	commit.AddHeaderLine("commit " + rc.GetSHA())
	if len(rc.Parents) > 1 {
		parents := make([]string, 0, len(rc.Parents))
		for _, p := range rc.Parents {
			parents = append(parents, short(p.GetSHA()))
		}
		commit.AddHeaderLine("Merge: " + strings.Join(parents, " "))
	}
	commit.AddHeaderLine(fmt.Sprintf("Author: %s <%s>", author.GetName(), author.GetEmail()))
	commit.AddHeaderLine("Date:   " + date)
	commit.AddHeaderLine("")
	for _, line := range gitdiff.TextLines(strings.TrimRight(rc.GetCommit().GetMessage(), "\n")) {
		commit.AddHeaderLine("    " + line)
	}

	for _, f := range rc.Files {
		commit.AddChangedArtifact(toArtifact(f))
	}
	return commit
}

// toArtifact rebuilds the git diff header GitHub leaves out of the patch.
func toArtifact(f *gh.CommitFile) domain.ChangedArtifact {
	name := f.GetFilename()
	prev := f.GetPreviousFilename()
	if prev == "" {
		prev = name
	}

	artifact := domain.ChangedArtifact{
		Path: name,
		Name: path.Base(name),
	}
	artifact.DiffHeader = append(artifact.DiffHeader, "diff --git a/"+prev+" b/"+name)

	oldSide, newSide := "a/"+prev, "b/"+name
	switch f.GetStatus() {
	case "added":
		oldSide = "/dev/null"
	case "removed":
		newSide = "/dev/null"
	case "renamed":
		artifact.DiffHeader = append(artifact.DiffHeader, "rename from "+prev, "rename to "+name)
	}

	if patch := f.GetPatch(); patch != "" {
		artifact.DiffHeader = append(artifact.DiffHeader, "--- "+oldSide, "+++ "+newSide)
		artifact.Content = gitdiff.SplitLines(patch)
	}
	return artifact
}

// ParseRepository extracts owner and repository name from owner/repo or a
// repository URL such as https://github.com/owner/repo.git.
func ParseRepository(input string) (owner, repo string, err error) {
	s := strings.TrimSpace(input)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "/"); j >= 0 {
			s = s[j+1:]
		} else {
			s = ""
		}
	}
	s = strings.TrimSuffix(strings.Trim(s, "/"), ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepo, input)
	}
	return parts[0], parts[1], nil
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
