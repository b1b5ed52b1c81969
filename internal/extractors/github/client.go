package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// PerPage is the page size for list requests.
	PerPage = 100
)

// Client wraps the go-github client with helper methods.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClientWithToken creates a GitHub client with a static access token.
// An empty token yields an unauthenticated client.
func NewClientWithToken(ctx context.Context, token string, limiter *RateLimiter) *Client {
	if token == "" {
		return NewClientWithHTTPClient(&http.Client{Timeout: DefaultTimeout}, limiter)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return NewClientWithHTTPClient(tc, limiter)
}

// NewClientWithHTTPClient creates a GitHub client with a custom http.Client.
// A nil limiter means the default proactive rate.
func NewClientWithHTTPClient(httpClient *http.Client, limiter *RateLimiter) *Client {
	if limiter == nil {
		limiter = NewRateLimiter()
	}
	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: limiter,
	}
}

// SetBaseURL points the client at another API endpoint, e.g. a GitHub
// Enterprise server.
func (c *Client) SetBaseURL(baseURL string) error {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url %q is not absolute", baseURL)
	}
	c.gh.BaseURL = u
	return nil
}

// ListCommits returns all commits of the default branch, newest first.
func (c *Client) ListCommits(ctx context.Context, owner, repo string) ([]*gh.RepositoryCommit, error) {
	var allCommits []*gh.RepositoryCommit

	opts := &gh.CommitsListOptions{
		ListOptions: gh.ListOptions{PerPage: PerPage},
	}

	for {
		select {
		case <-ctx.Done():
			return allCommits, ctx.Err()
		default:
		}

		var commits []*gh.RepositoryCommit
		resp, err := c.call(ctx, "list commits", func() (*gh.Response, error) {
			var (
				resp *gh.Response
				err  error
			)
			commits, resp, err = c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
			return resp, err
		})
		if err != nil {
			return nil, err
		}

		allCommits = append(allCommits, commits...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allCommits, nil
}

// GetCommit fetches a single commit with all of its changed files.
// GitHub pages the file list of large commits; all pages are merged.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*gh.RepositoryCommit, error) {
	var commit *gh.RepositoryCommit

	opts := &gh.ListOptions{PerPage: PerPage}
	for {
		var page *gh.RepositoryCommit
		resp, err := c.call(ctx, "get commit", func() (*gh.Response, error) {
			var (
				resp *gh.Response
				err  error
			)
			page, resp, err = c.gh.Repositories.GetCommit(ctx, owner, repo, sha, opts)
			return resp, err
		})
		if err != nil {
			return nil, err
		}

		if commit == nil {
			commit = page
		} else {
			commit.Files = append(commit.Files, page.Files...)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return commit, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// call waits for the rate limiter, performs fn and retries it once after the
// limit resets if GitHub rejected it for rate limiting.
func (c *Client) call(ctx context.Context, operation string, fn func() (*gh.Response, error)) (*gh.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		resp, err := fn()
		if resp != nil {
			c.rateLimiter.Observe(resp.Rate)
		}
		err = c.wrapError(err, operation)
		if err == nil || attempt > 0 || !IsRateLimited(err) {
			return resp, err
		}

		if err := c.rateLimiter.WaitForReset(ctx); err != nil {
			return nil, fmt.Errorf("rate limit reset wait: %w", err)
		}
	}
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Check for rate limit error
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	// Check for GitHub error response
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
