package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrInvalidRepo indicates an input that does not name a repository.
	ErrInvalidRepo = errors.New("github: invalid repository, want owner/repo")

	// ErrRepoNotFound indicates the repository does not exist or is not visible to the token.
	ErrRepoNotFound = errors.New("github: repository not found")

	// ErrQueueClosed indicates the commit queue stopped accepting commits.
	ErrQueueClosed = errors.New("github: commit queue closed")
)

// RateLimitError is returned when GitHub rejected a request for exceeding the quota.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: %d/%d requests left, quota resets at %s",
		e.Remaining, e.Limit, e.ResetAt.Format(time.RFC3339))
}

// APIError is a non-success response from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("github: %s: %s", http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("github: %s %s: %s", http.StatusText(e.StatusCode), e.URL, e.Message)
}

// IsNotFound reports whether err is a 404 or ErrRepoNotFound.
func IsNotFound(err error) bool {
	return status(err) == http.StatusNotFound || errors.Is(err, ErrRepoNotFound)
}

// IsUnauthorized reports whether GitHub rejected the credentials.
func IsUnauthorized(err error) bool {
	return status(err) == http.StatusUnauthorized
}

// IsRateLimited reports whether err is a RateLimitError.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

func status(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
