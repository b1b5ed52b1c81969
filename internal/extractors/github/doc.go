// Package github extracts commits from a GitHub repository through the REST API.
//
// The repository is named by the extraction input as owner/repo or as a
// repository URL. Each commit is fetched with its file patches and turned
// into the same shape the git extractor produces, so analyzers cannot tell
// the two sources apart.
//
// # Authentication
//
// A token is read from extraction.github.token, falling back to the
// GITHUB_TOKEN environment variable. Without a token the unauthenticated
// API is used, which allows 60 requests per hour.
//
// # Rate Limiting
//
// Requests are throttled proactively with a token bucket and reactively from
// the X-RateLimit headers. A request rejected for rate limiting is retried
// once after the limit resets.
package github
