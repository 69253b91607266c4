package forge

import "context"

// PullRequest is a read-only record of an open pull request on the hosting
// service. BaseRef and HeadRef are remote branch names.
type PullRequest struct {
	Number  int
	BaseRef string
	HeadRef string
}

// Lister enumerates open pull requests for a single repository.
// Implementations own pagination and rate limiting; callers get the full
// finite list in whatever order the service returns it.
type Lister interface {
	ListOpen(ctx context.Context) ([]PullRequest, error)
}
