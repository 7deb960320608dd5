package service

import "context"

// RepoListing is the raw upstream answer for a user's repository list.
type RepoListing struct {
	StatusCode int
	Body       []byte
}

type GitHubClient interface {
	ListRecentRepos(ctx context.Context, username string) (*RepoListing, error)
}
