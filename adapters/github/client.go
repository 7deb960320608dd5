package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/config"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "devconnector-api"
	repoPageSize   = "5"
	repoSort       = "created:asc"
)

type httpClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
	logger       logger.Logger
}

// NewClient builds the repository listing client. Requests carry no
// timeout of their own; callers bound them through the context.
func NewClient(cfg config.Config, log logger.Logger) service.GitHubClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.GitHub.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &httpClient{
		baseURL:      baseURL,
		clientID:     cfg.GitHub.ClientID,
		clientSecret: cfg.GitHub.ClientSecret,
		client:       &http.Client{},
		logger:       log.Named("github"),
	}
}

// ListRecentRepos fetches the user's five most recently created repos and
// returns the upstream status and body untouched.
func (c *httpClient) ListRecentRepos(ctx context.Context, username string) (*service.RepoListing, error) {
	q := url.Values{}
	q.Set("per_page", repoPageSize)
	q.Set("sort", repoSort)
	if c.clientID != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.clientSecret)
	}
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build github request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github request for %s: %w", username, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read github response for %s: %w", username, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("GitHub returned non-200",
			zap.String("username", username),
			zap.Int("status", resp.StatusCode))
	}
	return &service.RepoListing{StatusCode: resp.StatusCode, Body: body}, nil
}
