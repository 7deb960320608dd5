package github

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

var tracer = otel.Tracer("github_usecase")

type FetchReposUseCase struct {
	client service.GitHubClient
	logger logger.Logger
}

func NewFetchReposUseCase(client service.GitHubClient, log logger.Logger) *FetchReposUseCase {
	return &FetchReposUseCase{client: client, logger: log}
}

// FetchReposOutput carries either the repo list or, when GitHub answered
// with anything but 200, the not-found signal together with whatever the
// upstream body parsed to. Callers see both halves of a failed lookup.
type FetchReposOutput struct {
	Found    bool
	Repos    json.RawMessage
	Upstream json.RawMessage
}

func (uc *FetchReposUseCase) Execute(ctx context.Context, username string) (*FetchReposOutput, error) {
	ctx, span := tracer.Start(ctx, "FetchRepos")
	defer span.End()
	span.SetAttributes(attribute.String("username", username))

	listing, err := uc.client.ListRecentRepos(ctx, username)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("GitHub request failed", err, zap.String("username", username))
		return nil, apperror.NewInternal("github transport", err)
	}
	span.SetAttributes(attribute.Int("upstream_status", listing.StatusCode))

	if listing.StatusCode != http.StatusOK {
		return &FetchReposOutput{Upstream: asJSON(listing.Body)}, nil
	}

	if !json.Valid(listing.Body) {
		err := apperror.NewInternal("github returned malformed json", nil)
		span.RecordError(err)
		uc.logger.Error("GitHub body is not JSON", err, zap.String("username", username))
		return nil, err
	}
	return &FetchReposOutput{Found: true, Repos: listing.Body}, nil
}

// asJSON returns body when it is JSON and the body as a JSON string
// otherwise.
func asJSON(body []byte) json.RawMessage {
	if len(body) > 0 && json.Valid(body) {
		return body
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
