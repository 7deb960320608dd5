package post

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
	"github.com/kartikeya-dewal/devConnector/internal/domain/post"
	"github.com/kartikeya-dewal/devConnector/pkg/apperror"
	"github.com/kartikeya-dewal/devConnector/pkg/logger"
)

var tracer = otel.Tracer("post_usecase")

const (
	msgPostNotFound    = "Post not found"
	msgNotAuthorized   = "User not authorized"
	msgCommentNotFound = "Comment does not exist"
)

func errPostNotFound(id string) error {
	return apperror.NewNotFound(msgPostNotFound, "post "+id).WithStatus(http.StatusNotFound)
}

// findPost loads a post and converts repository failures to app errors.
func findPost(ctx context.Context, repo post.Repository, log logger.Logger, id string) (*post.Post, error) {
	p, err := repo.FindByID(ctx, id)
	if errors.Is(err, post.ErrPostNotFound) {
		return nil, errPostNotFound(id)
	}
	if err != nil {
		log.Error("Failed to load post", err, zap.String("post_id", id))
		return nil, apperror.NewInternal("find post", err)
	}
	return p, nil
}

func publish(log logger.Logger, events service.EventPublisher, evt service.DomainEvent) {
	go func() {
		if err := events.Publish(context.Background(), evt); err != nil {
			log.Warn("Failed to publish post event",
				zap.String("event_type", string(evt.Type)),
				zap.String("resource_id", evt.ResourceID),
				zap.Error(err))
		}
	}()
}
