package httpapi

import (
	"context"
	"time"

	"github.com/godilite/reputation-server/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// FeedbackPipeline is the synchronous surface of the feedback pipeline.
type FeedbackPipeline interface {
	SubmitFeedback(ctx context.Context, sub service.FeedbackSubmission) (service.SubmissionReceipt, error)
	QueueDepth() int
}
