package mocks

import (
	"context"
	"errors"

	"github.com/godilite/reputation-server/internal/service"
)

// MockPipeline is a configurable fake of the feedback pipeline surface.
type MockPipeline struct {
	SubmitFeedbackFunc func(ctx context.Context, sub service.FeedbackSubmission) (service.SubmissionReceipt, error)
	QueueDepthFunc     func() int
}

func (m *MockPipeline) SubmitFeedback(ctx context.Context, sub service.FeedbackSubmission) (service.SubmissionReceipt, error) {
	if m.SubmitFeedbackFunc != nil {
		return m.SubmitFeedbackFunc(ctx, sub)
	}
	return service.SubmissionReceipt{}, errors.New("SubmitFeedback not implemented")
}

func (m *MockPipeline) QueueDepth() int {
	if m.QueueDepthFunc != nil {
		return m.QueueDepthFunc()
	}
	return 0
}
