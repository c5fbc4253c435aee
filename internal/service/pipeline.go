package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/reputation-server/internal/repository/models"
	"github.com/godilite/reputation-server/pkg/queue"
)

// Pipeline wires the scorer, the pending queue, the reputation tracker and
// the alert gate. Submission is synchronous and fast (scoring is pure, one
// storage round-trip for find-or-create); everything durable happens later
// on the polling path.
type Pipeline struct {
	scorer     Scorer
	queue      *queue.Queue[QueuedItem]
	reputation *ReputationService
	alerts     *AlertService
	feedback   FeedbackStore
	logger     *zap.Logger
}

// NewPipeline creates a new feedback Pipeline instance.
func NewPipeline(
	scorer Scorer,
	q *queue.Queue[QueuedItem],
	reputation *ReputationService,
	alerts *AlertService,
	feedback FeedbackStore,
	logger *zap.Logger,
) *Pipeline {
	if scorer == nil || q == nil || reputation == nil || alerts == nil || feedback == nil {
		panic("pipeline dependencies must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		scorer:     scorer,
		queue:      q,
		reputation: reputation,
		alerts:     alerts,
		feedback:   feedback,
		logger:     logger.Named("pipeline"),
	}
}

// SubmitFeedback scores the submission, ensures the driver aggregate
// exists, and enqueues the enriched item for asynchronous processing. The
// returned receipt means "scored and queued", never "fully persisted".
// Fails loudly: duplicates, a full queue and storage errors all reach the
// caller, since this is their only chance to hear about them.
func (p *Pipeline) SubmitFeedback(ctx context.Context, sub FeedbackSubmission) (SubmissionReceipt, error) {
	if sub.Submitter != "" {
		exists, err := p.feedback.ExistsFor(ctx, sub.Submitter, sub.DriverID, sub.FeedbackDate)
		if err != nil {
			return SubmissionReceipt{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		if exists {
			return SubmissionReceipt{}, fmt.Errorf("driver %q on %s: %w",
				sub.DriverID, sub.FeedbackDate, ErrDuplicateFeedback)
		}
	}

	result := p.scorer.Score(sub.Text, sub.Rating)

	if _, err := p.reputation.FindOrCreateDriver(ctx, sub.DriverID, sub.DriverName); err != nil {
		return SubmissionReceipt{}, err
	}

	pos, err := p.queue.Enqueue(QueuedItem{
		Submission: sub,
		Result:     result,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, queue.ErrFull) {
			return SubmissionReceipt{}, ErrQueueFull
		}
		return SubmissionReceipt{}, fmt.Errorf("enqueue feedback: %w", err)
	}

	p.logger.Info("feedback accepted",
		zap.String("driver_id", sub.DriverID),
		zap.Float64("score", result.Score),
		zap.String("label", string(result.Label)),
		zap.Int("queue_position", pos))
	return SubmissionReceipt{Result: result, QueuePosition: pos}, nil
}

// ProcessNextItem drains at most one item from the queue. Returns false
// when the queue was empty. Any processing error is logged and the item is
// dropped: the caller's polling loop must survive bad items, and the
// submitter already received a success response. Draining a single item per
// call bounds per-tick latency when the queue is deep.
func (p *Pipeline) ProcessNextItem(ctx context.Context) (bool, error) {
	item, ok := p.queue.Dequeue()
	if !ok {
		return false, nil
	}

	if err := p.processItem(ctx, item); err != nil {
		p.logger.Error("feedback item dropped",
			zap.String("driver_id", item.Submission.DriverID),
			zap.Time("enqueued_at", item.EnqueuedAt),
			zap.Error(err))
		return true, err
	}
	return true, nil
}

func (p *Pipeline) processItem(ctx context.Context, item QueuedItem) error {
	sub := item.Submission

	rec, err := p.feedback.Create(ctx, models.FeedbackRecord{
		DriverID:     sub.DriverID,
		Submitter:    sub.Submitter,
		FeedbackDate: sub.FeedbackDate,
		Text:         sub.Text,
		Score:        item.Result.Score,
		Label:        string(item.Result.Label),
		MatchedTerms: item.Result.MatchedTerms,
		Processed:    false,
	})
	if err != nil {
		return fmt.Errorf("persist feedback: %w", err)
	}

	// Only driver-directed feedback moves the rolling average; anything
	// else still guarantees the aggregate exists for dashboards.
	var agg models.DriverAggregate
	if sub.DriverDirected() {
		agg, err = p.reputation.UpdateScore(ctx, sub.DriverID, item.Result.Score)
	} else {
		agg, err = p.reputation.FindOrCreateDriver(ctx, sub.DriverID, sub.DriverName)
	}
	if err != nil {
		return fmt.Errorf("update reputation: %w", err)
	}

	if _, err := p.alerts.CheckAndAlert(ctx, agg); err != nil {
		return fmt.Errorf("alert check: %w", err)
	}

	if err := p.feedback.MarkProcessed(ctx, rec.ID); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// QueueDepth reports the number of items awaiting processing.
func (p *Pipeline) QueueDepth() int {
	return p.queue.Len()
}
