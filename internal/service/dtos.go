package service

import (
	"strings"
	"time"

	"github.com/godilite/reputation-server/internal/sentiment"
)

// FeedbackSubmission is the ephemeral input to the pipeline. Field shapes
// are validated at the transport boundary; the pipeline assumes they hold.
type FeedbackSubmission struct {
	DriverID     string
	DriverName   string
	Text         string
	Rating       int // 0 means no explicit star rating
	Submitter    string
	FeedbackDate string // calendar date, YYYY-MM-DD
}

// DriverDirected reports whether the submission carries a signal about the
// driver: an explicit star rating or a non-blank comment. Submissions
// failing this predicate are persisted for audit but do not move the
// driver's rolling average.
func (s FeedbackSubmission) DriverDirected() bool {
	if s.Rating >= 1 && s.Rating <= 5 {
		return true
	}
	return strings.TrimSpace(s.Text) != ""
}

// QueuedItem is one pending unit of asynchronous processing. It is created
// at submission time and dequeued exactly once; a failed item is not
// re-queued.
type QueuedItem struct {
	Submission FeedbackSubmission
	Result     sentiment.Result
	EnqueuedAt time.Time
}

// SubmissionReceipt is returned synchronously from SubmitFeedback. It means
// "scored and queued", never "fully persisted".
type SubmissionReceipt struct {
	Result        sentiment.Result
	QueuePosition int
}
