//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"github.com/godilite/reputation-server/internal/httpapi"
	"github.com/godilite/reputation-server/internal/httpapi/mocks"
	"github.com/godilite/reputation-server/internal/repository"
	"github.com/godilite/reputation-server/internal/repository/models"
	"github.com/godilite/reputation-server/internal/sentiment"
	"github.com/godilite/reputation-server/internal/service"
	"github.com/godilite/reputation-server/pkg/queue"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stack struct {
	pipeline *service.Pipeline
	server   *httptest.Server
}

func setupStack(t *testing.T, queueCap int) *stack {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.EnsureSchema(context.Background(), db))

	logger := zap.NewNop()
	driverRepo := repository.NewDriverRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	reputation := service.NewReputationService(driverRepo, logger)
	alerts := service.NewAlertService(alertRepo, 2.5, time.Hour, logger)
	pipeline := service.NewPipeline(
		sentiment.NewScorer(),
		queue.New[service.QueuedItem](queueCap),
		reputation,
		alerts,
		feedbackRepo,
		logger,
	)

	handlers := httpapi.NewHandlers(
		pipeline, driverRepo, feedbackRepo, alertRepo,
		&mocks.InMemoryCache{}, logger, time.Minute,
	)
	server := httptest.NewServer(httpapi.NewRouter(handlers, logger))
	t.Cleanup(server.Close)

	return &stack{pipeline: pipeline, server: server}
}

func (s *stack) post(t *testing.T, path string, body any) (*http.Response, []byte) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func (s *stack) get(t *testing.T, path string, dest any) int {
	t.Helper()
	resp, err := http.Get(s.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dest != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
	return resp.StatusCode
}

// drain runs the pipeline until the queue is empty so assertions see a
// deterministic end state.
func (s *stack) drain(t *testing.T) {
	t.Helper()
	for {
		processed, err := s.pipeline.ProcessNextItem(context.Background())
		require.NoError(t, err)
		if !processed {
			return
		}
	}
}

func TestE2E_SubmitAndAggregate(t *testing.T) {
	s := setupStack(t, 100)

	resp, body := s.post(t, "/api/v1/feedback", map[string]any{
		"driver_id":   "drv-1",
		"driver_name": "Ade",
		"text":        "excellent and punctual driver",
		"rating":      5,
		"submitter":   "rider-1",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var receipt struct {
		Score         float64 `json:"score"`
		Label         string  `json:"label"`
		QueuePosition int     `json:"queue_position"`
	}
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Equal(t, 5.0, receipt.Score)
	assert.Equal(t, "positive", receipt.Label)
	assert.Equal(t, 1, receipt.QueuePosition)

	// The driver exists immediately even before processing.
	var agg models.DriverAggregate
	require.Equal(t, http.StatusOK, s.get(t, "/api/v1/drivers/drv-1", &agg))
	assert.Equal(t, int64(0), agg.TotalCount)

	s.drain(t)

	require.Equal(t, http.StatusOK, s.get(t, "/api/v1/drivers/drv-1", &agg))
	assert.Equal(t, int64(1), agg.TotalCount)
	assert.Equal(t, 5.0, agg.AverageScore)
	assert.Equal(t, models.RiskLow, agg.RiskTier)

	var history struct {
		Feedback []models.FeedbackRecord `json:"feedback"`
	}
	require.Equal(t, http.StatusOK, s.get(t, "/api/v1/drivers/drv-1/feedback", &history))
	require.Len(t, history.Feedback, 1)
	assert.True(t, history.Feedback[0].Processed)
}

func TestE2E_LowScoreRaisesAlertOnce(t *testing.T) {
	s := setupStack(t, 100)

	for _, submitter := range []string{"rider-1", "rider-2"} {
		resp, _ := s.post(t, "/api/v1/feedback", map[string]any{
			"driver_id":   "drv-2",
			"driver_name": "Bola",
			"text":        "rude and dangerous driving",
			"rating":      1,
			"submitter":   submitter,
		})
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
	}
	s.drain(t)

	var agg models.DriverAggregate
	require.Equal(t, http.StatusOK, s.get(t, "/api/v1/drivers/drv-2", &agg))
	assert.Equal(t, models.RiskHigh, agg.RiskTier)

	// Both items dropped below the threshold, but the cooldown keeps the
	// second one from producing a second alert.
	var alerts struct {
		Alerts []models.AlertRecord `json:"alerts"`
	}
	require.Equal(t, http.StatusOK, s.get(t, "/api/v1/alerts?driver_id=drv-2", &alerts))
	require.Len(t, alerts.Alerts, 1)
	assert.Equal(t, "drv-2", alerts.Alerts[0].DriverID)
	assert.Equal(t, 2.5, alerts.Alerts[0].Threshold)
}

func TestE2E_DuplicateSubmissionRejected(t *testing.T) {
	s := setupStack(t, 100)

	body := map[string]any{
		"driver_id":     "drv-3",
		"driver_name":   "Chidi",
		"text":          "friendly driver",
		"submitter":     "rider-1",
		"feedback_date": "2026-08-30",
	}

	resp, _ := s.post(t, "/api/v1/feedback", body)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	s.drain(t)

	resp, _ = s.post(t, "/api/v1/feedback", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestE2E_QueueFullReturns429(t *testing.T) {
	s := setupStack(t, 1)

	resp, _ := s.post(t, "/api/v1/feedback", map[string]any{
		"driver_id": "drv-4", "driver_name": "Dami", "text": "ok ride",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, _ = s.post(t, "/api/v1/feedback", map[string]any{
		"driver_id": "drv-4", "driver_name": "Dami", "text": "another ride",
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestE2E_WorkerDrainsQueue(t *testing.T) {
	s := setupStack(t, 100)

	worker := service.NewWorker(s.pipeline, 10*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	resp, _ := s.post(t, "/api/v1/feedback", map[string]any{
		"driver_id":   "drv-5",
		"driver_name": "Efe",
		"text":        "polite and careful",
		"rating":      4,
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	assert.Eventually(t, func() bool {
		var agg models.DriverAggregate
		if s.get(t, "/api/v1/drivers/drv-5", &agg) != http.StatusOK {
			return false
		}
		return agg.TotalCount == 1
	}, 3*time.Second, 20*time.Millisecond)
}
