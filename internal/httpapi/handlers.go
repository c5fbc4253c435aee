package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/reputation-server/internal/repository/models"
	"github.com/godilite/reputation-server/internal/service"
)

const (
	defaultCacheTTL       = time.Minute
	defaultRequestTimeout = 10 * time.Second

	cacheKeyDriverList = "http:drivers:all"
	cacheKeyAlertList  = "http:alerts"
)

// Handlers exposes the feedback pipeline and the read-side dashboard
// queries over HTTP. List endpoints are served through the redis cache;
// submission and per-driver reads always hit storage.
type Handlers struct {
	pipeline FeedbackPipeline
	drivers  service.DriverStore
	feedback service.FeedbackStore
	alerts   service.AlertStore
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

// NewHandlers initializes the HTTP handlers.
func NewHandlers(
	pipeline FeedbackPipeline,
	drivers service.DriverStore,
	feedback service.FeedbackStore,
	alerts service.AlertStore,
	cache Cacher,
	logger *zap.Logger,
	ttl time.Duration,
) *Handlers {
	if pipeline == nil {
		panic("nil FeedbackPipeline provided to NewHandlers")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		pipeline: pipeline,
		drivers:  drivers,
		feedback: feedback,
		alerts:   alerts,
		cache:    cache,
		logger:   logger.Named("http-handler"),
		cacheTTL: ttl,
	}
}

type submitFeedbackRequest struct {
	DriverID     string `json:"driver_id" binding:"required"`
	DriverName   string `json:"driver_name" binding:"required"`
	Text         string `json:"text"`
	Rating       int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Submitter    string `json:"submitter"`
	FeedbackDate string `json:"feedback_date" binding:"omitempty,datetime=2006-01-02"`
}

type submitFeedbackResponse struct {
	Score         float64  `json:"score"`
	Label         string   `json:"label"`
	MatchedCount  int      `json:"matched_count"`
	MatchedTerms  []string `json:"matched_terms"`
	QueuePosition int      `json:"queue_position"`
}

// SubmitFeedback handles POST /api/v1/feedback. A 202 response means the
// submission was scored and queued, not that it has been persisted.
func (h *Handlers) SubmitFeedback(c *gin.Context) {
	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FeedbackDate == "" {
		req.FeedbackDate = time.Now().UTC().Format("2006-01-02")
	}

	ctx, cancel := contextWithTimeout(c, defaultRequestTimeout)
	defer cancel()

	receipt, err := h.pipeline.SubmitFeedback(ctx, service.FeedbackSubmission{
		DriverID:     req.DriverID,
		DriverName:   req.DriverName,
		Text:         req.Text,
		Rating:       req.Rating,
		Submitter:    req.Submitter,
		FeedbackDate: req.FeedbackDate,
	})
	if err != nil {
		h.handleError(c, "SubmitFeedback", err)
		return
	}

	terms := receipt.Result.MatchedTerms
	if terms == nil {
		terms = []string{}
	}
	c.JSON(http.StatusAccepted, submitFeedbackResponse{
		Score:         receipt.Result.Score,
		Label:         string(receipt.Result.Label),
		MatchedCount:  receipt.Result.MatchedCount,
		MatchedTerms:  terms,
		QueuePosition: receipt.QueuePosition,
	})
}

// ListDrivers handles GET /api/v1/drivers.
func (h *Handlers) ListDrivers(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, defaultRequestTimeout)
	defer cancel()

	drivers, err := FindAndCache(ctx, h.cache, &h.sfGroup, cacheKeyDriverList, h.cacheTTL, h.logger,
		func(fetchCtx context.Context) ([]models.DriverAggregate, error) {
			return h.drivers.ListAll(fetchCtx)
		})
	if err != nil {
		h.handleError(c, "ListDrivers", err)
		return
	}
	if drivers == nil {
		drivers = []models.DriverAggregate{}
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

// GetDriver handles GET /api/v1/drivers/:id.
func (h *Handlers) GetDriver(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, defaultRequestTimeout)
	defer cancel()

	agg, err := h.drivers.FindByID(ctx, c.Param("id"))
	if err != nil {
		h.handleError(c, "GetDriver", err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

// GetDriverFeedback handles GET /api/v1/drivers/:id/feedback.
func (h *Handlers) GetDriverFeedback(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, defaultRequestTimeout)
	defer cancel()

	history, err := h.feedback.FindByDriverID(ctx, c.Param("id"))
	if err != nil {
		h.handleError(c, "GetDriverFeedback", err)
		return
	}
	if history == nil {
		history = []models.FeedbackRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"feedback": history})
}

// ListAlerts handles GET /api/v1/alerts with an optional driver_id filter.
func (h *Handlers) ListAlerts(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, defaultRequestTimeout)
	defer cancel()

	driverID := c.Query("driver_id")
	key := cacheKeyAlertList
	if driverID != "" {
		key = cacheKeyAlertList + ":" + driverID
	}

	alerts, err := FindAndCache(ctx, h.cache, &h.sfGroup, key, h.cacheTTL, h.logger,
		func(fetchCtx context.Context) ([]models.AlertRecord, error) {
			return h.alerts.ListAll(fetchCtx, driverID)
		})
	if err != nil {
		h.handleError(c, "ListAlerts", err)
		return
	}
	if alerts == nil {
		alerts = []models.AlertRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// Health handles GET /health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"queue_depth": h.pipeline.QueueDepth(),
	})
}
