package mocks

import (
	"context"
	"errors"

	"github.com/godilite/reputation-server/internal/repository/models"
	"github.com/godilite/reputation-server/internal/sentiment"
)

// MockDriverStore is a mock implementation of the DriverStore interface
// for testing the service layer.
type MockDriverStore struct {
	FindByIDFunc       func(ctx context.Context, driverID string) (models.DriverAggregate, error)
	CreateFunc         func(ctx context.Context, driverID, name string) (models.DriverAggregate, error)
	AtomicAddScoreFunc func(ctx context.Context, driverID string, delta, newAverage float64, tier models.RiskTier) (models.DriverAggregate, error)
	ListAllFunc        func(ctx context.Context) ([]models.DriverAggregate, error)
}

func (m *MockDriverStore) FindByID(ctx context.Context, driverID string) (models.DriverAggregate, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, driverID)
	}
	return models.DriverAggregate{}, errors.New("FindByIDFunc not implemented")
}

func (m *MockDriverStore) Create(ctx context.Context, driverID, name string) (models.DriverAggregate, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, driverID, name)
	}
	return models.DriverAggregate{}, errors.New("CreateFunc not implemented")
}

func (m *MockDriverStore) AtomicAddScore(ctx context.Context, driverID string, delta, newAverage float64, tier models.RiskTier) (models.DriverAggregate, error) {
	if m.AtomicAddScoreFunc != nil {
		return m.AtomicAddScoreFunc(ctx, driverID, delta, newAverage, tier)
	}
	return models.DriverAggregate{}, errors.New("AtomicAddScoreFunc not implemented")
}

func (m *MockDriverStore) ListAll(ctx context.Context) ([]models.DriverAggregate, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, errors.New("ListAllFunc not implemented")
}

// MockFeedbackStore is a mock implementation of the FeedbackStore interface.
type MockFeedbackStore struct {
	CreateFunc         func(ctx context.Context, rec models.FeedbackRecord) (models.FeedbackRecord, error)
	MarkProcessedFunc  func(ctx context.Context, id int64) error
	ExistsForFunc      func(ctx context.Context, submitter, driverID, date string) (bool, error)
	FindByDriverIDFunc func(ctx context.Context, driverID string) ([]models.FeedbackRecord, error)
}

func (m *MockFeedbackStore) Create(ctx context.Context, rec models.FeedbackRecord) (models.FeedbackRecord, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	return models.FeedbackRecord{}, errors.New("CreateFunc not implemented")
}

func (m *MockFeedbackStore) MarkProcessed(ctx context.Context, id int64) error {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, id)
	}
	return errors.New("MarkProcessedFunc not implemented")
}

func (m *MockFeedbackStore) ExistsFor(ctx context.Context, submitter, driverID, date string) (bool, error) {
	if m.ExistsForFunc != nil {
		return m.ExistsForFunc(ctx, submitter, driverID, date)
	}
	return false, errors.New("ExistsForFunc not implemented")
}

func (m *MockFeedbackStore) FindByDriverID(ctx context.Context, driverID string) ([]models.FeedbackRecord, error) {
	if m.FindByDriverIDFunc != nil {
		return m.FindByDriverIDFunc(ctx, driverID)
	}
	return nil, errors.New("FindByDriverIDFunc not implemented")
}

// MockAlertStore is a mock implementation of the AlertStore interface.
type MockAlertStore struct {
	CreateFunc              func(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error)
	FindLatestForDriverFunc func(ctx context.Context, driverID string) (models.AlertRecord, error)
	ListAllFunc             func(ctx context.Context, driverID string) ([]models.AlertRecord, error)
}

func (m *MockAlertStore) Create(ctx context.Context, rec models.AlertRecord) (models.AlertRecord, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	return models.AlertRecord{}, errors.New("CreateFunc not implemented")
}

func (m *MockAlertStore) FindLatestForDriver(ctx context.Context, driverID string) (models.AlertRecord, error) {
	if m.FindLatestForDriverFunc != nil {
		return m.FindLatestForDriverFunc(ctx, driverID)
	}
	return models.AlertRecord{}, errors.New("FindLatestForDriverFunc not implemented")
}

func (m *MockAlertStore) ListAll(ctx context.Context, driverID string) ([]models.AlertRecord, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, driverID)
	}
	return nil, errors.New("ListAllFunc not implemented")
}

// MockScorer substitutes the lexicon scorer in orchestrator tests.
type MockScorer struct {
	ScoreFunc func(text string, rating int) sentiment.Result
}

func (m *MockScorer) Score(text string, rating int) sentiment.Result {
	if m.ScoreFunc != nil {
		return m.ScoreFunc(text, rating)
	}
	return sentiment.Result{Score: 3.0, Label: sentiment.LabelNeutral}
}
