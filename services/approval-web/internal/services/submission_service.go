package services

import (
	"context"
	"errors"
	"net/url"

	"github.com/nimeshabuddhika/credit-approval-web/pkg"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/display"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/observability"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/views"
	"go.uber.org/zap"
)

// SubmissionService turns one form submission into a rendered panel.
type SubmissionService interface {
	// Submit sends the form to the prediction service and writes the outcome into the
	// shared display region. The returned panel is always the one written; the error
	// reports why it is an error panel.
	Submit(ctx context.Context, traceID string, form url.Values) (views.Panel, error)
}

// SubmissionServiceConfig holds the dependencies of the submission service.
type SubmissionServiceConfig struct {
	Logger    *zap.Logger
	Predictor PredictionClient
	Region    *display.Region
	Limiter   *pkg.DistributedLimiter // nil: unlimited
}

type submissionService struct {
	logger    *zap.Logger
	predictor PredictionClient
	region    *display.Region
	limiter   *pkg.DistributedLimiter
}

func NewSubmissionService(cfg SubmissionServiceConfig) SubmissionService {
	return &submissionService{
		logger:    cfg.Logger,
		predictor: cfg.Predictor,
		region:    cfg.Region,
		limiter:   cfg.Limiter,
	}
}

func (s *submissionService) Submit(ctx context.Context, traceID string, form url.Values) (views.Panel, error) {
	if !s.limiter.Allow(ctx) {
		observability.SubmissionsTotal.WithLabelValues(observability.OutcomeRateLimited).Inc()
		return s.fail(traceID, pkg.NewAppError(pkg.ErrRateLimitedCode, "too many submissions", pkg.ErrRateLimitExceeded))
	}

	payload := NewFormPayload(form)
	result, err := s.predictor.Predict(ctx, traceID, payload)
	if err != nil {
		observability.SubmissionsTotal.WithLabelValues(observability.OutcomeFailed).Inc()
		return s.fail(traceID, pkg.NewAppError(pkg.ErrPredictionRequestCode, "request failed", err))
	}

	observability.SubmissionsTotal.WithLabelValues(observability.OutcomeSuccess).Inc()
	panel := views.ResultPanel(result)
	s.region.Show(panel)
	s.logger.Info("submission predicted",
		zap.String(pkg.TraceId, traceID),
		zap.String("prediction", panel.Prediction),
	)
	return panel, nil
}

// fail renders the cause of err into the display region.
func (s *submissionService) fail(traceID string, err error) (views.Panel, error) {
	description := err.Error()
	if cause := errors.Unwrap(err); cause != nil {
		description = cause.Error()
	}
	panel := views.ErrorPanel(description)
	s.region.Show(panel)
	s.logger.Warn("submission failed", zap.String(pkg.TraceId, traceID), zap.Error(err))
	return panel, err
}
