package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/url"

	"github.com/nimeshabuddhika/credit-approval-web/pkg"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/observability"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/views"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchService predicts every row of an uploaded CSV file.
type BatchService interface {
	PredictCSV(ctx context.Context, traceID string, r io.Reader) (*views.BatchResult, error)
}

// BatchServiceConfig holds the dependencies of the batch service.
type BatchServiceConfig struct {
	Logger      *zap.Logger
	Predictor   PredictionClient
	Concurrency int
}

type batchService struct {
	logger      *zap.Logger
	predictor   PredictionClient
	concurrency int
}

func NewBatchService(cfg BatchServiceConfig) BatchService {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &batchService{
		logger:      cfg.Logger,
		predictor:   cfg.Predictor,
		concurrency: concurrency,
	}
}

// PredictCSV reads a header row followed by records. Each record is coerced like a
// form submission and predicted independently; a failed row keeps its error and
// does not fail the batch. The upload is never stored.
func (b *batchService) PredictCSV(ctx context.Context, traceID string, r io.Reader) (*views.BatchResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, pkg.NewAppError(pkg.ErrInvalidInputCode, "csv file is empty", err)
	}
	if err != nil {
		return nil, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid csv header", err)
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid csv record", err)
	}

	result := &views.BatchResult{
		Columns: append(append([]string{}, header...), "Status", "Probability"),
		Rows:    make([]views.BatchRow, len(records)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, record := range records {
		i, record := i, record
		form := make(url.Values, len(header))
		for col, name := range header {
			form.Set(name, record[col])
		}
		g.Go(func() error {
			row := views.BatchRow{Values: record}
			prediction, err := b.predictor.Predict(gctx, traceID, NewFormPayload(form))
			if err != nil {
				row.Error = err.Error()
				observability.BatchRowsTotal.WithLabelValues(observability.OutcomeFailed).Inc()
			} else {
				row.Status = string(prediction.Prediction)
				row.Probability = views.FormatPercent(prediction.ProbabilityApproved)
				observability.BatchRowsTotal.WithLabelValues(observability.OutcomeSuccess).Inc()
			}
			result.Rows[i] = row
			return nil
		})
	}
	_ = g.Wait() // rows carry their own errors

	for _, row := range result.Rows {
		if row.Error != "" {
			result.Failed++
		}
	}
	b.logger.Info("batch predicted",
		zap.String(pkg.TraceId, traceID),
		zap.Int("rows", len(result.Rows)),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
