package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nimeshabuddhika/credit-approval-web/pkg"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/observability"
	"github.com/nimeshabuddhika/credit-approval-web/services/approval-web/internal/views"
	"go.uber.org/zap"
)

// PredictionClient sends a payload to the remote prediction endpoint.
type PredictionClient interface {
	Predict(ctx context.Context, traceID string, payload views.FormPayload) (views.PredictionResult, error)
}

// PredictionClientConfig holds the dependencies of the HTTP prediction client.
type PredictionClientConfig struct {
	Logger     *zap.Logger
	BaseURL    string // scheme://host[:port][/prefix] of the prediction service
	HTTPClient *http.Client
}

type httpPredictionClient struct {
	logger   *zap.Logger
	client   *http.Client
	endpoint string
}

// NewPredictionClient creates a client posting to <BaseURL>/predict.
func NewPredictionClient(cfg PredictionClientConfig) (PredictionClient, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid prediction service address: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid prediction service address %q", cfg.BaseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + pkg.PredictPath

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &httpPredictionClient{
		logger:   cfg.Logger,
		client:   client,
		endpoint: u.String(),
	}, nil
}

// Predict posts the payload as JSON. Any non-2xx status, transport failure or
// body that is not exactly one JSON object is returned as an error; nothing is retried.
func (p *httpPredictionClient) Predict(ctx context.Context, traceID string, payload views.FormPayload) (views.PredictionResult, error) {
	var result views.PredictionResult

	body, err := json.Marshal(payload)
	if err != nil {
		return result, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(pkg.HeaderTraceId, traceID)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		observability.PredictionLatency.WithLabelValues(observability.OutcomeFailed).Observe(time.Since(start).Seconds())
		return result, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		observability.PredictionLatency.WithLabelValues(observability.OutcomeFailed).Observe(time.Since(start).Seconds())
		return result, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err == nil {
		// Unmarshal rejects trailing data after the object, unlike a streaming Decoder
		err = json.Unmarshal(raw, &result)
	}
	if err != nil {
		observability.PredictionLatency.WithLabelValues(observability.OutcomeFailed).Observe(time.Since(start).Seconds())
		return result, fmt.Errorf("invalid prediction response: %w", err)
	}
	observability.PredictionLatency.WithLabelValues(observability.OutcomeSuccess).Observe(time.Since(start).Seconds())

	p.logger.Debug("prediction received",
		zap.String(pkg.TraceId, traceID),
		zap.String("prediction", string(result.Prediction)),
		zap.Duration("took", time.Since(start)),
	)
	return result, nil
}
