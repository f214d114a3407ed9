package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/upb/hr-platform/services"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultBackoffBase   = 2 * time.Second
	defaultMaxConcurrent = 8
	maxResponseBytes     = 1 << 20
)

// Config holds the settings of the text-generation backend
type Config struct {
	BaseURL       string
	APIKey        string
	Model         string
	Shape         ResponseShape
	Timeout       time.Duration // per attempt
	MaxRetries    int           // attempts after the first
	BackoffBase   time.Duration
	MaxConcurrent int64
	RedactPII     bool
}

// Proxy sends text to the external backend with bounded retries and normalizes the reply.
// Each call is independent; the only shared state is the concurrency semaphore.
type Proxy struct {
	cfg        Config
	httpClient *http.Client
	sem        *semaphore.Weighted
	redactor   *Redactor
	logger     *zap.Logger
}

// NewProxy creates a new enrichment proxy
func NewProxy(cfg Config, logger *zap.Logger) (*Proxy, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("enrichment backend URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("enrichment model is required")
	}
	if cfg.Shape == "" {
		cfg.Shape = ShapeCompletions
	}
	if _, err := ParseResponseShape(string(cfg.Shape)); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	p := &Proxy{
		cfg:        cfg,
		httpClient: &http.Client{},
		sem:        semaphore.NewWeighted(cfg.MaxConcurrent),
		logger:     logger,
	}
	if cfg.RedactPII {
		p.redactor = NewRedactor()
	}
	return p, nil
}

// Model returns the configured backend model
func (p *Proxy) Model() string {
	return p.cfg.Model
}

// Polish returns the polished text, or EnrichmentUnavailable / MalformedBackendResponse.
// It never falls back to the input text.
func (p *Proxy) Polish(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.ErrEmptyText
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, services.WrapError(services.ErrorTypeEnrichmentUnavailable, "request cancelled while waiting for enrichment capacity", err)
	}
	defer p.sem.Release(1)

	text := req.Text
	if p.redactor != nil {
		text = p.redactor.Redact(text)
	}
	instruction := BuildInstruction(text, req.Context)

	attempts := 0
	operation := func() (string, error) {
		attempts++
		polished, err := p.send(ctx, instruction)
		if err == nil {
			return polished, nil
		}
		if ctx.Err() != nil || !isRetryable(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.BackoffBase
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = p.cfg.BackoffBase * 8

	polished, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.cfg.MaxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			p.logger.Warn("enrichment attempt failed, retrying",
				zap.Int("attempt", attempts),
				zap.Duration("backoff", next),
				zap.Error(err))
		}),
	)
	if err != nil {
		p.logger.Error("enrichment failed",
			zap.Int("attempts", attempts),
			zap.String("model", p.cfg.Model),
			zap.Error(err))
		return nil, classify(err)
	}

	p.logger.Info("text polished",
		zap.Int("attempts", attempts),
		zap.Int("input_length", len(req.Text)),
		zap.String("model", p.cfg.Model))

	return &Result{
		OriginalText: req.Text,
		PolishedText: polished,
		Model:        p.cfg.Model,
		Attempts:     attempts,
	}, nil
}

// send performs one attempt bounded by the per-attempt timeout
func (p *Proxy) send(ctx context.Context, instruction string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	path, payload := p.cfg.Shape.endpoint(p.cfg.Model, instruction)
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal enrichment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, p.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create enrichment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("enrichment request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read enrichment response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newBackendError(resp.StatusCode, respBody)
	}

	return p.cfg.Shape.extract(respBody)
}

// isRetryable reports whether another attempt may succeed. Transport errors and
// timeouts are retried; 4xx replies other than 408/429 and malformed bodies are not.
func isRetryable(err error) bool {
	if errors.Is(err, errMalformed) {
		return false
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Retryable
	}
	return true
}

// classify maps a final proxy failure to its error kind
func classify(err error) error {
	if errors.Is(err, errMalformed) {
		return services.WrapError(services.ErrorTypeMalformedBackendResponse, "text enrichment returned an unexpected response", err)
	}
	return services.WrapError(services.ErrorTypeEnrichmentUnavailable, "text enrichment is unavailable, please try again later", err)
}
