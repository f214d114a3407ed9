package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/upb/hr-platform/services"
	"go.uber.org/zap"
)

// Client calls a remote enrichment service's POST /polish endpoint.
// It satisfies Polisher so callers cannot tell it from an in-process Proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new enrichment service client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type polishEnvelope struct {
	Data *Result `json:"data"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Polish forwards the job to the enrichment service
func (c *Client) Polish(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.ErrEmptyText
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, services.WrapInternal("failed to marshal polish request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/polish", bytes.NewReader(body))
	if err != nil {
		return nil, services.WrapInternal("failed to create polish request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("enrichment service unreachable", zap.Error(err))
		return nil, services.WrapError(services.ErrorTypeEnrichmentUnavailable, "text enrichment is unavailable, please try again later", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, services.WrapError(services.ErrorTypeEnrichmentUnavailable, "failed to read enrichment response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var envelope polishEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil || envelope.Data == nil || strings.TrimSpace(envelope.Data.PolishedText) == "" {
		return nil, services.NewDomainError(services.ErrorTypeMalformedBackendResponse, "enrichment service returned an unexpected response", err)
	}

	return envelope.Data, nil
}

// handleErrorResponse maps the enrichment service's status back to an error kind
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var errResp errorEnvelope
	_ = json.Unmarshal(body, &errResp)
	cause := fmt.Errorf("enrichment service returned status %d: %s", statusCode, errResp.Message)

	c.logger.Warn("enrichment service error",
		zap.Int("status", statusCode),
		zap.String("error", errResp.Error))

	switch {
	case statusCode == http.StatusBadRequest:
		msg := errResp.Message
		if msg == "" {
			msg = "invalid polish request"
		}
		return services.NewDomainError(services.ErrorTypeValidation, msg, cause)
	case statusCode == http.StatusBadGateway:
		return services.NewDomainError(services.ErrorTypeMalformedBackendResponse, "text enrichment returned an unexpected response", cause)
	default:
		return services.NewDomainError(services.ErrorTypeEnrichmentUnavailable, "text enrichment is unavailable, please try again later", cause)
	}
}
