package handlers

import (
	"net/http"

	"github.com/upb/hr-platform/middleware"
	"github.com/upb/hr-platform/services/enrichment"
	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
)

// PolishRequest is the body of POST /polish
type PolishRequest struct {
	Text    string `json:"text" validate:"max=10000"`
	Context string `json:"context" validate:"max=500"`
}

// PolishHandler exposes the enrichment proxy over HTTP
type PolishHandler struct {
	polisher enrichment.Polisher
	logger   *zap.Logger
}

// NewPolishHandler creates a new PolishHandler
func NewPolishHandler(polisher enrichment.Polisher, logger *zap.Logger) *PolishHandler {
	return &PolishHandler{
		polisher: polisher,
		logger:   logger,
	}
}

// HandlePolish handles POST /polish
func (h *PolishHandler) HandlePolish(w http.ResponseWriter, r *http.Request) {
	var req PolishRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	result, err := h.polisher.Polish(r.Context(), enrichment.Request{
		Text:    req.Text,
		Context: req.Context,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("text polished",
		zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		zap.String("model", result.Model),
		zap.Int("attempts", result.Attempts))
	writeOrLog(utils.WriteOK(w, result), h.logger)
}
