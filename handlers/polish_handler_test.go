package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/hr-platform/services"
	"github.com/upb/hr-platform/services/enrichment"
	"go.uber.org/zap"
)

func TestPolishHandler(t *testing.T) {
	logger := zap.NewNop()

	t.Run("returns original and polished text", func(t *testing.T) {
		polisher := new(MockPolisher)
		polisher.On("Polish", mock.Anything, enrichment.Request{Text: "good job", Context: "employee feedback"}).
			Return(&enrichment.Result{OriginalText: "good job", PolishedText: "Excellent work.", Model: "gpt2", Attempts: 1}, nil)

		handler := NewPolishHandler(polisher, logger)
		req := httptest.NewRequest(http.MethodPost, "/polish",
			jsonBody(t, PolishRequest{Text: "good job", Context: "employee feedback"}))
		w := httptest.NewRecorder()

		handler.HandlePolish(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body).Data, &body))
		assert.Equal(t, "good job", body["originalText"])
		assert.Equal(t, "Excellent work.", body["polishedText"])
		assert.Equal(t, "gpt2", body["model"])
		assert.NotContains(t, body, "attempts")
	})

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"blank text", services.ErrEmptyText, http.StatusBadRequest},
		{"backend unavailable", services.ErrEnrichmentUnavailable, http.StatusServiceUnavailable},
		{"backend malformed", services.ErrMalformedBackendResponse, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			polisher := new(MockPolisher)
			polisher.On("Polish", mock.Anything, mock.Anything).Return(nil, tt.err)

			handler := NewPolishHandler(polisher, logger)
			req := httptest.NewRequest(http.MethodPost, "/polish", jsonBody(t, PolishRequest{Text: "  "}))
			w := httptest.NewRecorder()

			handler.HandlePolish(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
