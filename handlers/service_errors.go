package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/upb/hr-platform/middleware"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/services"
	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
)

// maxBodyBytes caps every JSON request body
const maxBodyBytes = 1 << 20

// HandleServiceError maps domain error kinds to HTTP responses.
// Only the kind decides the status; message text is never inspected.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var domainErr *services.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error("unhandled error type", zap.Error(err))
		writeOrLog(utils.WriteInternalServerError(w, "An unexpected error occurred"), logger)
		return
	}

	message := domainErr.Message
	details := domainErr.Details
	if len(details) == 0 {
		details = nil
	}

	var writeErr error
	switch domainErr.Type {
	case services.ErrorTypeUnauthenticated, services.ErrorTypeInvalidCredentials:
		writeErr = utils.WriteUnauthorized(w, message)
	case services.ErrorTypeForbidden:
		writeErr = utils.WriteForbidden(w, message)
	case services.ErrorTypeNotFound:
		writeErr = utils.WriteNotFound(w, message)
	case services.ErrorTypeValidation:
		writeErr = utils.WriteBadRequest(w, message, details)
	case services.ErrorTypeConflict:
		writeErr = utils.WriteConflict(w, message, details)
	case services.ErrorTypeRateLimit:
		writeErr = utils.WriteTooManyRequests(w, message, details)
	case services.ErrorTypeEnrichmentUnavailable:
		logger.Warn("enrichment unavailable", zap.Error(err))
		writeErr = utils.WriteServiceUnavailable(w, message)
	case services.ErrorTypeMalformedBackendResponse:
		logger.Warn("enrichment backend returned a malformed response", zap.Error(err))
		writeErr = utils.WriteBadGateway(w, message)
	default:
		// Internal details stay in the log.
		logger.Error("internal server error",
			zap.Error(err),
			zap.String("error_type", string(domainErr.Type)))
		writeErr = utils.WriteInternalServerError(w, "An internal error occurred")
	}
	writeOrLog(writeErr, logger)

	logger.Debug("handled service error",
		zap.String("type", string(domainErr.Type)),
		zap.String("message", domainErr.Message))
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			details[k] = v
		}
		writeOrLog(utils.WriteBadRequest(w, "Validation failed", details), logger)
		return
	}

	writeOrLog(utils.WriteBadRequest(w, err.Error(), nil), logger)
}

func writeOrLog(err error, logger *zap.Logger) {
	if err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 itself and returns false when the body is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warn("failed to parse request body",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		writeOrLog(utils.WriteBadRequest(w, "Invalid request body", nil), logger)
		return false
	}

	if err := utils.ValidateStruct(dst); err != nil {
		logger.Debug("request validation failed",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		HandleValidationError(w, err, logger)
		return false
	}
	return true
}

// requirePrincipal returns the caller or writes a 401
func requirePrincipal(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (models.Principal, bool) {
	principal := middleware.GetPrincipalFromContext(r.Context())
	if principal == nil {
		writeOrLog(utils.WriteUnauthorized(w, "Authentication required"), logger)
		return models.Principal{}, false
	}
	return *principal, true
}

// pathID parses a UUID route parameter or writes a 400
func pathID(w http.ResponseWriter, r *http.Request, name string, logger *zap.Logger) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeOrLog(utils.WriteBadRequest(w, "Invalid "+name, map[string]interface{}{
			name: "must be a valid UUID",
		}), logger)
		return uuid.Nil, false
	}
	return id, true
}
