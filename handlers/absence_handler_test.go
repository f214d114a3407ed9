package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/services"
	"github.com/upb/hr-platform/services/absence"
	"go.uber.org/zap"
)

func newPendingRequest() *models.AbsenceRequest {
	req := models.NewAbsenceRequest(employeeID,
		models.NewDate(2024, 3, 4), models.NewDate(2024, 3, 8), "family trip")
	req.EmployeeName = "Ana Employee"
	return req
}

func TestAbsenceHandler_Create(t *testing.T) {
	logger := zap.NewNop()

	t.Run("created", func(t *testing.T) {
		service := new(MockAbsenceService)
		input := absence.CreateInput{StartDate: "2024-03-04", EndDate: "2024-03-08", Reason: "family trip"}
		service.On("Create", mock.Anything, employee, input).Return(newPendingRequest(), nil)

		handler := NewAbsenceHandler(service, logger)
		req := withPrincipal(httptest.NewRequest(http.MethodPost, "/absences", jsonBody(t, CreateAbsenceRequest{
			StartDate: "2024-03-04", EndDate: "2024-03-08", Reason: "family trip",
		})), employee)
		w := httptest.NewRecorder()

		handler.HandleCreate(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body).Data, &body))
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, "2024-03-04", body["startDate"])
		assert.Equal(t, "Ana Employee", body["employeeName"])
	})

	t.Run("missing end date", func(t *testing.T) {
		service := new(MockAbsenceService)
		handler := NewAbsenceHandler(service, logger)
		req := withPrincipal(httptest.NewRequest(http.MethodPost, "/absences",
			jsonBody(t, map[string]string{"startDate": "2024-03-04"})), employee)
		w := httptest.NewRecorder()

		handler.HandleCreate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeEnvelope(t, w.Body).Details, "endDate")
		service.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("end before start", func(t *testing.T) {
		service := new(MockAbsenceService)
		service.On("Create", mock.Anything, employee, mock.Anything).Return(nil, services.ErrInvalidDateRange)

		handler := NewAbsenceHandler(service, logger)
		req := withPrincipal(httptest.NewRequest(http.MethodPost, "/absences", jsonBody(t, CreateAbsenceRequest{
			StartDate: "2024-03-08", EndDate: "2024-03-04",
		})), employee)
		w := httptest.NewRecorder()

		handler.HandleCreate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAbsenceHandler_ListPending(t *testing.T) {
	logger := zap.NewNop()

	t.Run("manager sees pending requests", func(t *testing.T) {
		service := new(MockAbsenceService)
		service.On("ListPending", mock.Anything, manager).Return([]*models.AbsenceRequest{newPendingRequest()}, nil)

		handler := NewAbsenceHandler(service, logger)
		w := httptest.NewRecorder()
		handler.HandleListPending(w, withPrincipal(httptest.NewRequest(http.MethodGet, "/absences/pending", nil), manager))

		require.Equal(t, http.StatusOK, w.Code)
		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body).Data, &body))
		assert.Len(t, body, 1)
	})

	t.Run("employee is forbidden", func(t *testing.T) {
		service := new(MockAbsenceService)
		service.On("ListPending", mock.Anything, employee).Return(nil, services.ErrForbidden)

		handler := NewAbsenceHandler(service, logger)
		w := httptest.NewRecorder()
		handler.HandleListPending(w, withPrincipal(httptest.NewRequest(http.MethodGet, "/absences/pending", nil), employee))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAbsenceHandler_Decisions(t *testing.T) {
	logger := zap.NewNop()
	id := uuid.New()

	t.Run("approve", func(t *testing.T) {
		approved := newPendingRequest()
		approved.Status = models.AbsenceStatusApproved
		service := new(MockAbsenceService)
		service.On("Approve", mock.Anything, manager, id).Return(approved, nil)

		handler := NewAbsenceHandler(service, logger)
		req := withURLParam(withPrincipal(httptest.NewRequest(http.MethodPatch, "/absences/x/approve", nil), manager), "id", id.String())
		w := httptest.NewRecorder()

		handler.HandleApprove(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body).Data, &body))
		assert.Equal(t, "approved", body["status"])
		service.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reject already decided is a conflict", func(t *testing.T) {
		service := new(MockAbsenceService)
		service.On("Reject", mock.Anything, manager, id).Return(nil, services.ErrAlreadyDecided)

		handler := NewAbsenceHandler(service, logger)
		req := withURLParam(withPrincipal(httptest.NewRequest(http.MethodPatch, "/absences/x/reject", nil), manager), "id", id.String())
		w := httptest.NewRecorder()

		handler.HandleReject(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown request", func(t *testing.T) {
		service := new(MockAbsenceService)
		service.On("Approve", mock.Anything, manager, id).Return(nil, services.ErrAbsenceRequestNotFound)

		handler := NewAbsenceHandler(service, logger)
		req := withURLParam(withPrincipal(httptest.NewRequest(http.MethodPatch, "/absences/x/approve", nil), manager), "id", id.String())
		w := httptest.NewRecorder()

		handler.HandleApprove(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
