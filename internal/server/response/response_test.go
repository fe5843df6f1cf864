package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/agentstation/stargazer/pkg/errors"
)

// TestSuccess tests the Success helper function.
func TestSuccess(t *testing.T) {
	data := map[string]string{"message": "success"}
	resp := Success(data)

	if resp.Data == nil {
		t.Error("expected Data to be set")
	}
	if resp.Error != nil {
		t.Error("expected Error to be nil")
	}
}

// TestFail tests the Fail helper function.
func TestFail(t *testing.T) {
	resp := Fail("TEST_ERROR", "Test error message", "Additional details")

	if resp.Data != nil {
		t.Error("expected Data to be nil")
	}
	if resp.Error == nil {
		t.Fatal("expected Error to be set")
	}
	if resp.Error.Code != "TEST_ERROR" {
		t.Errorf("expected Code=TEST_ERROR, got %s", resp.Error.Code)
	}
	if resp.Error.Message != "Test error message" {
		t.Errorf("expected Message=Test error message, got %s", resp.Error.Message)
	}
	if resp.Error.Details != "Additional details" {
		t.Errorf("expected Details=Additional details, got %s", resp.Error.Details)
	}
}

// TestJSON tests the JSON helper function.
func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	resp := Success(map[string]string{"test": "data"})

	JSON(w, http.StatusOK, resp)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type=application/json, got %s", contentType)
	}

	// Verify JSON is valid
	var decoded Response
	if err := json.NewDecoder(w.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded.Data == nil {
		t.Error("expected decoded Data to be set")
	}
	if decoded.Error != nil {
		t.Error("expected decoded Error to be nil")
	}
}

// TestOK tests the OK helper function.
func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]int{"count": 42}

	OK(w, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error != nil {
		t.Error("expected no error in response")
	}
}

// TestErrorHelpers tests the direct error response helpers.
func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name           string
		fn             func(w http.ResponseWriter)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "Unauthorized",
			fn: func(w http.ResponseWriter) {
				Unauthorized(w, "Credential required", "Provide a bearer token")
			},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name: "NotFound",
			fn: func(w http.ResponseWriter) {
				NotFound(w, "Route not found", "/nope")
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name: "MethodNotAllowed",
			fn: func(w http.ResponseWriter) {
				MethodNotAllowed(w, "POST")
			},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedCode:   "METHOD_NOT_ALLOWED",
		},
		{
			name: "RateLimited",
			fn: func(w http.ResponseWriter) {
				RateLimited(w, "Too many requests")
			},
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "RATE_LIMITED",
		},
		{
			name: "InternalError",
			fn: func(w http.ResponseWriter) {
				InternalError(w, errors.New("internal error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.fn(w)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if resp.Data != nil {
				t.Error("expected Data to be nil for error response")
			}
			if resp.Error == nil {
				t.Fatal("expected Error to be set")
			}
			if resp.Error.Code != tt.expectedCode {
				t.Errorf("expected Code=%s, got %s", tt.expectedCode, resp.Error.Code)
			}
		})
	}
}

// TestErrorFromType tests that each error kind maps to exactly one status.
func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "validation",
			err:            pkgerrors.NewValidationError("per_page", 150, "must be between 1 and 100"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "INVALID_INPUT",
		},
		{
			name:           "missing credential",
			err:            pkgerrors.NewAuthenticationError("bearer", "credential required", nil),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "upstream 401",
			err:            pkgerrors.NewAPIError("check_star", 401, pkgerrors.KindUnauthorized, "Bad credentials"),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "repository not found",
			err:            pkgerrors.NewAPIError("add_star", 404, pkgerrors.KindNotFound, "Not Found"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "upstream 403 on search",
			err:            pkgerrors.NewAPIError("search", 403, pkgerrors.KindRateLimited, "API rate limit exceeded"),
			expectedStatus: http.StatusTooManyRequests,
			expectedCode:   "RATE_LIMITED",
		},
		{
			name:           "already starred",
			err:            pkgerrors.NewPreconditionError("acme", "widgets", true),
			expectedStatus: http.StatusConflict,
			expectedCode:   "PRECONDITION_FAILED",
		},
		{
			name:           "transport failure",
			err:            pkgerrors.NewTransportError("search", errors.New("connection refused")),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "UPSTREAM_UNAVAILABLE",
		},
		{
			name:           "wrapped kind survives",
			err:            fmt.Errorf("handler: %w", pkgerrors.NewPreconditionError("acme", "widgets", false)),
			expectedStatus: http.StatusConflict,
			expectedCode:   "PRECONDITION_FAILED",
		},
		{
			name:           "generic error",
			err:            errors.New("generic error"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Error == nil {
				t.Fatal("expected Error to be set")
			}
			if resp.Error.Code != tt.expectedCode {
				t.Errorf("expected Code=%s, got %s", tt.expectedCode, resp.Error.Code)
			}
		})
	}
}

// TestErrorFromTypeHidesInternalCause tests that unexpected errors are not leaked.
func TestErrorFromTypeHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorFromType(w, errors.New("db password is hunter2"))

	if strings.Contains(w.Body.String(), "hunter2") {
		t.Error("internal error cause leaked into response")
	}
}

// TestResponseStructure tests the Response struct marshaling.
func TestResponseStructure(t *testing.T) {
	t.Run("success response structure", func(t *testing.T) {
		resp := Success(map[string]string{"key": "value"})
		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		var unmarshaled map[string]any
		if err := json.Unmarshal(data, &unmarshaled); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}

		// Check structure
		if _, ok := unmarshaled["data"]; !ok {
			t.Error("expected 'data' field in JSON")
		}
		if _, ok := unmarshaled["error"]; !ok {
			t.Error("expected 'error' field in JSON")
		}
	})

	t.Run("error response structure", func(t *testing.T) {
		resp := Fail("TEST", "message", "details")
		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		var unmarshaled map[string]any
		if err := json.Unmarshal(data, &unmarshaled); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}

		// Check error structure
		if unmarshaled["data"] != nil {
			t.Error("expected 'data' to be null")
		}

		errorField, ok := unmarshaled["error"].(map[string]any)
		if !ok {
			t.Fatal("expected 'error' to be an object")
		}

		if errorField["code"] != "TEST" {
			t.Errorf("expected code=TEST, got %v", errorField["code"])
		}
		if errorField["message"] != "message" {
			t.Errorf("expected message=message, got %v", errorField["message"])
		}
		if errorField["details"] != "details" {
			t.Errorf("expected details=details, got %v", errorField["details"])
		}
	})
}

// TestErrorDetails tests error details omitempty behavior.
func TestErrorDetails(t *testing.T) {
	t.Run("with details", func(t *testing.T) {
		resp := Fail("TEST", "message", "details")
		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		var unmarshaled map[string]any
		if err := json.Unmarshal(data, &unmarshaled); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}

		errorField := unmarshaled["error"].(map[string]any)
		if _, ok := errorField["details"]; !ok {
			t.Error("expected 'details' field when provided")
		}
	})

	t.Run("without details", func(t *testing.T) {
		resp := Fail("TEST", "message", "")
		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("failed to marshal: %v", err)
		}

		var unmarshaled map[string]any
		if err := json.Unmarshal(data, &unmarshaled); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}

		errorField := unmarshaled["error"].(map[string]any)
		// omitempty should exclude empty details
		if details, ok := errorField["details"]; ok && details != "" {
			t.Errorf("expected 'details' to be omitted when empty, got %v", details)
		}
	})
}
