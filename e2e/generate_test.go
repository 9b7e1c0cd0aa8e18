package e2e

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func validGenerateBody() string {
	return `{
		"problem": {
			"statement": "Solve for x: 2x + 5 = 13",
			"grade": 8,
			"topic": "Linear Equations",
			"solutionSteps": ["2x + 5 = 13", "2x = 13 - 5", "2x = 8", "x = 4"],
			"answer": "x = 4"
		},
		"quality": "low"
	}`
}

func TestGenerateStart_Success(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/videos/generate", validGenerateBody())
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusAccepted)

	result := parseJSON(t, resp)
	if result["jobId"] == nil || result["jobId"] == "" {
		t.Error("expected 'jobId' in response")
	}
	if result["status"] != "queued" {
		t.Errorf("expected status 'queued', got %v", result["status"])
	}
	if est, ok := result["estimatedDuration"].(float64); !ok || est <= 0 {
		t.Errorf("expected positive estimatedDuration, got %v", result["estimatedDuration"])
	}
}

func TestGenerateStart_NoAuth(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/api/videos/generate", validGenerateBody(), nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestGenerateStart_GradeOutOfRange(t *testing.T) {
	ta := setupApp(t)

	body := `{
		"problem": {
			"statement": "Solve for x: 2x + 5 = 13",
			"grade": 12,
			"topic": "Linear Equations",
			"solutionSteps": ["x = 4"],
			"answer": "x = 4"
		}
	}`

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/videos/generate", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)

	result := parseJSON(t, resp)
	errObj := result["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	if details["kind"] != "GRADE_OUT_OF_RANGE" {
		t.Errorf("expected kind GRADE_OUT_OF_RANGE, got %v", details["kind"])
	}
}

func TestGenerateStart_EmptySolution(t *testing.T) {
	ta := setupApp(t)

	body := `{
		"problem": {
			"statement": "Solve for x: 2x + 5 = 13",
			"grade": 8,
			"topic": "Linear Equations",
			"solutionSteps": [],
			"answer": "x = 4"
		}
	}`

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/videos/generate", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}

func TestGenerateStart_InvalidBody(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/videos/generate", `{"problem": {}}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}

func TestGenerateStatus_Success(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/videos/generate", validGenerateBody())
	if err != nil {
		t.Fatalf("start request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusAccepted)
	startResult := parseJSON(t, resp)
	jobID := startResult["jobId"].(string)

	resp, err = doAuthRequest(t, ta.app, http.MethodGet, "/api/videos/status/"+jobID, "")
	if err != nil {
		t.Fatalf("status request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	statusResult := parseJSON(t, resp)
	if statusResult["jobId"] != jobID {
		t.Errorf("expected jobId %s, got %v", jobID, statusResult["jobId"])
	}
	if statusResult["status"] == nil {
		t.Error("expected 'status' field in response")
	}
}

func TestGenerateStatus_NotFound(t *testing.T) {
	ta := setupApp(t)

	fakeJobID := uuid.New().String()
	resp, err := doAuthRequest(t, ta.app, http.MethodGet, "/api/videos/status/"+fakeJobID, "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusNotFound)

	result := parseJSON(t, resp)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("expected error code NOT_FOUND, got %v", errObj["code"])
	}
}

func TestGenerateResult_NotCompleted(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/videos/generate", validGenerateBody())
	if err != nil {
		t.Fatalf("start request failed: %v", err)
	}
	startResult := parseJSON(t, resp)
	jobID := startResult["jobId"].(string)

	// No worker is draining the queue, so the job stays queued
	resp, err = doAuthRequest(t, ta.app, http.MethodGet, "/api/videos/result/"+jobID, "")
	if err != nil {
		t.Fatalf("result request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}

func TestGenerateCancel_Success(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/videos/generate", validGenerateBody())
	if err != nil {
		t.Fatalf("start request failed: %v", err)
	}
	startResult := parseJSON(t, resp)
	jobID := startResult["jobId"].(string)

	resp, err = doAuthRequest(t, ta.app, http.MethodPost, "/api/videos/cancel/"+jobID, "")
	if err != nil {
		t.Fatalf("cancel request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	cancelResult := parseJSON(t, resp)
	if cancelResult["success"] != true {
		t.Errorf("expected success true, got %v", cancelResult["success"])
	}
	if cancelResult["status"] != "canceled" {
		t.Errorf("expected status canceled, got %v", cancelResult["status"])
	}
}

func TestGenerateCancel_NotFound(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/videos/cancel/"+uuid.New().String(), "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusNotFound)
}
