package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// Transition endpoints take fully optional bodies; a POST with no body at all
// must get past binding. Without auth context the handlers then fail with
// 401, which is the signal that binding accepted the empty body (a binding
// failure would have returned 400 instead).

func transitionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/jobs/:jobId/completion/submit", submitCompletionHandler())
	r.POST("/jobs/:jobId/completion/approve", approveCompletionHandler())
	r.POST("/jobs/:jobId/completion/reject", rejectCompletionHandler())
	return r
}

func TestSubmitCompletion_EmptyBodyPassesBinding(t *testing.T) {
	r := transitionRouter()

	req := httptest.NewRequest(http.MethodPost, "/jobs/7/completion/submit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d (empty body must not fail binding)", w.Code, http.StatusUnauthorized)
	}
}

func TestApproveCompletion_EmptyBodyPassesBinding(t *testing.T) {
	r := transitionRouter()

	req := httptest.NewRequest(http.MethodPost, "/jobs/7/completion/approve", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d (empty body must not fail binding)", w.Code, http.StatusUnauthorized)
	}
}

func TestRejectCompletion_EmptyBodyPassesBinding(t *testing.T) {
	r := transitionRouter()

	req := httptest.NewRequest(http.MethodPost, "/jobs/7/completion/reject", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// binding passes; the org check fires before the rejection-reason check
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d (empty body must not fail binding)", w.Code, http.StatusUnauthorized)
	}
}

func TestSubmitCompletion_MalformedBodyStillRejected(t *testing.T) {
	r := transitionRouter()

	req := httptest.NewRequest(http.MethodPost, "/jobs/7/completion/submit", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d for malformed JSON", w.Code, http.StatusBadRequest)
	}
}
