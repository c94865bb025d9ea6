// README: Handler tests for request validation and envelope passthrough.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"wayfare/internal/formatter"
	"wayfare/internal/http/handlers"
	"wayfare/internal/intent"
	"wayfare/internal/modules/history"
)

type stubChatService struct {
	env     formatter.Envelope
	err     error
	gotCtx  intent.Context
	records []history.Record
}

func (s *stubChatService) Chat(_ context.Context, _ string, convCtx intent.Context) (formatter.Envelope, error) {
	s.gotCtx = convCtx
	return s.env, s.err
}

func (s *stubChatService) History(context.Context, int) ([]history.Record, error) {
	return s.records, nil
}

func buildTestRouter(svc *stubChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/chat", handlers.NewChatHandler(svc).Chat)
	r.GET("/api/history", handlers.NewHistoryHandler(svc, 20).Recent)
	return r
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChat_EmptyMessage(t *testing.T) {
	r := buildTestRouter(&stubChatService{})
	w := doRequest(r, http.MethodPost, "/api/chat", map[string]any{"message": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	r := buildTestRouter(&stubChatService{})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChat_EnvelopePassthrough(t *testing.T) {
	svc := &stubChatService{env: formatter.Envelope{
		Action:  formatter.ActionGetWeather,
		Content: "Current weather in Paris: clear sky, 21°C.",
	}}
	r := buildTestRouter(svc)

	w := doRequest(r, http.MethodPost, "/api/chat", map[string]any{
		"message": "weather in Paris",
		"context": map[string]any{"location": " Paris ", "adults": 2},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got struct {
		Action  string          `json:"action"`
		Content string          `json:"content"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("response unmarshal: %v", err)
	}
	if got.Action != "get_weather" {
		t.Errorf("action = %q", got.Action)
	}
	if string(got.Data) != "null" {
		t.Errorf("data = %s, want null", got.Data)
	}
	if svc.gotCtx.Location != "Paris" || svc.gotCtx.Adults != 2 {
		t.Errorf("context not forwarded: %+v", svc.gotCtx)
	}
}

func TestChat_ServiceError(t *testing.T) {
	r := buildTestRouter(&stubChatService{err: errors.New("boom")})
	w := doRequest(r, http.MethodPost, "/api/chat", map[string]any{"message": "hi"})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestHistory_InvalidLimit(t *testing.T) {
	r := buildTestRouter(&stubChatService{})
	w := doRequest(r, http.MethodGet, "/api/history?limit=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHistory_EmptyIsList(t *testing.T) {
	r := buildTestRouter(&stubChatService{})
	w := doRequest(r, http.MethodGet, "/api/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got struct {
		History []history.Record `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("response unmarshal: %v", err)
	}
	if got.History == nil {
		t.Error("history must be an empty list, not null")
	}
}
