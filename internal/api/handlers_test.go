package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"healthchat/internal/models"
)

type recordingResponder struct {
	requests []*models.ChatRequest
	reply    string
	err      error
}

func (r *recordingResponder) Respond(_ context.Context, req *models.ChatRequest) (string, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return "", r.err
	}
	return r.reply, nil
}

func newTestRouter(responder Responder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(responder, nil).RegisterRoutes(router)
	return router
}

func postChat(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch v := body.(type) {
	case string:
		buf.WriteString(v)
	default:
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/api/chat", &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestChatSuccess(t *testing.T) {
	responder := &recordingResponder{reply: "stay hydrated"}
	router := newTestRouter(responder)

	rec := postChat(t, router, map[string]string{"prompt": "headache remedies"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
	var body models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Response != "stay hydrated" {
		t.Errorf("response = %q", body.Response)
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", body.Timestamp, err)
	}
	if len(responder.requests) != 1 || responder.requests[0].Prompt != "headache remedies" {
		t.Errorf("responder saw %+v", responder.requests)
	}
}

func TestChatInvalidJSON(t *testing.T) {
	router := newTestRouter(&recordingResponder{})
	rec := postChat(t, router, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestChatEmptyRequest(t *testing.T) {
	responder := &recordingResponder{}
	router := newTestRouter(responder)
	rec := postChat(t, router, map[string]any{"prompt": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := errorBody(t, rec); !strings.Contains(msg, "required") {
		t.Errorf("error = %q, want an explanatory message", msg)
	}
	if len(responder.requests) != 0 {
		t.Errorf("no upstream call may be made for an empty request")
	}
}

func TestChatPromptTooLong(t *testing.T) {
	responder := &recordingResponder{}
	router := newTestRouter(responder)
	rec := postChat(t, router, map[string]string{"prompt": strings.Repeat("a", 4001)})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := errorBody(t, rec); !strings.Contains(msg, "4000") {
		t.Errorf("length error must pass through verbatim, got %q", msg)
	}
	if len(responder.requests) != 0 {
		t.Errorf("over-length prompt must be rejected before any upstream call")
	}
}

func TestChatMalformedImage(t *testing.T) {
	router := newTestRouter(&recordingResponder{})

	rec := postChat(t, router, map[string]string{"image": "data:image/tiff;base64,AAAA"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unsupported type: status = %d", rec.Code)
	}

	rec = postChat(t, router, map[string]string{"image": "not a data url"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed: status = %d", rec.Code)
	}
}

func TestChatImageObjectForm(t *testing.T) {
	responder := &recordingResponder{reply: "looks like a mild rash"}
	router := newTestRouter(responder)

	rec := postChat(t, router, map[string]any{
		"prompt": "what is this",
		"image": map[string]string{
			"data":     base64.StdEncoding.EncodeToString([]byte("pixels")),
			"mimeType": "image/png",
			"name":     "rash.png",
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if responder.requests[0].Image == nil {
		t.Errorf("image attachment was dropped")
	}
}

func TestChatUnconfigured(t *testing.T) {
	router := newTestRouter(nil)
	rec := postChat(t, router, map[string]string{"prompt": "hello"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestChatGenerationFailureIsSoothing(t *testing.T) {
	responder := &recordingResponder{err: errors.New("rpc error: secret internal detail")}
	router := newTestRouter(responder)
	rec := postChat(t, router, map[string]string{"prompt": "hello"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	msg := errorBody(t, rec)
	if strings.Contains(msg, "secret internal detail") {
		t.Errorf("internal error text leaked: %q", msg)
	}
	if !strings.Contains(msg, "try again") {
		t.Errorf("expected a reassuring message, got %q", msg)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestClientRoundTrip(t *testing.T) {
	responder := &recordingResponder{reply: "rest and fluids"}
	srv := httptest.NewServer(newTestRouter(responder))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Send(context.Background(), &models.ChatRequest{Prompt: "flu symptoms"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Response != "rest and fluids" {
		t.Errorf("response = %q", resp.Response)
	}
}

func TestClientSurfacesServerError(t *testing.T) {
	responder := &recordingResponder{err: errors.New("boom")}
	srv := httptest.NewServer(newTestRouter(responder))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Send(context.Background(), &models.ChatRequest{Prompt: "hello"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "try again") {
		t.Errorf("client should surface the server's error string, got %v", err)
	}
}
