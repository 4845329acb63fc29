package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/minasamy417/resultsboard/chat"
	"github.com/minasamy417/resultsboard/domain"
	"github.com/minasamy417/resultsboard/markup"
)

type sessionResponse struct {
	Session struct {
		SessionID string `json:"session_id"`
		DatasetID string `json:"dataset_id"`
	} `json:"session"`
	Messages         []messageJSON `json:"messages"`
	SuggestedPrompts []string      `json:"suggested_prompts"`
}

type messageJSON struct {
	MessageID string         `json:"message_id"`
	Role      string         `json:"role"`
	Text      string         `json:"text"`
	Blocks    []markup.Block `json:"blocks"`
}

func createSession(t *testing.T, e *echo.Echo, h *Handler) sessionResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{"dataset_id":"d1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateSession(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	return resp
}

func TestCreateSession(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, &fakePrompt{})

	resp := createSession(t, e, h)
	if resp.Session.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if resp.Session.DatasetID != "d1" {
		t.Fatalf("expected dataset d1, got %q", resp.Session.DatasetID)
	}
	if len(resp.Messages) != 1 {
		t.Fatalf("expected 1 seeded message, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Role != "assistant" {
		t.Fatalf("expected assistant greeting, got role %q", resp.Messages[0].Role)
	}
	if len(resp.Messages[0].Blocks) == 0 {
		t.Fatal("expected greeting to carry display blocks")
	}
	if len(resp.SuggestedPrompts) == 0 {
		t.Fatal("expected suggested prompts")
	}
}

func TestCreateSessionMissingDataset(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, &fakePrompt{})

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.CreateSession(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func postMessage(t *testing.T, e *echo.Echo, h *Handler, sessionID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/messages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	if err := h.PostMessage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestPostMessage(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, &fakePrompt{reply: "**النتيجة**:\n- بند أول"})
	sess := createSession(t, e, h)

	rec := postMessage(t, e, h, sess.Session.SessionID, `{"text":"كم عدد الخدام؟"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Messages []messageJSON `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.Messages))
	}
	if resp.Messages[0].Role != "user" || resp.Messages[1].Role != "assistant" {
		t.Fatalf("unexpected roles: %s, %s", resp.Messages[0].Role, resp.Messages[1].Role)
	}
	if len(resp.Messages[0].Blocks) != 0 {
		t.Fatal("user message should not carry blocks")
	}
	blocks := resp.Messages[1].Blocks
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Kind != domain.BlockKindHeading || blocks[1].Kind != domain.BlockKindBullet {
		t.Fatalf("unexpected block kinds: %s, %s", blocks[0].Kind, blocks[1].Kind)
	}
}

func TestPostMessageBlank(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, &fakePrompt{reply: "ok"})
	sess := createSession(t, e, h)

	rec := postMessage(t, e, h, sess.Session.SessionID, `{"text":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostMessageUnknownSession(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, &fakePrompt{reply: "ok"})

	rec := postMessage(t, e, h, "sess_missing", `{"text":"hi"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPostMessageBusy(t *testing.T) {
	e := echo.New()
	f := &fakePrompt{reply: "ok", release: make(chan struct{}), entered: make(chan struct{}, 1)}
	h := newTestHandler(t, f)
	sess := createSession(t, e, h)

	done := make(chan struct{})
	go func() {
		defer close(done)
		postMessage(t, e, h, sess.Session.SessionID, `{"text":"أول"}`)
	}()
	<-f.entered

	rec := postMessage(t, e, h, sess.Session.SessionID, `{"text":"ثاني"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	close(f.release)
	<-done
}

func TestGetSessionMessagesFallback(t *testing.T) {
	e := echo.New()
	h := newTestHandler(t, &fakePrompt{err: http.ErrHandlerTimeout})
	sess := createSession(t, e, h)

	rec := postMessage(t, e, h, sess.Session.SessionID, `{"text":"سؤال"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sess.Session.SessionID+"/messages", nil)
	getRec := httptest.NewRecorder()
	c := e.NewContext(req, getRec)
	c.SetParamNames("session_id")
	c.SetParamValues(sess.Session.SessionID)

	if err := h.GetSessionMessages(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Messages []messageJSON `json:"messages"`
		State    string        `json:"state"`
	}
	if err := json.Unmarshal(getRec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
	if len(resp.Messages) != 3 {
		t.Fatalf("expected greeting + question + fallback, got %d messages", len(resp.Messages))
	}
	if resp.Messages[2].Text != chat.FallbackText {
		t.Fatalf("expected fallback reply, got %q", resp.Messages[2].Text)
	}
	if resp.State != "idle" {
		t.Fatalf("expected idle state, got %q", resp.State)
	}
}
