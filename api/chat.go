package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/minasamy417/resultsboard/chat"
	"github.com/minasamy417/resultsboard/domain"
	"github.com/minasamy417/resultsboard/markup"
)

type createSessionRequest struct {
	DatasetID string `json:"dataset_id"`
}

// CreateSession opens a new chat session over a dataset.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.DatasetID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "dataset_id is required"})
	}

	sess := h.chat.CreateSession(req.DatasetID)
	messages, err := h.chat.Messages(sess.SessionID)
	if err != nil {
		h.log.Error("failed to read seeded messages", "session_id", sess.SessionID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session":           sess,
		"messages":          renderMessages(messages),
		"suggested_prompts": chat.SuggestedPrompts,
	})
}

// GetSessionMessages returns the full message log for a session.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")

	messages, state, err := h.chat.Snapshot(sessionID)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		h.log.Error("failed to get messages", "session_id", sessionID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get messages"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": renderMessages(messages),
		"state":    state,
	})
}

type postMessageRequest struct {
	Text string `json:"text"`
}

// PostMessage submits a user question and waits for the assistant reply.
// POST /v1/sessions/:session_id/messages
func (h *Handler) PostMessage(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	userMsg, reply, err := h.chat.Submit(ctx, sessionID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyInput):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
		case errors.Is(err, chat.ErrBusy):
			return c.JSON(http.StatusConflict, map[string]string{"error": "a response is already in progress"})
		case errors.Is(err, chat.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
		}
		h.log.Error("failed to submit message", "session_id", sessionID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to submit message"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": renderMessages([]domain.Message{*userMsg, *reply}),
	})
}

// Stream upgrades the connection to a websocket that receives every
// message appended to the session as it happens.
// GET /v1/sessions/:session_id/stream
func (h *Handler) Stream(c echo.Context) error {
	sessionID := c.Param("session_id")

	if _, err := h.chat.GetSession(sessionID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	if h.stream == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "streaming is not enabled"})
	}
	return h.stream.Serve(c, sessionID)
}

// renderedMessage is a message plus its display blocks. Blocks are
// attached to assistant messages only; user text renders verbatim.
type renderedMessage struct {
	domain.Message
	Blocks []markup.Block `json:"blocks,omitempty"`
}

func renderMessages(messages []domain.Message) []renderedMessage {
	out := make([]renderedMessage, 0, len(messages))
	for _, m := range messages {
		rm := renderedMessage{Message: m}
		if m.Role == domain.RoleAssistant {
			rm.Blocks = markup.Parse(m.Text)
		}
		out = append(out, rm)
	}
	return out
}
