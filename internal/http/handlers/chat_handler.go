// README: Chat handlers; one turn per POST, plus session info, history, clear and stats.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trailmate/internal/http/middleware"
	"trailmate/internal/modules/dialogue"
	"trailmate/internal/modules/session"
)

// Dialogue is the engine surface the chat routes need.
type Dialogue interface {
	HandleTurn(ctx context.Context, req dialogue.TurnRequest) (dialogue.TurnResponse, error)
	History(ctx context.Context, id string) ([]session.Turn, error)
	Clear(ctx context.Context, id string) error
	Info(ctx context.Context, id string) (dialogue.SessionInfo, error)
	Stats(ctx context.Context) (dialogue.Stats, error)
}

type ChatHandler struct {
	dialogue Dialogue
}

func NewChatHandler(d Dialogue) *ChatHandler {
	return &ChatHandler{dialogue: d}
}

type chatReq struct {
	Message   *string           `json:"message"`
	SessionID string            `json:"sessionId"`
	Profile   map[string]string `json:"profile"`
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		writeChatError(c, dialogue.ErrValidation)
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID != "" && !isValidID(req.SessionID) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}

	resp, err := h.dialogue.HandleTurn(c.Request.Context(), dialogue.TurnRequest{
		SessionID: req.SessionID,
		Message:   *req.Message,
		Profile:   req.Profile,
		UserID:    middleware.CallerUID(c),
	})
	if err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}

// Info handles GET /chat/:sessionId.
func (h *ChatHandler) Info(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	info, err := h.dialogue.Info(c.Request.Context(), id)
	if err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, info)
}

// History handles GET /chat/:sessionId/history.
func (h *ChatHandler) History(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	history, err := h.dialogue.History(c.Request.Context(), id)
	if err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"sessionId": id, "history": history, "length": len(history)})
}

// Clear handles DELETE /chat/:sessionId.
func (h *ChatHandler) Clear(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.dialogue.Clear(c.Request.Context(), id); err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "message": "Session cleared"})
}

// Stats handles GET /stats.
func (h *ChatHandler) Stats(c *gin.Context) {
	st, err := h.dialogue.Stats(c.Request.Context())
	if err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, st)
}

func (h *ChatHandler) sessionID(c *gin.Context) (string, bool) {
	id := c.Param("sessionId")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return "", false
	}
	return id, true
}
