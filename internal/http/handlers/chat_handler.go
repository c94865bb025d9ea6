// README: Chat handler; turns one utterance into a formatted envelope.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wayfare/internal/formatter"
	"wayfare/internal/intent"
)

// chatTimeout bounds one full pipeline run including provider and model
// calls.
const chatTimeout = 30 * time.Second

const maxMessageLen = 2000

// ChatService is the slice of the assistant the handler needs.
type ChatService interface {
	Chat(ctx context.Context, query string, convCtx intent.Context) (formatter.Envelope, error)
}

type ChatHandler struct {
	svc ChatService
}

func NewChatHandler(svc ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatContext struct {
	Location  string  `json:"location"`
	Origin    string  `json:"origin"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Adults    int     `json:"adults"`
	Budget    float64 `json:"budget"`
}

type chatReq struct {
	Message string      `json:"message"`
	Context chatContext `json:"context"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}
	if len(req.Message) > maxMessageLen {
		writeError(c, http.StatusBadRequest, "message too long")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), chatTimeout)
	defer cancel()

	env, err := h.svc.Chat(ctx, req.Message, intent.Context{
		Location:  strings.TrimSpace(req.Context.Location),
		Origin:    strings.TrimSpace(req.Context.Origin),
		StartDate: req.Context.StartDate,
		EndDate:   req.Context.EndDate,
		Adults:    req.Context.Adults,
		Budget:    req.Context.Budget,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(c, http.StatusOK, env)
}
