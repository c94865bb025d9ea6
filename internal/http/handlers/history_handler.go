// README: Search history handler.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wayfare/internal/modules/history"
)

const maxHistoryLimit = 100

type HistoryService interface {
	History(ctx context.Context, limit int) ([]history.Record, error)
}

type HistoryHandler struct {
	svc          HistoryService
	defaultLimit int
}

func NewHistoryHandler(svc HistoryService, defaultLimit int) *HistoryHandler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &HistoryHandler{svc: svc, defaultLimit: defaultLimit}
}

// Recent handles GET /api/history.
func (h *HistoryHandler) Recent(c *gin.Context) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(c, http.StatusOK, map[string]any{"history": records})
}
