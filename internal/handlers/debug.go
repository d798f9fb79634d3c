package handlers

import (
	"net/http"

	"medinote-backend/internal/store"

	"github.com/gin-gonic/gin"
)

// DebugHandler exposes collection dumps for development tooling. Not for
// production routing.
type DebugHandler struct {
	docs store.DocumentStore
}

func NewDebugHandler(docs store.DocumentStore) *DebugHandler {
	return &DebugHandler{docs: docs}
}

func (h *DebugHandler) Collections(c *gin.Context) {
	ctx := c.Request.Context()
	out := gin.H{}
	for _, collection := range []string{store.Users, store.Patients, store.Sessions, store.Templates} {
		docs, err := h.docs.List(ctx, collection)
		if err != nil {
			respondError(c, err)
			return
		}
		if docs == nil {
			docs = []map[string]any{}
		}
		out[collection] = docs
	}
	c.JSON(http.StatusOK, out)
}

func (h *DebugHandler) Sessions(c *gin.Context) {
	ctx := c.Request.Context()
	sessions, err := h.docs.List(ctx, store.Sessions)
	if err != nil {
		respondError(c, err)
		return
	}
	if sessions == nil {
		sessions = []map[string]any{}
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions":      sessions,
		"totalSessions": len(sessions),
	})
}
