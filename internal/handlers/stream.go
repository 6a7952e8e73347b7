package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediascope/internal/models"
)

type rowEvent struct {
	Index int                  `json:"index"`
	Item  models.DisplayRecord `json:"item"`
}

// streamLogs sends a "rows" event with loading placeholders, one "row"
// event per enriched item in completion order, then "done". A client
// disconnect cancels the request context and ends the stream.
func (h *Handler) streamLogs(c *gin.Context) {
	q, ok := logQuery(c)
	if !ok {
		return
	}

	started := false
	start := func() {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)
		started = true
	}

	err := h.uc.StreamLogs.Execute(c.Request.Context(), MustGetUserID(c), q,
		func(page *models.DisplayPage) {
			start()
			c.SSEvent("rows", page)
			c.Writer.Flush()
		},
		func(i int, rec models.DisplayRecord) {
			c.SSEvent("row", rowEvent{Index: i, Item: rec})
			c.Writer.Flush()
		})

	if err != nil {
		if !started {
			h.writeError(c, err)
			return
		}
		if c.Request.Context().Err() == nil {
			c.SSEvent("error", gin.H{"error": err.Error()})
			c.Writer.Flush()
		}
		return
	}

	c.SSEvent("done", gin.H{})
	c.Writer.Flush()
}
