// Package handlers is the HTTP surface over the use cases.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mediascope/internal/models"
	"mediascope/internal/usecases"
)

type Handler struct {
	uc     *usecases.UseCases
	logger *logrus.Logger
}

func NewHandler(uc *usecases.UseCases, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{uc: uc, logger: logger}
}

// RegisterRoutes mounts the catalog routes on public and the per-user
// routes on me, which must already carry IdentityMiddleware.
func (h *Handler) RegisterRoutes(public, me *gin.RouterGroup) {
	public.GET("/search", h.search)
	public.GET("/media/:type/:id", h.details)
	public.GET("/top/:type", h.topRated)

	me.GET("/backlog", h.listBacklog)
	me.GET("/backlog/:type/:id", h.backlogStatus)
	me.POST("/backlog/:type/:id/toggle", h.toggleBacklog)

	me.GET("/logs", h.listLogs)
	me.GET("/logs/stream", h.streamLogs)
	me.GET("/logs/:type/:id", h.getLog)
	me.PUT("/logs/:type/:id", h.putLog)
	me.DELETE("/logs/:type/:id", h.deleteLog)

	me.GET("/stats", h.stats)
	me.GET("/profile", h.getProfile)
	me.PUT("/profile", h.putProfile)
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

func (h *Handler) search(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	res, err := h.uc.SearchMedia.Execute(c.Request.Context(), c.Query("q"), page, c.Query("type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) details(c *gin.Context) {
	item, err := h.uc.GetMediaDetails.Execute(c.Request.Context(), c.Param("type"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) topRated(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	res, err := h.uc.TopRated.Execute(c.Request.Context(), c.Param("type"), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) listBacklog(c *gin.Context) {
	entries, err := h.uc.ListBacklog.Execute(c.Request.Context(), MustGetUserID(c), c.Query("type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *Handler) backlogStatus(c *gin.Context) {
	in, err := h.uc.GetBacklogStatus.Execute(c.Request.Context(), MustGetUserID(c), c.Param("type"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_backlog": in})
}

func (h *Handler) toggleBacklog(c *gin.Context) {
	in, err := h.uc.ToggleBacklog.Execute(c.Request.Context(), MustGetUserID(c), c.Param("type"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_backlog": in})
}

func (h *Handler) getLog(c *gin.Context) {
	l, err := h.uc.GetLog.Execute(c.Request.Context(), MustGetUserID(c), c.Param("type"), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": l})
}

type logBody struct {
	Rating      *int    `json:"rating"`
	Liked       *bool   `json:"liked"`
	WatchedDate *string `json:"watched_date"`
	Review      *string `json:"review"`
}

func (h *Handler) putLog(c *gin.Context) {
	var body logBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	l, err := h.uc.LogItem.Execute(c.Request.Context(), MustGetUserID(c), models.LogInput{
		MediaType:   models.MediaType(c.Param("type")),
		ExternalID:  c.Param("id"),
		Rating:      body.Rating,
		Liked:       body.Liked,
		WatchedDate: body.WatchedDate,
		Review:      body.Review,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": l})
}

func (h *Handler) deleteLog(c *gin.Context) {
	if err := h.uc.RemoveLog.Execute(c.Request.Context(), MustGetUserID(c), c.Param("type"), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func logQuery(c *gin.Context) (usecases.LogQueryInput, bool) {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		return usecases.LogQueryInput{}, false
	}
	size, ok := queryInt(c, "page_size", 0)
	if !ok {
		return usecases.LogQueryInput{}, false
	}
	return usecases.LogQueryInput{
		MediaType: c.Query("type"),
		Sort:      c.Query("sort"),
		Page:      page,
		PageSize:  size,
	}, true
}

func (h *Handler) listLogs(c *gin.Context) {
	q, ok := logQuery(c)
	if !ok {
		return
	}
	page, err := h.uc.ListLogs.Execute(c.Request.Context(), MustGetUserID(c), q)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.uc.GetProfileStats.Execute(c.Request.Context(), MustGetUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) getProfile(c *gin.Context) {
	p, err := h.uc.GetProfile.Execute(c.Request.Context(), MustGetUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) putProfile(c *gin.Context) {
	var in models.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := h.uc.UpdateProfile.Execute(c.Request.Context(), MustGetUserID(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
