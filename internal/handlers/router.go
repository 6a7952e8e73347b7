package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mediascope/internal/usecases"
)

func NewRouter(uc *usecases.UseCases, verifier TokenVerifier, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	me := api.Group("/me", IdentityMiddleware(verifier))
	NewHandler(uc, logger).RegisterRoutes(api, me)

	return r
}
