package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	APIName    = "EduRate API"
	APIVersion = "1.0.0"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the service banner, the database probe and the
// catch-all 404.
type SystemHandler struct {
	db Pinger
}

func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

func (h *SystemHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/ping-db", h.PingDB)
	r.NoRoute(h.NotFound)
}

func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": APIName,
		"version": APIVersion,
		"status":  "running",
	})
}

func (h *SystemHandler) PingDB(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "failed", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *SystemHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, errorResponse{
		Success: false,
		Error:   "Route not found",
		Path:    c.Request.URL.Path,
	})
}
