package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"edurate/errs"
)

type successResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Path    string `json:"path,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, successResponse{Success: true, Data: data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, successResponse{Success: true, Message: message, Data: data})
}

// respondError maps err to its status. Server-side failures are attached to
// the context so ErrorLogger picks them up.
func respondError(c *gin.Context, err error) {
	status := errs.KindOf(err).Status()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: err.Error()})
}

// bindOptionalJSON decodes the body into dst. An empty body leaves dst alone.
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// paramID parses a numeric path parameter. Anything else addresses nothing,
// so it is reported as notFound.
func paramID(c *gin.Context, name, notFound string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.New(errs.NotFound, notFound)
	}
	return id, nil
}
