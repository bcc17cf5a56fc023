package handlers

import (
	"github.com/gin-gonic/gin"

	"edurate/db"
	"edurate/services"
)

type CourseHandler struct {
	courses *services.CourseService
}

func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// RegisterRoutes mounts the read-only course endpoints on g, which is
// expected to be /api/courses.
func (h *CourseHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("", h.ListCourses)
	g.GET("/departments", h.Departments)
	g.GET("/:id", h.GetCourse)
}

// ListCourses accepts optional search and department query parameters.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var f services.Filter
	// Query binding into plain strings cannot fail.
	_ = c.ShouldBindQuery(&f)

	courses, err := h.courses.ListCourses(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, courses)
}

func (h *CourseHandler) Departments(c *gin.Context) {
	deps, err := h.courses.Departments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, deps)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := paramID(c, "id", db.MsgCourseNotFound)
	if err != nil {
		respondError(c, err)
		return
	}
	course, err := h.courses.GetCourse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, course)
}
