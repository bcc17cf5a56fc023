package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"edurate/db"
	"edurate/errs"
	"edurate/review"
	"edurate/services"
	"edurate/vote"
)

const (
	MsgReviewCreated = "Review submitted successfully"
	MsgInvalidJSON   = "Invalid JSON body"
	MsgSwitchFrom    = "switch_from must be up or down"
)

type submitReviewRequest struct {
	Rating      interface{} `json:"rating"`
	Comment     interface{} `json:"comment"`
	StudentName *string     `json:"student_name"`
}

type voteRequest struct {
	SwitchFrom string `json:"switch_from" binding:"omitempty,oneof=up down"`
}

type ReviewHandler struct {
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// RegisterRoutes mounts the review endpoints under g (/api/courses). Every
// write goes through writeGuards first.
func (h *ReviewHandler) RegisterRoutes(g *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writeGuards...), handler)
	}

	g.GET("/:id/reviews", h.ListReviews)
	g.POST("/:id/reviews", write(h.SubmitReview)...)
	g.POST("/:id/reviews/:reviewId/upvote", write(h.vote(vote.Up))...)
	g.POST("/:id/reviews/:reviewId/downvote", write(h.vote(vote.Down))...)
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	courseID, err := paramID(c, "id", db.MsgCourseNotFound)
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, err := h.reviews.ListReviews(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, reviews)
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	courseID, err := paramID(c, "id", db.MsgCourseNotFound)
	if err != nil {
		respondError(c, err)
		return
	}

	var req submitReviewRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, errs.Wrap(errs.InvalidBody, err, MsgInvalidJSON))
		return
	}

	created, err := h.reviews.Submit(c.Request.Context(), courseID, review.Candidate{
		Rating:  req.Rating,
		Comment: req.Comment,
		Author:  req.StudentName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, MsgReviewCreated, created)
}

func (h *ReviewHandler) vote(dir vote.Direction) gin.HandlerFunc {
	return func(c *gin.Context) {
		// An id that can't address a row is a failed review lookup.
		courseID, err := paramID(c, "id", db.MsgReviewNotFound)
		if err != nil {
			respondError(c, errs.Wrap(errs.Upstream, err, db.MsgReviewNotFound))
			return
		}
		reviewID, err := paramID(c, "reviewId", db.MsgReviewNotFound)
		if err != nil {
			respondError(c, errs.Wrap(errs.Upstream, err, db.MsgReviewNotFound))
			return
		}

		var req voteRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			msg := MsgInvalidJSON
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				msg = MsgSwitchFrom
			}
			respondError(c, errs.Wrap(errs.InvalidBody, err, msg))
			return
		}

		updated, err := h.reviews.Vote(c.Request.Context(), courseID, reviewID, dir, vote.Direction(req.SwitchFrom))
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, updated)
	}
}
