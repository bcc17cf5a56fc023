package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"edurate/db"
	"edurate/errs"
	"edurate/models"
	"edurate/monitoring"
	"edurate/review"
	"edurate/vote"
)

type ReviewService struct {
	store     db.Store
	validator *review.Validator
	metrics   *monitoring.Metrics
	log       *logrus.Logger
}

func NewReviewService(store db.Store, validator *review.Validator, metrics *monitoring.Metrics, log *logrus.Logger) *ReviewService {
	return &ReviewService{store: store, validator: validator, metrics: metrics, log: log}
}

func (s *ReviewService) ListReviews(ctx context.Context, courseID int64) ([]models.Review, error) {
	return s.store.GetReviewsByCourse(ctx, courseID)
}

// Submit validates c and inserts it. Nothing is written when validation fails.
func (s *ReviewService) Submit(ctx context.Context, courseID int64, c review.Candidate) (*models.Review, error) {
	draft, err := s.validator.Validate(courseID, c)
	if err != nil {
		s.metrics.ReviewSubmitted(errs.KindOf(err).String())
		if errs.KindOf(err) == errs.InappropriateContent {
			s.log.WithField("course_id", courseID).Warn("Review rejected due to inappropriate language")
		}
		return nil, err
	}

	r := draft.Review()
	if err := s.store.InsertReview(ctx, r); err != nil {
		s.metrics.ReviewSubmitted(errs.KindOf(err).String())
		return nil, err
	}

	s.metrics.ReviewSubmitted("created")
	s.log.WithFields(logrus.Fields{
		"course_id": courseID,
		"review_id": r.ID,
		"rating":    r.Rating,
	}).Info("Review submitted")
	return r, nil
}

// Vote adds one vote in direction dir. When switchFrom names the opposite
// direction the voter's previous vote is withdrawn in the same update.
func (s *ReviewService) Vote(ctx context.Context, courseID, reviewID int64, dir, switchFrom vote.Direction) (*models.Review, error) {
	if dir != vote.Up && dir != vote.Down {
		return nil, errs.New(errs.InvalidBody, "Vote direction must be up or down")
	}
	from := vote.None
	if switchFrom == dir.Opposite() {
		from = switchFrom
	}
	_, delta, _ := vote.Transition(from, dir)

	r, err := s.store.UpdateReviewCounters(ctx, courseID, reviewID, delta)
	if err != nil {
		return nil, err
	}
	s.metrics.VoteCast(string(dir))
	return r, nil
}
