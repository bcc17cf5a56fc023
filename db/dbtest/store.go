// Package dbtest provides an in-memory db.Store for tests.
package dbtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"edurate/db"
	"edurate/errs"
	"edurate/models"
)

// Store keeps courses and reviews in memory. Setting Err makes every call
// fail with it.
type Store struct {
	mu      sync.Mutex
	courses []models.Course
	reviews []models.Review
	nextID  int64
	clock   time.Time

	Err     error
	Inserts int
}

var _ db.Store = (*Store)(nil)

func New() *Store {
	return &Store{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *Store) AddCourse(department, code, name string) models.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c := models.Course{ID: s.nextID, Department: department, Code: code, Name: name, CreatedAt: s.tick()}
	s.courses = append(s.courses, c)
	return c
}

func (s *Store) AddReview(courseID int64, rating int, comment string) models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r := models.Review{ID: s.nextID, CourseID: courseID, Rating: rating, Comment: comment, StudentName: models.AnonymousName, CreatedAt: s.tick()}
	s.reviews = append(s.reviews, r)
	return r
}

func (s *Store) GetCourses(context.Context) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		c.Reviews = s.reviewsFor(c.ID)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.courses {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, errs.New(errs.NotFound, db.MsgCourseNotFound)
}

func (s *Store) GetReviewsByCourse(_ context.Context, courseID int64) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.reviewsFor(courseID), nil
}

func (s *Store) reviewsFor(courseID int64) []models.Review {
	out := []models.Review{}
	for _, r := range s.reviews {
		if r.CourseID == courseID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) InsertReview(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	found := false
	for _, c := range s.courses {
		if c.ID == r.CourseID {
			found = true
			break
		}
	}
	if !found {
		return errs.New(errs.NotFound, db.MsgCourseNotFound)
	}
	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = s.tick()
	s.reviews = append(s.reviews, *r)
	s.Inserts++
	return nil
}

func (s *Store) UpdateReviewCounters(_ context.Context, courseID, reviewID int64, d models.VoteDelta) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for i := range s.reviews {
		r := &s.reviews[i]
		if r.ID == reviewID && r.CourseID == courseID {
			r.Upvotes = max(0, r.Upvotes+d.Up)
			r.Downvotes = max(0, r.Downvotes+d.Down)
			out := *r
			return &out, nil
		}
	}
	return nil, errs.New(errs.Upstream, db.MsgReviewNotFound)
}

func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}
