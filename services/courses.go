package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"edurate/concurrent"
	"edurate/db"
	"edurate/models"
	"edurate/rating"
)

// AllDepartments is the department filter value that matches every course.
const AllDepartments = "All"

// Filter narrows the course list. Search matches the course name without
// regard to case, or a substring of the course code. Department matches
// exactly; empty or AllDepartments disables it.
type Filter struct {
	Search     string `form:"search"`
	Department string `form:"department"`
}

func (f Filter) Match(c models.Course) bool {
	if f.Department != "" && f.Department != AllDepartments && c.Department != f.Department {
		return false
	}
	if f.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) ||
		strings.Contains(c.Code, f.Search)
}

type CourseService struct {
	store db.Store
	log   *logrus.Logger
}

func NewCourseService(store db.Store, log *logrus.Logger) *CourseService {
	return &CourseService{store: store, log: log}
}

// ListCourses returns courses newest first with their rating summary.
func (s *CourseService) ListCourses(ctx context.Context, f Filter) ([]models.Course, error) {
	courses, err := s.store.GetCourses(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if !f.Match(c) {
			continue
		}
		rating.SummarizeReviews(c.Reviews).Apply(&c)
		c.Reviews = nil
		out = append(out, c)
	}
	return out, nil
}

// GetCourse loads a course and its reviews concurrently. Either read failing
// fails the whole lookup.
func (s *CourseService) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, reviews, err := concurrent.Pair(ctx,
		func(ctx context.Context) (*models.Course, error) { return s.store.GetCourseByID(ctx, id) },
		func(ctx context.Context) ([]models.Review, error) { return s.store.GetReviewsByCourse(ctx, id) },
	)
	if err != nil {
		return nil, err
	}
	rating.SummarizeReviews(reviews).Apply(course)
	return course, nil
}

// Departments lists the distinct departments in catalog order, led by
// AllDepartments.
func (s *CourseService) Departments(ctx context.Context) ([]string, error) {
	courses, err := s.store.GetCourses(ctx)
	if err != nil {
		return nil, err
	}
	out := []string{AllDepartments}
	seen := make(map[string]bool)
	for _, c := range courses {
		if !seen[c.Department] {
			seen[c.Department] = true
			out = append(out, c.Department)
		}
	}
	return out, nil
}

func (s *CourseService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
