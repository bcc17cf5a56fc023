package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"edurate/errs"
	"edurate/models"
)

const (
	MsgCourseNotFound = "Course not found"
	MsgReviewNotFound = "Review not found"
)

// Store is everything the services need from the database.
type Store interface {
	// GetCourses returns every course, newest first, with each course's
	// review ratings loaded for aggregation.
	GetCourses(ctx context.Context) ([]models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	// GetReviewsByCourse returns a course's reviews, newest first.
	GetReviewsByCourse(ctx context.Context, courseID int64) ([]models.Review, error)
	// InsertReview fills in the id and timestamp of r.
	InsertReview(ctx context.Context, r *models.Review) error
	// UpdateReviewCounters applies d atomically and returns the updated row.
	UpdateReviewCounters(ctx context.Context, courseID, reviewID int64, d models.VoteDelta) (*models.Review, error)
	Ping(ctx context.Context) error
}

type GormStore struct {
	db *gorm.DB
}

func NewStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) GetCourses(ctx context.Context) ([]models.Course, error) {
	courses := []models.Course{}
	err := s.db.WithContext(ctx).
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "course_id", "rating")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Find(&courses).Error
	if err != nil {
		return nil, upstream(err)
	}
	return courses, nil
}

func (s *GormStore) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Wrap(errs.NotFound, err, MsgCourseNotFound)
	}
	if err != nil {
		return nil, upstream(err)
	}
	return &course, nil
}

func (s *GormStore) GetReviewsByCourse(ctx context.Context, courseID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, upstream(err)
	}
	return reviews, nil
}

func (s *GormStore) InsertReview(ctx context.Context, r *models.Review) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Course{}).Where("id = ?", r.CourseID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return errs.New(errs.NotFound, MsgCourseNotFound)
		}
		return tx.Create(r).Error
	})
	if err == nil {
		return nil
	}
	if isForeignKeyViolation(err) {
		return errs.Wrap(errs.NotFound, err, MsgCourseNotFound)
	}
	return upstream(err)
}

func (s *GormStore) UpdateReviewCounters(ctx context.Context, courseID, reviewID int64, d models.VoteDelta) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := func() *gorm.DB {
			return tx.Model(&models.Review{}).Where("id = ? AND course_id = ?", reviewID, courseID)
		}

		if !d.IsZero() {
			updates := map[string]interface{}{}
			if d.Up != 0 {
				updates["upvotes"] = counterExpr("upvotes", d.Up)
			}
			if d.Down != 0 {
				updates["downvotes"] = counterExpr("downvotes", d.Down)
			}
			res := scope().Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errs.New(errs.Upstream, MsgReviewNotFound)
			}
		}

		err := scope().First(&review).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Wrap(errs.Upstream, err, MsgReviewNotFound)
		}
		return err
	})
	if err != nil {
		return nil, upstream(err)
	}
	return &review, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return upstream(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return upstream(err)
	}
	return nil
}

// counterExpr increments col in place. Decrements stop at zero.
func counterExpr(col string, n int) clause.Expr {
	if n >= 0 {
		return gorm.Expr(col+" + ?", n)
	}
	return gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s >= ? THEN %[1]s - ? ELSE 0 END", col), -n, -n)
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// upstream keeps already classified errors and marks the rest as datastore
// failures.
func upstream(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.Wrap(errs.Upstream, err, "")
}
