package models

import "time"

const (
	MinRating     = 1
	MaxRating     = 5
	AnonymousName = "Anonymous"
)

type Review struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	CourseID    int64     `gorm:"not null;index" json:"course_id"`
	Rating      int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	StudentName string    `gorm:"not null" json:"student_name"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	Upvotes     int       `gorm:"not null;default:0;check:chk_reviews_upvotes,upvotes >= 0" json:"upvotes"`
	Downvotes   int       `gorm:"not null;default:0;check:chk_reviews_downvotes,downvotes >= 0" json:"downvotes"`
}

// VoteDelta is a signed change to a review's counters. Up and Down are each
// in [-1, 1].
type VoteDelta struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}

func (d VoteDelta) IsZero() bool {
	return d.Up == 0 && d.Down == 0
}
