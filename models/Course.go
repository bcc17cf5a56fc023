package models

import "time"

// Course is read-only to the API. Column names match the hosted schema, which
// quotes the mixed-case ones.
type Course struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	Department string    `gorm:"column:Department;not null" json:"Department" yaml:"department" validate:"required"`
	Code       string    `gorm:"column:Course_ID;not null" json:"Course_ID" yaml:"code" validate:"required"`
	Name       string    `gorm:"column:Course_name;not null" json:"Course_name" yaml:"name" validate:"required"`
	Reviews    []Review  `gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-" yaml:"-"`

	// Derived on every read, never stored.
	Rating     float64 `gorm:"-" json:"rating" yaml:"-"`
	NumReviews int     `gorm:"-" json:"numReviews" yaml:"-"`
}
