// Package review validates and normalizes review submissions before they reach
// the store.
package review

import (
	"encoding/json"
	"math"
	"strings"

	"edurate/errs"
	"edurate/models"
)

const (
	MsgRequired      = "Rating and comment are required"
	MsgRatingRange   = "Rating must be between 1 and 5"
	MsgInappropriate = "Review contains inappropriate language. Please keep feedback professional."
)

// Candidate is an unvalidated submission. Rating and Comment hold whatever the
// client sent: nil when absent or null, float64 for JSON numbers.
type Candidate struct {
	Rating  any
	Comment any
	Author  *string
}

// Draft is a validated review ready for insert.
type Draft struct {
	CourseID    int64
	Rating      int
	Comment     string
	StudentName string
}

func (d Draft) Review() *models.Review {
	return &models.Review{
		CourseID:    d.CourseID,
		Rating:      d.Rating,
		Comment:     d.Comment,
		StudentName: d.StudentName,
	}
}

type Validator struct {
	lexicon *Lexicon
}

// NewValidator builds a validator around lex. A nil lexicon uses the built-in list.
func NewValidator(lex *Lexicon) *Validator {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Validator{lexicon: lex}
}

// Validate checks c in a fixed order and stops at the first failure: rating
// presence, rating range, comment presence, then content. The rating is range
// checked before it is truncated, so 4.9 becomes 4 and 5.1 is rejected.
func (v *Validator) Validate(courseID int64, c Candidate) (Draft, error) {
	if c.Rating == nil {
		return Draft{}, errs.New(errs.MissingField, MsgRequired)
	}
	r, ok := number(c.Rating)
	if !ok || math.IsNaN(r) || r < models.MinRating || r > models.MaxRating {
		return Draft{}, errs.New(errs.InvalidRating, MsgRatingRange)
	}

	comment, ok := c.Comment.(string)
	comment = strings.TrimSpace(comment)
	if !ok || comment == "" {
		return Draft{}, errs.New(errs.MissingField, MsgRequired)
	}

	author := ""
	if c.Author != nil {
		author = strings.TrimSpace(*c.Author)
	}
	if v.lexicon.Contains(comment) || (author != "" && v.lexicon.Contains(author)) {
		return Draft{}, errs.New(errs.InappropriateContent, MsgInappropriate)
	}
	if author == "" {
		author = models.AnonymousName
	}

	return Draft{
		CourseID:    courseID,
		Rating:      int(math.Trunc(r)),
		Comment:     comment,
		StudentName: author,
	}, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
