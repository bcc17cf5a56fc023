// Package rating computes per-course rating summaries. Both the course list and
// the course detail endpoints go through Summarize so they always agree.
package rating

import (
	"fmt"

	"edurate/models"
)

type Summary struct {
	Average float64 `json:"averageRating"`
	Count   int     `json:"reviewCount"`
}

// Summarize returns the arithmetic mean of ratings and their count. The average
// of an empty set is 0. No rounding is applied.
func Summarize(ratings []int) Summary {
	if len(ratings) == 0 {
		return Summary{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return Summary{
		Average: float64(sum) / float64(len(ratings)),
		Count:   len(ratings),
	}
}

func SummarizeReviews(reviews []models.Review) Summary {
	ratings := make([]int, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}
	return Summarize(ratings)
}

// Apply writes the summary onto the course's derived fields.
func (s Summary) Apply(c *models.Course) {
	c.Rating = s.Average
	c.NumReviews = s.Count
}

type Band string

const (
	BandGreat Band = "great"
	BandGood  Band = "good"
	BandPoor  Band = "poor"
	BandNone  Band = "none"
)

// BandOf buckets an average for display.
func BandOf(avg float64) Band {
	switch {
	case avg >= 4.0:
		return BandGreat
	case avg >= 3.0:
		return BandGood
	case avg > 0:
		return BandPoor
	default:
		return BandNone
	}
}

// Format renders an average with one decimal, or "N/A" for unrated courses.
func Format(avg float64) string {
	if avg == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", avg)
}
