package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"edurate/models"
	"edurate/rating"
	"edurate/vote"
)

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCourseTable(out io.Writer, courses []models.Course) error {
	if len(courses) == 0 {
		fmt.Fprintln(out, "No courses found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tCODE\tNAME\tDEPARTMENT\tRATING\tREVIEWS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t----\t----\t----------\t------\t-------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, c := range courses {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
			c.ID, c.Code, truncate(c.Name, 40), c.Department, formatRating(c.Rating), c.NumReviews); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d courses\n", len(courses))
	return nil
}

func printCourseSummary(out io.Writer, c *models.Course) {
	fmt.Fprintf(out, "%s  %s\n", c.Code, c.Name)
	fmt.Fprintf(out, "  Department: %s\n", c.Department)
	fmt.Fprintf(out, "  Rating:     %s (%d reviews)\n", formatRating(c.Rating), c.NumReviews)
}

// printReviews lists reviews with their net score and this voter's vote.
func printReviews(out io.Writer, reviews []models.Review, ledger *vote.Ledger) {
	if len(reviews) == 0 {
		fmt.Fprintln(out, "No reviews yet.")
		return
	}

	for _, r := range reviews {
		mine := ""
		if ledger != nil {
			if d := ledger.Get(r.ID); d != vote.None {
				mine = fmt.Sprintf(", you voted %s", d)
			}
		}
		fmt.Fprintf(out, "[%s] #%d %s by %s (score %+d%s)\n  %s\n\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.ID, stars(r.Rating), r.StudentName,
			vote.TallyOf(r).Score(), mine, r.Comment)
	}
}

// formatRating renders an average with its band, e.g. "4.5 (great)".
func formatRating(avg float64) string {
	band := rating.BandOf(avg)
	if band == rating.BandNone {
		return rating.Format(avg)
	}
	return fmt.Sprintf("%s (%s)", rating.Format(avg), band)
}

func stars(n int) string {
	n = min(max(n, 0), models.MaxRating)
	return strings.Repeat("★", n) + strings.Repeat("☆", models.MaxRating-n)
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
