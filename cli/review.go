package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

// minCommentLength mirrors the web form's check; the server itself accepts
// any non-empty comment.
const minCommentLength = 10

func newReviewCmd() *cobra.Command {
	var (
		rating  float64
		comment string
		name    string
	)

	cmd := &cobra.Command{
		Use:   "review <courseID>",
		Short: "Submit a review",
		Long:  "Submit a 1-5 rating with a comment. Without --name the review is posted as Anonymous.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("course", args[0])
			if err != nil {
				return err
			}
			comment = strings.TrimSpace(comment)
			if utf8.RuneCountInString(comment) < minCommentLength {
				return fmt.Errorf("comment must be at least %d characters", minCommentLength)
			}

			c, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			created, err := c.SubmitReview(cmd.Context(), id, rating, comment, strings.TrimSpace(name))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, created)
			}
			fmt.Fprintf(out, "Review #%d added to course #%d.\n  %s %s\n", created.ID, id, stars(created.Rating), created.Comment)
			return nil
		},
	}

	cmd.Flags().Float64Var(&rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "review text")
	cmd.Flags().StringVar(&name, "name", "", "display name (default: Anonymous)")
	_ = cmd.MarkFlagRequired("rating")
	_ = cmd.MarkFlagRequired("comment")

	return cmd
}
