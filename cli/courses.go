package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"edurate/services"
	"edurate/vote"
)

func newCoursesCmd() *cobra.Command {
	var f services.Filter

	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List courses",
		Long:  "List courses newest first with their average rating, optionally filtered by name or code and by department.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			courses, err := c.ListCourses(cmd.Context(), f)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), courses)
			}
			return printCourseTable(cmd.OutOrStdout(), courses)
		},
	}

	cmd.Flags().StringVar(&f.Search, "search", "", "match course name or code")
	cmd.Flags().StringVar(&f.Department, "department", "", "only this department ("+services.AllDepartments+" for every one)")

	return cmd
}

func newDepartmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List departments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(cmd)
			if err != nil {
				return err
			}
			departments, err := c.Departments(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), departments)
			}
			for _, d := range departments {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}

func newCourseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "course <id>",
		Short: "Show a course and its reviews",
		Args:  cobra.ExactArgs(1),
		RunE:  runCourse,
	}
}

func runCourse(cmd *cobra.Command, args []string) error {
	id, err := parseID("course", args[0])
	if err != nil {
		return err
	}

	c, err := newAPIClient(cmd)
	if err != nil {
		return err
	}
	course, reviews, err := c.CourseDetails(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, map[string]interface{}{"course": course, "reviews": reviews})
	}

	printCourseSummary(out, course)
	fmt.Fprintln(out)
	printReviews(out, reviews, openLedgerQuietly(""))
	return nil
}

// openLedgerQuietly opens the vote ledger for display. A ledger that can't be
// read just means no votes are shown.
func openLedgerQuietly(path string) *vote.Ledger {
	l, err := openLedger(path)
	if err != nil {
		return nil
	}
	return l
}

func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, s)
	}
	return id, nil
}
