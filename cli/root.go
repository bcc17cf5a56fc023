// Package cli defines the cobra command tree for edurate.
package cli

import (
	"github.com/spf13/cobra"

	"edurate/client"
	"edurate/config"
)

var (
	flagFormat string
	flagServer string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "edurate",
		Short:         "Browse and review university courses",
		Long:          "EduRate serves the course review API and talks to it: list courses, read and submit reviews, and vote on them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "API base URL (default: $EDURATE_SERVER or "+config.DefaultServer+")")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newCoursesCmd(),
		newDepartmentsCmd(),
		newCourseCmd(),
		newReviewCmd(),
		newVoteCmd(),
	)

	return root
}

// loadConfig resolves settings with cmd's flags taking precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cmd.Flags())
}

// newAPIClient creates an HTTP client for the server named by --server or
// the environment.
func newAPIClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return client.New(cfg.Server), nil
}

func isJSON() bool {
	return flagFormat == "json"
}
