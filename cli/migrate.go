package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"edurate/db"
	"edurate/server"
	"edurate/utils"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gdb, err := server.Migrate(cmd.Context(), cfg, utils.NewLogger(utils.LogOptions{Level: cfg.LogLevel}))
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the course catalog into an empty database",
		Long:  "Migrate the schema and insert the course catalog. Nothing is inserted when courses already exist.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, file)
		},
	}
	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().StringVar(&file, "file", "", "YAML catalog to load (default: built-in catalog)")
	return cmd
}

func runSeed(cmd *cobra.Command, file string) error {
	// Parse the catalog before touching the database.
	courses, err := db.LoadSeed(file)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	gdb, err := server.Migrate(cmd.Context(), cfg, utils.NewLogger(utils.LogOptions{Level: cfg.LogLevel}))
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	n, err := db.Seed(cmd.Context(), gdb, courses)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, map[string]int{"inserted": n})
	}
	if n == 0 {
		fmt.Fprintln(out, "Courses already present, nothing seeded.")
		return nil
	}
	fmt.Fprintf(out, "Seeded %d courses.\n", n)
	return nil
}
