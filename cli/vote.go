package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"edurate/vote"
)

func newVoteCmd() *cobra.Command {
	var ledgerPath string

	cmd := &cobra.Command{
		Use:   "vote <courseID> <reviewID> <up|down>",
		Short: "Vote a review up or down",
		Long:  "Vote on a review. Each review takes one vote from you; voting the other way switches it, voting the same way again does nothing.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVote(cmd, args, ledgerPath)
		},
	}
	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "file recording your votes (default: user config dir)")
	return cmd
}

func runVote(cmd *cobra.Command, args []string, ledgerPath string) error {
	courseID, err := parseID("course", args[0])
	if err != nil {
		return err
	}
	reviewID, err := parseID("review", args[1])
	if err != nil {
		return err
	}
	dir, err := vote.ParseDirection(args[2])
	if err != nil {
		return err
	}

	ledger, err := openLedger(ledgerPath)
	if err != nil {
		return err
	}
	c, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	res, err := vote.NewScorer(c, ledger).Cast(cmd.Context(), courseID, reviewID, dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, res)
	}
	if !res.Changed {
		fmt.Fprintf(out, "You already voted %s on review #%d.\n", res.Direction, reviewID)
		return nil
	}
	fmt.Fprintf(out, "Voted %s on review #%d (score %+d).\n", res.Direction, reviewID, vote.TallyOf(*res.Review).Score())
	return nil
}

// openLedger opens the ledger at path, or at the default location when path
// is empty.
func openLedger(path string) (*vote.Ledger, error) {
	if path == "" {
		var err error
		if path, err = vote.DefaultLedgerPath(); err != nil {
			return nil, err
		}
	}
	return vote.OpenLedger(path)
}
