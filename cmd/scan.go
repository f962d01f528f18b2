package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rkarimi/rolodex/config"
	"github.com/rkarimi/rolodex/pkg/dedup"
)

// newScanCommand creates the 'scan' subcommand.
func newScanCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the contact set for likely duplicate pairs",
		Long: `Scan all contacts for likely duplicates.

Pairs are classified as high confidence (identical name plus a shared email
or phone) or medium confidence (shared email or phone only). Each contact
appears in at most one pair per scan.

Examples:
  # Scan and show candidate pairs
  rolodex scan

  # Machine-readable output
  rolodex scan -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner := dedup.NewScanner(deps.Store, deps.Logger)
			result, err := scanner.Scan(cmd.Context(), deps.Cfg.UserID)
			if err != nil {
				return err
			}

			if deps.Cfg.Output == config.OutputFormatJSON {
				return printJSON(result)
			}
			printScanResult(result)
			return nil
		},
	}
}

func printScanResult(result *dedup.ScanResult) {
	if result.Stats.Total == 0 {
		fmt.Println("No duplicate candidates found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MAIN\tMAIN ID\tDUPLICATE\tDUPLICATE ID\tREASON")
	for _, p := range result.Pairs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Main.FullName(), p.Main.ID,
			p.Duplicate.FullName(), p.Duplicate.ID,
			describeReason(p.Reason))
	}
	w.Flush()

	fmt.Printf("\n%d pair(s): %d high confidence, %d medium confidence\n",
		result.Stats.Total, result.Stats.HighConfidence, result.Stats.MediumConfidence)
	fmt.Println("Run 'rolodex merge <main-id> <duplicate-id>' to merge a confirmed pair.")
}

func describeReason(reason dedup.MatchReason) string {
	switch reason {
	case dedup.MatchNameAndContact:
		return "name + contact info (high)"
	case dedup.MatchEmail:
		return "shared email (medium)"
	case dedup.MatchPhone:
		return "shared phone (medium)"
	default:
		return string(reason)
	}
}
