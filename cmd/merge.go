package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rkarimi/rolodex/pkg/dedup"
)

// newMergeCommand creates the 'merge' subcommand.
func newMergeCommand(deps *Deps) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "merge <main-id> <duplicate-id>",
		Short: "Merge a confirmed duplicate pair into one contact",
		Long: `Merge the duplicate contact into the main contact.

The main contact survives. Its empty scalar fields (company, position,
notes, address, birthday, ...) are backfilled from the duplicate, its own
phone numbers, emails, social links, group memberships and custom fields are
kept as-is, and the duplicate record is deleted.

The merge runs as a sequence of store calls without a wrapping transaction.
If a step fails partway, earlier steps remain committed; re-running the
merge after fixing the cause is safe when the duplicate still exists.

Examples:
  # Merge after reviewing 'rolodex scan' output
  rolodex merge 1f0e... 9c2a...

  # Skip the confirmation prompt
  rolodex merge 1f0e... 9c2a... --yes`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mainID, dupID := args[0], args[1]

			if !skipConfirm {
				ok, err := confirm(fmt.Sprintf(
					"Merge contact %s into %s and delete it? [y/N]: ", dupID, mainID))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Merge cancelled.")
					return nil
				}
			}

			merger := dedup.NewMerger(deps.Store, deps.Invalidator, deps.Notifier, deps.Logger)
			if err := merger.Merge(cmd.Context(), deps.Cfg.UserID, mainID, dupID); err != nil {
				return err
			}

			fmt.Printf("Merged %s into %s.\n", dupID, mainID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm prompts on stdin and reports whether the user answered yes.
func confirm(prompt string) (bool, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
