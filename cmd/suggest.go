package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rkarimi/rolodex/config"
	"github.com/rkarimi/rolodex/pkg/groups"
)

// newSuggestCommand creates the 'suggest' command tree.
//
// Suggestion state is session-scoped and rebuilt per invocation. Generation
// is deterministic over unchanged data, so the (contact-id, priority) pairs
// shown by 'rolodex suggest' stay valid for a following apply or discard as
// long as the contact set has not changed in between.
func newSuggestCommand(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Recommend groups for ungrouped contacts",
		Long: `Generate group suggestions for every contact that is not in a group.

Recommendations come from three signals, in order: company patterns among
already-grouped contacts, position patterns, and fuzzy matches between the
contact's company/position and group names. Contacts with no signal at all
fall back to a general-purpose group when one exists.

Examples:
  # Show suggestions
  rolodex suggest

  # Apply one suggestion from the listing
  rolodex suggest apply <contact-id> <priority>

  # Drop one suggestion from this run's working set
  rolodex suggest discard <contact-id> <priority>

  # Apply every suggestion in one batch
  rolodex suggest apply-all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := newManager(deps)
			set, err := manager.Generate(cmd.Context())
			if err != nil {
				return err
			}

			if deps.Cfg.Output == config.OutputFormatJSON {
				return printJSON(set)
			}
			printSuggestionSet(set)
			return nil
		},
	}

	cmd.AddCommand(newSuggestApplyCommand(deps))
	cmd.AddCommand(newSuggestDiscardCommand(deps))
	cmd.AddCommand(newSuggestApplyAllCommand(deps))
	return cmd
}

func newManager(deps *Deps) *groups.Manager {
	return groups.NewManager(deps.Store, deps.Invalidator, deps.Notifier, deps.Logger, deps.Cfg.UserID)
}

// newSuggestApplyCommand creates 'suggest apply'.
func newSuggestApplyCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <contact-id> <priority>",
		Short: "Apply one suggestion as a group membership",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("priority must be a number: %w", err)
			}

			manager := newManager(deps)
			if _, err := manager.Generate(cmd.Context()); err != nil {
				return err
			}
			if err := manager.ApplyOne(cmd.Context(), args[0], priority); err != nil {
				return err
			}

			fmt.Println("Suggestion applied.")
			return nil
		},
	}
}

// newSuggestDiscardCommand creates 'suggest discard'.
func newSuggestDiscardCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <contact-id> <priority>",
		Short: "Drop one suggestion from the working set",
		Long: `Drop one suggestion from this run's working set.

Discards are not persisted: the same recommendation can reappear the next
time suggestions are generated.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priority, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("priority must be a number: %w", err)
			}

			manager := newManager(deps)
			if _, err := manager.Generate(cmd.Context()); err != nil {
				return err
			}
			if err := manager.DiscardOne(args[0], priority); err != nil {
				return err
			}

			fmt.Printf("Suggestion discarded. %d bundle(s) remain in this session.\n", len(manager.Bundles()))
			return nil
		},
	}
}

// newSuggestApplyAllCommand creates 'suggest apply-all'.
func newSuggestApplyAllCommand(deps *Deps) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "apply-all",
		Short: "Apply every current suggestion in one batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := newManager(deps)
			set, err := manager.Generate(cmd.Context())
			if err != nil {
				return err
			}
			if set.Stats.TotalSuggestions == 0 {
				fmt.Println("Nothing to apply.")
				return nil
			}

			if !skipConfirm {
				ok, err := confirm(fmt.Sprintf(
					"Apply all %d suggestion(s) across %d contact(s)? [y/N]: ",
					set.Stats.TotalSuggestions, len(set.Bundles)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			applied, err := manager.ApplyAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d suggestion(s).\n", applied)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func printSuggestionSet(set *groups.SuggestionSet) {
	if len(set.Bundles) == 0 {
		fmt.Println("No suggestions: every contact is grouped or no signal matched.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CONTACT\tCONTACT ID\tPRIORITY\tGROUP\tCONFIDENCE\tREASONING")
	for _, b := range set.Bundles {
		for _, s := range b.Suggestions {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\n",
				b.ContactName, b.ContactID, s.Priority, s.GroupName, s.Confidence, s.Reasoning)
		}
	}
	w.Flush()

	fmt.Printf("\n%d suggestion(s) for %d of %d ungrouped contact(s), %d group(s) involved\n",
		set.Stats.TotalSuggestions, len(set.Bundles), set.Stats.TotalContacts, set.Stats.UniqueGroups)
	fmt.Printf("Success rate %.0f%%, average confidence %.1f\n",
		set.Stats.SuccessRate, set.Stats.AverageConfidence)
}
