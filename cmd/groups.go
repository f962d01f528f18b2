package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rkarimi/rolodex/config"
)

// newGroupsCommand creates the 'groups' subcommand.
func newGroupsCommand(deps *Deps) *cobra.Command {
	return &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "List contact groups with member counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groupList, err := deps.Store.ListGroups(cmd.Context(), deps.Cfg.UserID)
			if err != nil {
				return err
			}

			if deps.Cfg.Output == config.OutputFormatJSON {
				return printJSON(groupList)
			}

			if len(groupList) == 0 {
				fmt.Println("No groups.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tID\tCOLOR\tMEMBERS")
			for _, g := range groupList {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", g.Name, g.ID, g.Color, g.MemberCount)
			}
			return w.Flush()
		},
	}
}
