package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/prodfile/pkg/codec"
)

func newJournalCmd() *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "List accepted add commands, oldest first",
		Long: `List the entries recorded in the add journal, oldest first.
The journal is enabled with journal.enabled in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			if rt.Journal == nil {
				return errors.New("journal is disabled (set journal.enabled in the config file)")
			}
			limit, _ := cmd.Flags().GetInt("limit")

			entries, err := rt.Journal.List(limit)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return printJSON(cmd.OutOrStdout(), entries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "AT\tSLOT\tID\tNAME\tCOST")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					e.At.Format(time.RFC3339), e.Slot, e.ID, e.Name, codec.FormatCost(e.Cost))
			}
			return w.Flush()
		},
	}

	journalCmd.Flags().IntP("limit", "n", 0, "Maximum number of entries (0 lists all)")
	return journalCmd
}
