package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/graph"
)

var archiveUndo bool

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <object-id>",
		Short: "Archive an object (or restore it with --undo)",
		Long: `Archive soft-deletes an object: it drops out of default listings and
query results but keeps its identity, properties, and relations.

Example:
  tangle archive 0194f3a2-...
  tangle archive 0194f3a2-... --undo`,
		Args: cobra.ExactArgs(1),
		RunE: runArchive,
	}

	cmd.Flags().BoolVar(&archiveUndo, "undo", false, "restore a previously archived object")
	return cmd
}

func runArchive(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(svc *graph.Service) error {
		if archiveUndo {
			if err := svc.UnarchiveObject(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", args[0])
			return nil
		}
		if err := svc.ArchiveObject(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", args[0])
		return nil
	})
}
