package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/graph"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <object-id>",
		Short: "Permanently delete an object",
		Long:  "Delete removes an object and every relation touching it.\nThis is permanent; use archive for a reversible removal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *graph.Service) error {
				if err := svc.DeleteObject(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
