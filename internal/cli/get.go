package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/graph"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <object-id>",
		Short: "Show a single object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *graph.Service) error {
				obj, err := svc.Store().Objects().Get(args[0])
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), obj)
				}
				printObject(cmd.OutOrStdout(), obj)
				return nil
			})
		},
	}
}
