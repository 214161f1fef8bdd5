package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/pkg/tangle"
)

const modulePath = "github.com/alexradu95/tangle"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tangle version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tangle v%s\nmodule: %s\n", tangle.Version, modulePath)
			return nil
		},
	}
}
