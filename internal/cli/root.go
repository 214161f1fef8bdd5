// Package cli implements the tangle command-line interface.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/pkg/tangle"
	"github.com/alexradu95/tangle/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "tangle" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "tangle",
		Short:   "A personal knowledge graph of typed objects and relations",
		Long:    "Tangle stores typed objects, links them with typed relations,\nand keeps a daily timeline of everything you create.",
		Version: tangle.Version,
		// Subcommand errors are reported by Execute; re-printing usage
		// buries the message.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .tangle-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newInitCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newArchiveCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newLinkCmd())
	root.AddCommand(newTagCmd())
	root.AddCommand(newUntagCmd())
	root.AddCommand(newCollectionCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newTodayCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
// Validation, not-found, and conflict errors are user errors; everything
// else is a system error.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrConflict),
		errors.Is(err, types.ErrTypeMismatch),
		errors.Is(err, types.ErrInvalidDate),
		errors.Is(err, types.ErrInvalidArgument),
		errors.Is(err, types.ErrUnsupportedQueryType):
		return exitUserError
	default:
		return exitSysError
	}
}
