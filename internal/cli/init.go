package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/paths"
	"github.com/alexradu95/tangle/internal/sqlite"
	"github.com/alexradu95/tangle/pkg/types"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tangle storage",
		Long:  "Create configuration and data directories, then initialize the storage backend.\nRunning init on an existing store is a no-op; stored data is never touched.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	// Attach then detach creates the data directory and schema.
	store := sqlite.NewBackend()
	if err := store.Attach(types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}); err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	if err := store.Detach(); err != nil {
		return fmt.Errorf("finalize storage: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Tangle initialized\n  config: %s\n  data:   %s\n", configDir, dataDir)
	return nil
}
