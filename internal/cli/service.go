// Shared command plumbing: directory resolution, store attachment, and
// output rendering.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexradu95/tangle/internal/graph"
	"github.com/alexradu95/tangle/internal/paths"
	"github.com/alexradu95/tangle/internal/sqlite"
	"github.com/alexradu95/tangle/pkg/types"
)

// withService resolves directories, loads config, attaches the store, and
// runs fn over the graph service. The store is detached when fn returns.
func withService(cmd *cobra.Command, fn func(svc *graph.Service) error) error {
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

	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}

	store := sqlite.NewBackend()
	if err := store.Attach(cfg); err != nil {
		return fmt.Errorf("attach storage: %w", err)
	}
	defer store.Detach()

	log := zap.NewNop()
	if flags.verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			log = dev
			defer func() { _ = log.Sync() }()
		}
	}

	return fn(graph.NewService(store, graph.WithLogger(log)))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printObject renders a single object in human-readable form.
func printObject(w io.Writer, obj *types.Object) {
	fmt.Fprintf(w, "ID:       %s\n", obj.ID)
	fmt.Fprintf(w, "Type:     %s\n", obj.Type)
	fmt.Fprintf(w, "Title:    %s\n", obj.Title)
	fmt.Fprintf(w, "Created:  %s\n", obj.Metadata.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Updated:  %s\n", obj.Metadata.UpdatedAt.Format(time.RFC3339))
	if obj.Archived {
		fmt.Fprintln(w, "Archived: yes")
	}
	if obj.Metadata.Favorited {
		fmt.Fprintln(w, "Favorite: yes")
	}
	if len(obj.Metadata.Tags) > 0 {
		fmt.Fprintf(w, "Tags:     %v\n", obj.Metadata.Tags)
	}
	for key, pv := range obj.Properties {
		fmt.Fprintf(w, "  %s (%s): %v\n", key, pv.Kind, pv.Value)
	}
}

// printObjectTable renders a list of objects as an aligned table.
func printObjectTable(w io.Writer, objects []*types.Object) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tTITLE\tCREATED")
	for _, obj := range objects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", obj.ID, obj.Type, obj.Title, obj.Metadata.CreatedAt.Format(time.RFC3339))
	}
	tw.Flush()
}

// printObjects renders a result list honoring the global --json flag.
func printObjects(cmd *cobra.Command, objects []*types.Object) error {
	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return printJSON(out, objects)
	}
	if len(objects) == 0 {
		fmt.Fprintln(out, "No objects found")
		return nil
	}
	printObjectTable(out, objects)
	return nil
}
