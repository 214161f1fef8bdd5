package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/graph"
	"github.com/alexradu95/tangle/pkg/types"
)

var (
	listType     string
	listArchived bool
	listAfter    string
	listBefore   string
	listSort     string
	listDir      string
	listLimit    int
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objects of a type",
		Long: `List fetches objects of the given type, newest first by default.
Archived objects are hidden unless --archived is set.

Example:
  tangle list --type note
  tangle list --type task --sort title --direction asc
  tangle list --type project --after 2025-01-01 --before 2025-01-31
  tangle list --type note --archived --limit 10`,
		RunE: runList,
	}

	cmd.Flags().StringVar(&listType, "type", "", "object type (required)")
	cmd.Flags().BoolVar(&listArchived, "archived", false, "list archived objects instead of live ones")
	cmd.Flags().StringVar(&listAfter, "after", "", "earliest creation day, YYYY-MM-DD inclusive")
	cmd.Flags().StringVar(&listBefore, "before", "", "latest creation day, YYYY-MM-DD inclusive")
	cmd.Flags().StringVar(&listSort, "sort", "", "sort field (created_at, updated_at, title)")
	cmd.Flags().StringVar(&listDir, "direction", "", "sort direction (asc, desc)")
	cmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of results (0 = no limit)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	opts := types.ListOptions{
		Sort:  types.SortClause{Field: listSort, Direction: listDir},
		Limit: listLimit,
	}
	if listArchived {
		archived := true
		opts.Archived = &archived
	}
	if listAfter != "" || listBefore != "" {
		opts.CreatedRange = &types.DateRange{Start: listAfter, End: listBefore}
	}

	return withService(cmd, func(svc *graph.Service) error {
		objects, err := svc.Store().Objects().ListByType(listType, opts)
		if err != nil {
			return err
		}
		return printObjects(cmd, objects)
	})
}
