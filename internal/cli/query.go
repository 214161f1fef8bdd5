package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/graph"
	"github.com/alexradu95/tangle/pkg/types"
)

var (
	queryType     string
	queryTags     []string
	queryProps    []string
	queryArchived bool
	queryAfter    string
	queryBefore   string
	querySort     string
	queryDir      string
	queryLimit    int
	querySaveAs   string
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [saved-query-id]",
		Short: "Run a saved or ad-hoc filter query",
		Long: `Query filters the object set by type, properties, tags, and creation
date, then sorts and limits the result. With a saved-query ID it runs
that query object; with flags it runs an ad-hoc specification.

Tags intersect: an object must carry every requested tag. Property
filters compare exact values; a missing key excludes the object.

Example:
  tangle query --type task --prop status=open --tag urgent
  tangle query --type note --after 2025-01-01 --sort title --direction asc
  tangle query --type task --tag urgent --save "Open urgent tasks"
  tangle query 0194f3a2-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().StringVar(&queryType, "type", "", "filter by object type")
	cmd.Flags().StringArrayVar(&queryTags, "tag", nil, "require a tag by name (repeatable, intersected)")
	cmd.Flags().StringArrayVar(&queryProps, "prop", nil, "require a property as key=value (repeatable)")
	cmd.Flags().BoolVar(&queryArchived, "archived", false, "query archived objects instead of live ones")
	cmd.Flags().StringVar(&queryAfter, "after", "", "earliest creation day, YYYY-MM-DD inclusive")
	cmd.Flags().StringVar(&queryBefore, "before", "", "latest creation day, YYYY-MM-DD inclusive")
	cmd.Flags().StringVar(&querySort, "sort", "", "sort field (created_at, updated_at, title)")
	cmd.Flags().StringVar(&queryDir, "direction", "", "sort direction (asc, desc)")
	cmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum number of results (0 = no limit)")
	cmd.Flags().StringVar(&querySaveAs, "save", "", "save the ad-hoc specification as a query object with this title")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	return withService(cmd, func(svc *graph.Service) error {
		if len(args) == 1 {
			saved, err := svc.Store().Objects().Get(args[0])
			if err != nil {
				return err
			}
			results, err := svc.Queries().Execute(saved)
			if err != nil {
				return err
			}
			return printObjects(cmd, results)
		}

		spec, err := specFromFlags()
		if err != nil {
			return err
		}

		if querySaveAs != "" {
			saved, err := saveQuery(svc, querySaveAs, spec)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved query %q: %s\n", querySaveAs, saved.ID)
		}

		results, err := svc.Queries().ExecuteSpec(spec)
		if err != nil {
			return err
		}
		return printObjects(cmd, results)
	})
}

func specFromFlags() (types.QuerySpec, error) {
	spec := types.QuerySpec{
		Filters: types.QueryFilters{
			ObjectType: queryType,
			Tags:       queryTags,
		},
		Limit: queryLimit,
	}

	for _, pair := range queryProps {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return spec, fmt.Errorf("%w: property filter %q is not key=value", types.ErrInvalidArgument, pair)
		}
		if spec.Filters.Properties == nil {
			spec.Filters.Properties = make(map[string]any)
		}
		spec.Filters.Properties[key] = value
	}

	if queryArchived {
		archived := true
		spec.Filters.Archived = &archived
	}
	if queryAfter != "" || queryBefore != "" {
		spec.Filters.DateRange = &types.DateRange{Start: queryAfter, End: queryBefore}
	}
	if querySort != "" || queryDir != "" {
		spec.Sort = &types.SortClause{Field: querySort, Direction: queryDir}
	}
	return spec, nil
}

// saveQuery persists the spec as a query object so it can be re-run by ID.
func saveQuery(svc *graph.Service, title string, spec types.QuerySpec) (*types.Object, error) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("encode query spec: %w", err)
	}

	return svc.CreateObject(&types.Object{
		Type:  types.TypeQuery,
		Title: title,
		Properties: map[string]types.PropertyValue{
			types.QueryPropType: types.TextValue(types.QueryTypeFilter),
			types.QueryPropSpec: types.LongTextValue(string(raw)),
		},
	})
}
