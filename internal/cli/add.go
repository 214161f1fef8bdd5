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
	addType      string
	addTitle     string
	addContent   string
	addProps     []string
	addPropsJSON string
	addFavorite  bool
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new object",
		Long: `Add creates a new object of the given type and links it to today's
daily note on the timeline.

Simple text properties are set with --prop key=value. Typed properties
are passed as a JSON map with --props, for example:
  tangle add --type task --title "Ship it" --props '{"priority":{"type":"number","value":1}}'

Example:
  tangle add --type note --title "Meeting notes"
  tangle add --type project --title "Garden" --prop status=active
  tangle add --type tag --title "reading"`,
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addType, "type", "", "object type (required)")
	cmd.Flags().StringVar(&addTitle, "title", "", "object title (required)")
	cmd.Flags().StringVar(&addContent, "content", "", "free-form body text")
	cmd.Flags().StringArrayVar(&addProps, "prop", nil, "text property as key=value (repeatable)")
	cmd.Flags().StringVar(&addPropsJSON, "props", "", "properties as a JSON map of typed values")
	cmd.Flags().BoolVar(&addFavorite, "favorite", false, "mark the object as a favorite")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	props, err := parseProperties(addProps, addPropsJSON)
	if err != nil {
		return err
	}

	return withService(cmd, func(svc *graph.Service) error {
		obj, err := svc.CreateObject(&types.Object{
			Type:       addType,
			Title:      addTitle,
			Content:    addContent,
			Properties: props,
			Metadata:   types.ObjectMetadata{Favorited: addFavorite},
		})
		if err != nil {
			return err
		}

		if flags.jsonMode {
			return printJSON(cmd.OutOrStdout(), obj)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s: %s\n", obj.Type, obj.ID)
		return nil
	})
}

// parseProperties merges --prop key=value pairs (text values) with the
// optional --props JSON map. JSON-specified keys win.
func parseProperties(pairs []string, rawJSON string) (map[string]types.PropertyValue, error) {
	if len(pairs) == 0 && rawJSON == "" {
		return nil, nil
	}

	props := make(map[string]types.PropertyValue)
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: property %q is not key=value", types.ErrInvalidArgument, pair)
		}
		props[key] = types.TextValue(value)
	}

	if rawJSON != "" {
		var typed map[string]types.PropertyValue
		if err := json.Unmarshal([]byte(rawJSON), &typed); err != nil {
			return nil, fmt.Errorf("%w: --props is not a valid JSON property map: %v", types.ErrInvalidArgument, err)
		}
		for key, pv := range typed {
			props[key] = pv
		}
	}

	return props, nil
}
