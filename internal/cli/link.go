package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/graph"
	"github.com/alexradu95/tangle/pkg/types"
)

var (
	linkType string
	linkMeta []string
)

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <from-id> <to-id>",
		Short: "Create a typed relation between two objects",
		Long: `Link creates a directed, typed relation from one object to another.
At most one relation of a given type exists per ordered pair; a second
attempt fails with a conflict.

Example:
  tangle link <task-id> <project-id> --type child_of
  tangle link <note-id> <note-id2> --type references --meta context=review`,
		Args: cobra.ExactArgs(2),
		RunE: runLink,
	}

	cmd.Flags().StringVar(&linkType, "type", "", "relation type (required)")
	cmd.Flags().StringArrayVar(&linkMeta, "meta", nil, "relation metadata as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runLink(cmd *cobra.Command, args []string) error {
	meta, err := parseMetadata(linkMeta)
	if err != nil {
		return err
	}

	return withService(cmd, func(svc *graph.Service) error {
		rel, err := svc.Link(args[0], args[1], linkType, meta)
		if err != nil {
			return err
		}
		if flags.jsonMode {
			return printJSON(cmd.OutOrStdout(), rel)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s -[%s]-> %s (%s)\n", rel.FromID, rel.Type, rel.ToID, rel.ID)
		return nil
	})
}

func parseMetadata(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: metadata %q is not key=value", types.ErrInvalidArgument, pair)
		}
		meta[key] = value
	}
	return meta, nil
}
