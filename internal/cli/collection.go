package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/graph"
)

func newCollectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Manage typed collections",
		Long: `Collections are typed containers: a collection declares a member object
type and only accepts members of that type.

Create one with add:
  tangle add --type collection --title "Reading list" --props '{"objectType":{"type":"text","value":"bookmark"}}'`,
	}

	cmd.AddCommand(newCollectionAddCmd())
	cmd.AddCommand(newCollectionRemoveCmd())
	cmd.AddCommand(newCollectionMembersCmd())
	return cmd
}

func newCollectionAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <collection-id> <object-id>",
		Short: "Add an object to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *graph.Service) error {
				if _, err := svc.AddToCollection(args[1], args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to collection %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func newCollectionRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <collection-id> <object-id>",
		Short: "Remove an object from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *graph.Service) error {
				if err := svc.Tags().RemoveFromCollection(args[1], args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from collection %s\n", args[1], args[0])
				return nil
			})
		},
	}
}

func newCollectionMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members <collection-id>",
		Short: "List the members of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *graph.Service) error {
				members, err := svc.Tags().ObjectsInCollection(args[0])
				if err != nil {
					return err
				}
				return printObjects(cmd, members)
			})
		},
	}
}
