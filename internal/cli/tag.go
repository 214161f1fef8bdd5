package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexradu95/tangle/internal/graph"
	"github.com/alexradu95/tangle/pkg/types"
)

var tagCreate bool

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <object-id> <tag-name>",
		Short: "Tag an object",
		Long: `Tag attaches a tag object to any other object. The tag is resolved by
title; pass --create to create it when it does not exist yet.

Example:
  tangle tag <note-id> reading
  tangle tag <note-id> new-topic --create`,
		Args: cobra.ExactArgs(2),
		RunE: runTag,
	}

	cmd.Flags().BoolVar(&tagCreate, "create", false, "create the tag object if the name resolves to nothing")
	return cmd
}

func runTag(cmd *cobra.Command, args []string) error {
	objectID, tagName := args[0], args[1]

	return withService(cmd, func(svc *graph.Service) error {
		tag, err := svc.Tags().FindTagByName(tagName)
		if errors.Is(err, types.ErrNotFound) && tagCreate {
			tag, err = svc.CreateObject(&types.Object{Type: types.TypeTag, Title: tagName})
		}
		if err != nil {
			return err
		}

		if _, err := svc.TagObject(objectID, tag.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s with %q\n", objectID, tagName)
		return nil
	})
}

func newUntagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "untag <object-id> <tag-name>",
		Short: "Remove a tag from an object",
		Long:  "Untag removes the tag edge if present. Untagging an object that does\nnot carry the tag is a no-op.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(svc *graph.Service) error {
				tag, err := svc.Tags().FindTagByName(args[1])
				if err != nil {
					return err
				}
				if err := svc.Tags().UntagObject(args[0], tag.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Untagged %s from %q\n", args[0], args[1])
				return nil
			})
		},
	}
}
