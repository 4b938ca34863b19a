package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janhq/media-gateway/internal/domain/thumbnail"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete an object and its derived thumbnail",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().Bool("keep-thumbnail", false, "Leave the derived thumbnail in place")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}

	key := args[0]
	if err := rt.backend.DeleteObject(ctx, rt.dest.Bucket, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	deleted := []string{key}

	if keep, _ := cmd.Flags().GetBool("keep-thumbnail"); !keep {
		thumbKey := thumbnail.KeyFor(key)
		if err := rt.backend.DeleteObject(ctx, rt.dest.Bucket, thumbKey); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to delete thumbnail %s: %v\n", thumbKey, err)
		} else {
			deleted = append(deleted, thumbKey)
		}
	}

	return printJSON(cmd.OutOrStdout(), map[string]any{"deleted": deleted})
}
