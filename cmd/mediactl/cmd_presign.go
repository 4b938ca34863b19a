package main

import (
	"github.com/spf13/cobra"

	"github.com/janhq/media-gateway/internal/domain/signing"
)

var presignCmd = &cobra.Command{
	Use:   "presign <key>",
	Short: "Print a signed download URL for an object key",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresign,
}

func init() {
	presignCmd.Flags().Duration("ttl", 0, "URL lifetime (defaults to MEDIA_SIGNED_URL_TTL)")
	presignCmd.Flags().String("content-type", "", "Content-Type the download is served with")
	presignCmd.Flags().String("filename", "", "Filename for the inline Content-Disposition")
}

func runPresign(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}

	ttl, _ := cmd.Flags().GetDuration("ttl")
	contentType, _ := cmd.Flags().GetString("content-type")
	filename, _ := cmd.Flags().GetString("filename")

	grant, err := rt.issuer.Issue(ctx, signing.Request{
		Key:         args[0],
		ContentType: contentType,
		Filename:    filename,
		TTL:         ttl,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), grant)
}
