package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/janhq/media-gateway/internal/domain/media"
	"github.com/janhq/media-gateway/internal/domain/signing"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file through the upload engine",
	Long: `Upload a local file with the same validation, routing (single-shot or
multipart) and thumbnail generation as the gateway, then print a signed URL.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

type uploadOutput struct {
	Key         string         `json:"key"`
	Path        string         `json:"path"`
	Parts       int            `json:"parts"`
	Size        int64          `json:"size"`
	ContentType string         `json:"content_type"`
	URL         string         `json:"url,omitempty"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	Thumbnail   *signing.Grant `json:"thumbnail,omitempty"`
	Elapsed     string         `json:"elapsed"`
}

func init() {
	uploadCmd.Flags().String("folder", "", "Destination folder (defaults to MEDIA_DEFAULT_FOLDER)")
	uploadCmd.Flags().String("content-type", "", "Content type (sniffed when empty)")
	uploadCmd.Flags().Duration("ttl", 0, "Lifetime of the printed signed URL (defaults to MEDIA_SIGNED_URL_TTL)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}

	folder, _ := cmd.Flags().GetString("folder")
	contentType, _ := cmd.Flags().GetString("content-type")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	start := time.Now()
	stored, err := rt.ingestor.Ingest(ctx, media.UploadRequest{
		Body:        file,
		Size:        info.Size(),
		ContentType: contentType,
		Filename:    filepath.Base(args[0]),
		Folder:      folder,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", args[0], err)
	}

	out := uploadOutput{
		Key:         stored.Key,
		Path:        string(stored.Upload.Path),
		Parts:       len(stored.Upload.Parts),
		Size:        stored.Size,
		ContentType: stored.ContentType,
		Elapsed:     time.Since(start).Round(time.Millisecond).String(),
	}
	grant, err := rt.issuer.Issue(ctx, signing.Request{Key: stored.Key, ContentType: stored.ContentType, Filename: stored.Filename, TTL: ttl})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to sign url: %v\n", err)
	} else {
		out.URL = grant.URL
		out.ExpiresAt = &grant.ExpiresAt
	}
	if stored.Thumbnail != nil {
		if thumb, err := rt.issuer.Issue(ctx, signing.Request{Key: stored.Thumbnail.Key, ContentType: "image/jpeg", TTL: ttl}); err == nil {
			out.Thumbnail = thumb
		}
	}

	return printJSON(cmd.OutOrStdout(), out)
}
