package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MEDIA_STORAGE_BACKEND", "memory")
	t.Setenv("MEDIA_URL_SIGNING_SECRET", "cli-secret")
	t.Setenv("MEDIA_LOCAL_STORAGE_BASE_URL", "http://cli.test/v1/files")
	t.Setenv("DB_POSTGRESQL_WRITE_DSN", "")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--env-file", ""))
	err := rootCmd.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "Sample.PNG")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestUploadCommand(t *testing.T) {
	memoryEnv(t)
	path := writePNG(t, 400, 300)

	out, err := execute(t, "upload", path, "--folder", "feed")
	require.NoError(t, err)

	var result uploadOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, strings.HasPrefix(result.Key, "feed/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "single", result.Path)
	assert.Equal(t, 0, result.Parts)
	assert.Equal(t, "image/png", result.ContentType)
	assert.True(t, strings.HasPrefix(result.URL, "http://cli.test/v1/files/feed/"))
	require.NotNil(t, result.Thumbnail)
	assert.Contains(t, result.Thumbnail.Key, "feed/thumbnails/")
}

func TestUploadCommandRejectsUnknownFolder(t *testing.T) {
	memoryEnv(t)
	path := writePNG(t, 10, 10)

	_, err := execute(t, "upload", path, "--folder", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATION_FAILURE")
}

func TestPresignCommand(t *testing.T) {
	memoryEnv(t)

	out, err := execute(t, "presign", "feed/a.mp4", "--ttl", "15m", "--content-type", "video/mp4")
	require.NoError(t, err)

	var grant struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &grant))
	assert.Equal(t, "feed/a.mp4", grant.Key)
	assert.True(t, strings.HasPrefix(grant.URL, "http://cli.test/v1/files/feed/a.mp4?token="))
}
