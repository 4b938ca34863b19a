package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/janhq/media-gateway/internal/domain/failure"
)

const octetStream = "application/octet-stream"

// source is a random-access view of an upload body.
type source struct {
	io.ReaderAt
	size    int64
	cleanup func()
}

// openSource returns body as an io.ReaderAt of known size. Bodies that are
// already random-access with a declared size are used in place; others are
// buffered in memory up to memLimit and spilled to a temp file beyond it.
// The caller must call cleanup on every exit path.
func openSource(body io.Reader, declared, maxBytes, memLimit int64, tempDir string) (*source, error) {
	if body == nil {
		return nil, failure.Validation("file is required")
	}
	if declared > maxBytes {
		return nil, tooLarge(maxBytes)
	}
	if ra, ok := body.(io.ReaderAt); ok && declared >= 0 {
		if !hasSize(ra, declared) {
			return nil, failure.Validation("body length does not match declared %d bytes", declared)
		}
		return &source{ReaderAt: ra, size: declared, cleanup: func() {}}, nil
	}

	limited := io.LimitReader(body, maxBytes+1)
	var buf bytes.Buffer
	n, err := io.CopyN(&buf, limited, memLimit+1)
	if errors.Is(err, io.EOF) {
		return checkDeclared(&source{ReaderAt: bytes.NewReader(buf.Bytes()), size: n, cleanup: func() {}}, declared, maxBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}

	f, err := os.CreateTemp(tempDir, "media-upload-*")
	if err != nil {
		return nil, fmt.Errorf("create spool file: %w", err)
	}
	cleanup := func() {
		f.Close()
		os.Remove(f.Name())
	}
	written, err := io.Copy(f, io.MultiReader(&buf, limited))
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("spool upload body: %w", err)
	}
	src, err := checkDeclared(&source{ReaderAt: f, size: written, cleanup: cleanup}, declared, maxBytes)
	if err != nil {
		cleanup()
		return nil, err
	}
	return src, nil
}

// hasSize reports whether ra ends exactly at size.
func hasSize(ra io.ReaderAt, size int64) bool {
	var b [1]byte
	if size > 0 {
		if n, _ := ra.ReadAt(b[:], size-1); n != 1 {
			return false
		}
	}
	n, _ := ra.ReadAt(b[:], size)
	return n == 0
}

func checkDeclared(src *source, declared, maxBytes int64) (*source, error) {
	if src.size > maxBytes {
		return nil, tooLarge(maxBytes)
	}
	if declared >= 0 && src.size != declared {
		return nil, failure.Validation("received %d bytes, body length does not match declared %d bytes", src.size, declared)
	}
	return src, nil
}

func tooLarge(maxBytes int64) *failure.Error {
	return failure.Validation("file exceeds max size of %d bytes", maxBytes).
		WithDetails(map[string]any{"max_bytes": maxBytes})
}

// resolveContentType normalizes the declared type and sniffs the payload when
// the declared type is missing or generic.
func resolveContentType(declared string, src io.ReaderAt, size int64) string {
	contentType := baseType(declared)
	if contentType != "" && contentType != octetStream {
		return contentType
	}
	detected, err := mimetype.DetectReader(io.NewSectionReader(src, 0, size))
	if err != nil {
		return contentType
	}
	return baseType(detected.String())
}

func baseType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		return parsed
	}
	return strings.ToLower(contentType)
}

// NewObjectKey returns {folder}/{uuid}{ext}. Only the lower-cased extension of
// filename survives; the content type supplies one when filename has none.
func NewObjectKey(folder, filename, contentType string) string {
	return path.Join(folder, uuid.NewString()+extensionFor(filename, contentType))
}

func extensionFor(filename, contentType string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, "\\", "/")))
	if validExtension(ext) {
		return ext
	}
	if m := mimetype.Lookup(contentType); m != nil && validExtension(m.Extension()) {
		return m.Extension()
	}
	return ""
}

func validExtension(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
