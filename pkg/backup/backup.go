// Package backup writes and restores zstd-compressed copies of a slot file.
package backup

import (
	"fmt"
	"io"
	"os"

	"github.com/kjk/common/atomicfile"
	"github.com/klauspost/compress/zstd"

	"github.com/ssargent/prodfile/pkg/schema"
	"github.com/ssargent/prodfile/pkg/store"
)

// Snapshotter copies a consistent image of a data file
type Snapshotter interface {
	Snapshot(w io.Writer) (int64, error)
}

// Result describes a finished backup or restore
type Result struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
	Slots int64  `json:"slots"`
}

// Create compresses the store's data file into dst. dst is replaced atomically.
func Create(src Snapshotter, dst string) (*Result, error) {
	f, err := atomicfile.New(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.RemoveIfNotClosed()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, err
	}

	n, err := src.Snapshot(zw)
	if err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("failed to copy data file: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish compression: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	return &Result{Path: dst, Bytes: n, Slots: n / schema.RecordLen}, nil
}

// Restore decompresses src into the data file at dstPath. The data file must
// not be open in a store while it is replaced. A backup whose length is not a
// whole number of records is rejected and dstPath is left untouched.
func Restore(src, dstPath string) (*Result, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer in.Close()

	zr, err := zstd.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	defer zr.Close()

	f, err := atomicfile.New(dstPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create data file: %w", err)
	}
	defer f.RemoveIfNotClosed()

	n, err := io.Copy(f, zr)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress backup: %w", err)
	}
	if n%schema.RecordLen != 0 {
		return nil, store.ErrCorruptStore
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write data file: %w", err)
	}

	return &Result{Path: dstPath, Bytes: n, Slots: n / schema.RecordLen}, nil
}
