package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyPreserve copies src to dst byte-for-byte, then applies the source's
// permission bits and modification time to dst. dst must not exist; an
// existing destination yields an error satisfying errors.Is(err, os.ErrExist)
// and is left untouched. A partially written dst is removed on failure.
func CopyPreserve(src, dst string) (err error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	if written != srcInfo.Size() {
		err = fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
		return err
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		err = errors.New("copy hash mismatch: file corrupted during copy")
		return err
	}

	if err = os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	mtime := srcInfo.ModTime()
	if err = os.Chtimes(dst, mtime, mtime); err != nil {
		return fmt.Errorf("preserve mtime: %w", err)
	}
	return nil
}

// Exists reports whether path names an existing filesystem entry.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// IsRegularEntry reports whether entry, read from dir, is a regular file or
// a symlink resolving to one. Broken links and links to directories are not.
func IsRegularEntry(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}
