package fs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/djherbis/times"
	"github.com/natefinch/atomic"
	"lukechampine.com/blake3"
)

// Hash returns the blake3-256 digest of the file content.
func Hash(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}

// ListFiles returns the regular files directly under dir, sorted by name.
// Subdirectories are not descended into; symlinks count when they point
// to a regular file.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		switch {
		case e.Type().IsRegular():
			files = append(files, path)
		case e.Type()&os.ModeSymlink != 0:
			if IsRegular(path) {
				files = append(files, path)
			}
		}
	}
	sort.Strings(files)

	return files, nil
}

func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func IsRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CopyFile atomically writes src to dst, then restores the permission bits
// and access/modification times of src on dst.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	ts, err := times.Stat(src)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := atomic.WriteFile(dst, bufio.NewReader(f)); err != nil {
		return fmt.Errorf("cannot atomically copy %v to %v: %w", src, dst, err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}

	return os.Chtimes(dst, ts.AccessTime(), ts.ModTime())
}

// MoveFile renames src to dst. It fails across filesystem boundaries.
func MoveFile(src, dst string) error {
	return os.Rename(src, dst)
}
