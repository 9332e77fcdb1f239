package fs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fedragon/go-album/internal/testsupport"
)

func TestHash(t *testing.T) {
	workdir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(workdir, "doge.jpg"), []byte("such wow"), time.Time{})
	testsupport.WriteFile(t, filepath.Join(workdir, "same-doge.jpg"), []byte("such wow"), time.Time{})
	testsupport.WriteFile(t, filepath.Join(workdir, "grumpy-cat.jpg"), []byte("no"), time.Time{})

	cases := []struct {
		name     string
		pathA    string
		pathB    string
		expected bool
	}{
		{
			name:     "hashing the same file twice returns the same value",
			pathA:    workdir + "/doge.jpg",
			pathB:    workdir + "/doge.jpg",
			expected: true,
		},
		{
			name:     "hashing two files with same content but different name returns the same value",
			pathA:    workdir + "/doge.jpg",
			pathB:    workdir + "/same-doge.jpg",
			expected: true,
		},
		{
			name:     "hashing two different files returns different values",
			pathA:    workdir + "/doge.jpg",
			pathB:    workdir + "/grumpy-cat.jpg",
			expected: false,
		},
	}

	for _, c := range cases {
		a, err := Hash(c.pathA)
		if err != nil {
			t.Error(err)
		}
		b, err := Hash(c.pathB)
		if err != nil {
			t.Error(err)
		}

		equal := reflect.DeepEqual(a, b)
		if equal != c.expected {
			t.Errorf("%v\n\tExpected %v but got %v instead", c.name, c.expected, equal)
		}
	}
}

func TestListFiles(t *testing.T) {
	workdir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(workdir, "b.jpg"), []byte("b"), time.Time{})
	testsupport.WriteFile(t, filepath.Join(workdir, "a.mp4"), []byte("a"), time.Time{})
	testsupport.WriteFile(t, filepath.Join(workdir, "nested", "c.jpg"), []byte("c"), time.Time{})
	if err := os.Symlink(filepath.Join(workdir, "nested"), filepath.Join(workdir, "link-to-dir")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(workdir, "b.jpg"), filepath.Join(workdir, "link-to-file")); err != nil {
		t.Fatal(err)
	}

	files, err := ListFiles(workdir)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{
		filepath.Join(workdir, "a.mp4"),
		filepath.Join(workdir, "b.jpg"),
		filepath.Join(workdir, "link-to-file"),
	}
	if !reflect.DeepEqual(files, expected) {
		t.Errorf("list returns only direct regular files\n\tExpected %v but got %v instead", expected, files)
	}
}

func TestListFilesMissingDir(t *testing.T) {
	if _, err := ListFiles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("Expected an error for a missing directory")
	}
}

func TestCopyFile(t *testing.T) {
	workdir := t.TempDir()
	src := filepath.Join(workdir, "src.jpg")
	dst := filepath.Join(workdir, "out", "dst.jpg")
	testsupport.WriteFile(t, src, []byte("pixels"), time.Time{})
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}

	mtime := time.Date(2021, time.March, 4, 10, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(src, 0o640); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "pixels" {
		t.Errorf("Expected %q but got %q instead", "pixels", content)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("copy preserves modification time\n\tExpected %v but got %v instead", mtime, info.ModTime())
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("copy preserves permission bits\n\tExpected %v but got %v instead", os.FileMode(0o640), info.Mode().Perm())
	}
	if !Exists(src) {
		t.Errorf("copy leaves the source in place")
	}
}

func TestMoveFile(t *testing.T) {
	workdir := t.TempDir()
	src := filepath.Join(workdir, "src.jpg")
	dst := filepath.Join(workdir, "dst.jpg")
	testsupport.WriteFile(t, src, []byte("pixels"), time.Time{})

	if err := MoveFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if Exists(src) {
		t.Errorf("move removes the source")
	}
	if !IsRegular(dst) {
		t.Errorf("move places the file at the destination")
	}
}

func BenchmarkHash(b *testing.B) {
	path := filepath.Join(b.TempDir(), "doge.jpg")
	testsupport.WriteFile(b, path, []byte("such wow"), time.Time{})

	for i := 0; i < b.N; i++ {
		if _, err := Hash(path); err != nil {
			b.Error(err)
		}
	}
}
