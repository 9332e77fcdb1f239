package timestamp

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fedragon/go-album/internal/models"
	"github.com/fedragon/go-album/internal/testsupport"
)

func TestFiletypeClassifier(t *testing.T) {
	workdir := t.TempDir()

	cases := []struct {
		name     string
		file     string
		content  []byte
		expected models.Kind
	}{
		{
			name:     "jpeg content is an image",
			file:     "photo.dat",
			content:  testsupport.JPEG("2023:05:17 14:22:09"),
			expected: models.KindImage,
		},
		{
			name:     "mp4 content is a video",
			file:     "clip.jpg",
			content:  testsupport.MP4(time.Now()),
			expected: models.KindVideo,
		},
		{
			name:     "text is neither image nor video",
			file:     "notes.jpg",
			content:  []byte("just some notes"),
			expected: models.KindOther,
		},
		{
			name:     "empty file is neither image nor video",
			file:     "empty.mp4",
			content:  nil,
			expected: models.KindOther,
		},
	}

	for _, c := range cases {
		path := filepath.Join(workdir, c.file)
		testsupport.WriteFile(t, path, c.content, time.Time{})

		got, err := FiletypeClassifier{}.Classify(path)
		if err != nil {
			t.Errorf("%v\n\tUnexpected error %v", c.name, err)
			continue
		}
		if got != c.expected {
			t.Errorf("%v\n\tExpected %v but got %v instead", c.name, c.expected, got)
		}
	}
}

func TestNativeReader(t *testing.T) {
	workdir := t.TempDir()
	r := NewNativeReader()

	cases := []struct {
		name     string
		content  []byte
		tag      string
		expected string
	}{
		{
			name:     "jpeg exposes DateTimeOriginal",
			content:  testsupport.JPEG("2023:05:17 14:22:09"),
			tag:      DateTimeOriginal,
			expected: "2023:05:17 14:22:09",
		},
		{
			name:     "jpeg without exif has no tags",
			content:  testsupport.JPEG(""),
			tag:      DateTimeOriginal,
			expected: "",
		},
		{
			name:     "mp4 exposes MediaCreateDate in UTC",
			content:  testsupport.MP4(time.Date(2022, time.January, 3, 10, 0, 0, 0, time.UTC)),
			tag:      MediaCreateDate,
			expected: "2022:01:03 10:00:00",
		},
		{
			name:     "mp4 with zero creation time has no tags",
			content:  testsupport.MP4(time.Time{}),
			tag:      MediaCreateDate,
			expected: "",
		},
		{
			name:     "text has no tags",
			content:  []byte("hello"),
			tag:      DateTimeOriginal,
			expected: "",
		},
	}

	for i, c := range cases {
		path := filepath.Join(workdir, fmt.Sprintf("media-%d", i))
		testsupport.WriteFile(t, path, c.content, time.Time{})

		tags, err := r.Read(path)
		if err != nil {
			t.Errorf("%v\n\tUnexpected error %v", c.name, err)
			continue
		}
		if got := tags[c.tag]; got != c.expected {
			t.Errorf("%v\n\tExpected %q but got %q instead", c.name, c.expected, got)
		}
	}
}

func TestNativeReaderDecodesWithoutClassifying(t *testing.T) {
	workdir := t.TempDir()
	var r NativeReader

	photo := filepath.Join(workdir, "photo")
	testsupport.WriteFile(t, photo, testsupport.JPEG("2023:05:17 14:22:09"), time.Time{})
	tags, err := r.Read(photo)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[DateTimeOriginal] != "2023:05:17 14:22:09" {
		t.Errorf("Unexpected tags %v", tags)
	}

	clip := filepath.Join(workdir, "clip")
	testsupport.WriteFile(t, clip, testsupport.MP4(time.Date(2022, time.January, 3, 10, 0, 0, 0, time.UTC)), time.Time{})
	tags, err = r.Read(clip)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[MediaCreateDate] != "2022:01:03 10:00:00" {
		t.Errorf("Unexpected tags %v", tags)
	}
}

func TestNativeReaderMissingFile(t *testing.T) {
	if _, err := NewNativeReader().Read(filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}

func TestResolveWithNativeReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMG_001.jpg")
	testsupport.WriteFile(t, path, testsupport.JPEG("2023:05:17 14:22:09"), time.Date(2019, time.March, 1, 0, 0, 0, 0, time.Local))

	r := NewResolver(FiletypeClassifier{}, NewNativeReader())
	got, err := r.Resolve(path)
	if err != nil {
		t.Fatal(err)
	}

	expected := time.Date(2023, time.May, 17, 14, 22, 9, 0, time.Local)
	if !got.Time.Equal(expected) || got.Source != models.SourceMetadata {
		t.Errorf("Expected %v but got %v instead", expected, got)
	}
}
