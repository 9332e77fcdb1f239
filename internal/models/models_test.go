package models

import (
	"path/filepath"
	"testing"
	"time"
)

func TestArchiveLocation(t *testing.T) {
	taken := time.Date(2023, time.May, 17, 14, 22, 9, 0, time.UTC)

	cases := []struct {
		name     string
		loc      *time.Location
		expected string
	}{
		{"utc", time.UTC, filepath.Join("/archive", "2023", "05")},
		{"year and month follow the location", time.FixedZone("X", -15*60*60), filepath.Join("/archive", "2023", "05")},
	}

	for _, c := range cases {
		if got := NewArchiveLocation("/archive", taken, c.loc).Dir(); got != c.expected {
			t.Errorf("%v\n\tExpected %v but got %v instead", c.name, c.expected, got)
		}
	}

	newYear := time.Date(2023, time.January, 1, 1, 0, 0, 0, time.UTC)
	if got := NewArchiveLocation("/archive", newYear, time.FixedZone("W", -2*60*60)).Dir(); got != filepath.Join("/archive", "2022", "12") {
		t.Errorf("Expected the previous month in a western zone but got %v", got)
	}
}

func TestMediaFileTimestamp(t *testing.T) {
	mtime := time.Date(2022, time.January, 3, 0, 0, 0, 0, time.UTC)
	captured := time.Date(2023, time.May, 17, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		media    MediaFile
		expected Source
	}{
		{"capture time wins", MediaFile{Kind: KindImage, ModTime: mtime, CaptureTime: captured}, SourceMetadata},
		{"modification time is the fallback", MediaFile{Kind: KindVideo, ModTime: mtime}, SourceMtime},
		{"other files have no timestamp", MediaFile{Kind: KindOther, ModTime: mtime, CaptureTime: captured}, SourceUnknown},
	}

	for _, c := range cases {
		if got := c.media.Timestamp(); got.Source != c.expected {
			t.Errorf("%v\n\tExpected %v but got %v instead", c.name, c.expected, got.Source)
		}
	}
}

func TestTimestampUnknown(t *testing.T) {
	if !(Timestamp{}).IsUnknown() || (Timestamp{}).Unix() != 0 {
		t.Errorf("the zero timestamp is unknown")
	}
	if !(Timestamp{Time: time.Unix(0, 0)}).IsUnknown() {
		t.Errorf("the epoch is unknown")
	}
	ts := Timestamp{Time: time.Unix(1684333329, 0)}
	if ts.IsUnknown() || ts.Unix() != 1684333329 {
		t.Errorf("Expected a known timestamp but got %v", ts)
	}
}
