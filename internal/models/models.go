package models

import (
	"fmt"
	"path/filepath"
	"time"
)

type Kind int

const (
	KindOther Kind = iota
	KindImage
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "other"
	}
}

// Source tells where a Timestamp was read from.
type Source string

const (
	SourceMetadata Source = "metadata"
	SourceMtime    Source = "mtime"
	SourceUnknown  Source = "unknown"
)

// Timestamp is a best-effort capture time. The zero value means unknown.
type Timestamp struct {
	Time   time.Time
	Source Source
}

// IsUnknown reports whether the timestamp cannot be used to place a file.
// Times at or before the Unix epoch count as unknown.
func (t Timestamp) IsUnknown() bool {
	return t.Time.IsZero() || t.Time.Unix() <= 0
}

// Unix returns epoch seconds, or 0 when the timestamp is unknown.
func (t Timestamp) Unix() int64 {
	if t.IsUnknown() {
		return 0
	}
	return t.Time.Unix()
}

// MediaFile is a staging file as seen during a single pass.
type MediaFile struct {
	Path        string
	Kind        Kind
	ModTime     time.Time
	CaptureTime time.Time
}

// Timestamp picks the capture time when present and falls back to the
// modification time. Files that are neither images nor videos have none.
func (m MediaFile) Timestamp() Timestamp {
	if m.Kind != KindImage && m.Kind != KindVideo {
		return Timestamp{Source: SourceUnknown}
	}
	if !m.CaptureTime.IsZero() {
		return Timestamp{Time: m.CaptureTime, Source: SourceMetadata}
	}
	if !m.ModTime.IsZero() {
		return Timestamp{Time: m.ModTime, Source: SourceMtime}
	}
	return Timestamp{Source: SourceUnknown}
}

type ArchiveLocation struct {
	Root  string
	Year  int
	Month time.Month
}

// NewArchiveLocation breaks t down in loc.
func NewArchiveLocation(root string, t time.Time, loc *time.Location) ArchiveLocation {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return ArchiveLocation{Root: root, Year: local.Year(), Month: local.Month()}
}

// Dir returns root/YYYY/MM.
func (a ArchiveLocation) Dir() string {
	return filepath.Join(a.Root, fmt.Sprintf("%04d", a.Year), fmt.Sprintf("%02d", int(a.Month)))
}

type Placement struct {
	Source    string
	Target    string
	Taken     Timestamp
	Moved     bool
	Overwrote bool
}

type Failure struct {
	Path string
	Err  error
}

type Summary struct {
	Organized int
	Skipped   int
	Failed    int
	Failures  []Failure
	Cancelled bool
}
