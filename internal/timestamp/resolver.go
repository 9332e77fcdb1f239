// Package timestamp works out when a photo or video was captured.
//
// Images are dated by their DateTimeOriginal tag, videos by MediaCreateDate.
// When the tag is missing or does not parse, the file modification time is
// used instead. Files that are neither images nor videos have no timestamp.
package timestamp

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fedragon/go-album/internal/models"
)

const (
	// Layout is the textual format of capture date tags.
	Layout = "2006:01:02 15:04:05"

	DateTimeOriginal = "DateTimeOriginal"
	MediaCreateDate  = "MediaCreateDate"
)

type Classifier interface {
	Classify(path string) (models.Kind, error)
}

type ClassifierFunc func(path string) (models.Kind, error)

func (f ClassifierFunc) Classify(path string) (models.Kind, error) {
	return f(path)
}

// MetadataReader returns the embedded tags of a file keyed by tag name.
type MetadataReader interface {
	Read(path string) (map[string]string, error)
}

type MetadataFunc func(path string) (map[string]string, error)

func (f MetadataFunc) Read(path string) (map[string]string, error) {
	return f(path)
}

type Resolver struct {
	Classifier Classifier
	Metadata   MetadataReader
	// Location is used to interpret tag values; nil means time.Local.
	Location *time.Location
}

func NewResolver(classifier Classifier, metadata MetadataReader) *Resolver {
	return &Resolver{Classifier: classifier, Metadata: metadata}
}

// Inspect builds the MediaFile for path. It returns nil when path is not a
// regular file.
func (r *Resolver) Inspect(path string) (*models.MediaFile, error) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, nil
	}

	kind, err := r.Classifier.Classify(path)
	if err != nil {
		return nil, fmt.Errorf("cannot classify %v: %w", path, err)
	}

	media := &models.MediaFile{Path: path, Kind: kind, ModTime: info.ModTime()}

	var tag string
	switch kind {
	case models.KindImage:
		tag = DateTimeOriginal
	case models.KindVideo:
		tag = MediaCreateDate
	default:
		return media, nil
	}

	tags, err := r.Metadata.Read(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read metadata of %v: %w", path, err)
	}
	if t, ok := Parse(tags[tag], r.location()); ok {
		media.CaptureTime = t
	}

	return media, nil
}

// Resolve returns the capture timestamp of path, or the zero Timestamp when
// it has none.
func (r *Resolver) Resolve(path string) (models.Timestamp, error) {
	media, err := r.Inspect(path)
	if err != nil {
		return models.Timestamp{}, err
	}
	if media == nil {
		return models.Timestamp{Source: models.SourceUnknown}, nil
	}

	return media.Timestamp(), nil
}

func (r *Resolver) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

// Parse reads a YYYY:MM:DD HH:MM:SS value in loc.
func Parse(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(Layout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
