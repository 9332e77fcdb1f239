package core

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fedragon/go-album/internal/fs"
	"github.com/fedragon/go-album/internal/metrics"
	"github.com/fedragon/go-album/internal/models"
	"github.com/fedragon/go-album/internal/timestamp"

	"go.uber.org/zap"
)

// DefaultDirMode grants owner and group full access to month folders.
const DefaultDirMode os.FileMode = 0o770

var (
	ErrNoTimestamp       = errors.New("no usable timestamp")
	ErrTooManyCollisions = errors.New("too many files with the same name")
	ErrDigestMismatch    = errors.New("digest mismatch")
)

type TimestampResolver interface {
	Resolve(path string) (models.Timestamp, error)
}

type Organizer struct {
	Resolver  TimestampResolver
	Move      bool
	Overwrite bool
	Verify    bool
	// MaxSuffix bounds the name_N probe; 0 means unbounded.
	MaxSuffix int
	DirMode   os.FileMode
	Location  *time.Location
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	remove func(name string) error
}

// Organize places source under archiveRoot/YYYY/MM. It returns
// ErrNoTimestamp, leaving source untouched, when no timestamp is available.
func (o *Organizer) Organize(source, archiveRoot string) (models.Placement, error) {
	stop := o.Metrics.Record("resolve")
	taken, err := o.Resolver.Resolve(source)
	stop()
	if err != nil {
		return models.Placement{}, err
	}
	if taken.IsUnknown() {
		return models.Placement{}, ErrNoTimestamp
	}

	location := models.NewArchiveLocation(archiveRoot, taken.Time, o.location())
	dir := location.Dir()
	if err := os.MkdirAll(dir, o.dirMode()); err != nil {
		return models.Placement{}, fmt.Errorf("unable to create directory %v: %w", dir, err)
	}
	if err := os.Chmod(dir, o.dirMode()); err != nil {
		return models.Placement{}, fmt.Errorf("unable to change mode of directory %v: %w", dir, err)
	}

	placement := models.Placement{Source: source, Taken: taken, Moved: o.Move}
	name := filepath.Base(source)

	if o.Overwrite {
		placement.Target = filepath.Join(dir, name)
		if fs.IsRegular(placement.Target) {
			if same, err := sameFile(source, placement.Target); err == nil && same {
				o.logger().Info("File is already in place", zap.String("path", source))
				return placement, nil
			}
			if err := o.removeFile(placement.Target); err != nil {
				o.logger().Error("Cannot remove existing file", zap.String("path", placement.Target), zap.Error(err))
				return models.Placement{}, fmt.Errorf("unable to overwrite %v: %w", placement.Target, err)
			}
			placement.Overwrote = true
		}
	} else {
		placement.Target, err = o.freeTarget(dir, name)
		if err != nil {
			return models.Placement{}, err
		}
	}

	if err := o.transfer(source, placement.Target); err != nil {
		return models.Placement{}, err
	}

	o.logger().Info("Organized file",
		zap.String("taken", taken.Time.In(o.location()).Format(timestamp.Layout)),
		zap.String("taken_from", string(taken.Source)),
		zap.String("source", source),
		zap.String("dest", placement.Target),
	)

	return placement, nil
}

// freeTarget returns dir/name, or the first dir/base_N.ext that does not
// exist yet.
func (o *Organizer) freeTarget(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	if !fs.Exists(target) {
		return target, nil
	}

	base, ext := splitName(name)
	for n := 1; o.MaxSuffix <= 0 || n <= o.MaxSuffix; n++ {
		target = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, ext))
		if !fs.Exists(target) {
			return target, nil
		}
	}

	return "", fmt.Errorf("%v: %w", filepath.Join(dir, name), ErrTooManyCollisions)
}

func (o *Organizer) transfer(source, target string) error {
	var digest []byte
	if o.Verify {
		var err error
		if digest, err = fs.Hash(source); err != nil {
			return err
		}
	}

	stop := o.Metrics.Record("transfer")
	var err error
	if o.Move {
		err = fs.MoveFile(source, target)
	} else {
		err = fs.CopyFile(source, target)
	}
	stop()
	if err != nil {
		return err
	}

	if o.Verify {
		got, err := fs.Hash(target)
		if err != nil {
			return err
		}
		if !bytes.Equal(digest, got) {
			return fmt.Errorf("%v: %w", target, ErrDigestMismatch)
		}
	}

	return nil
}

func (o *Organizer) location() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.Local
}

func (o *Organizer) dirMode() os.FileMode {
	if o.DirMode != 0 {
		return o.DirMode
	}
	return DefaultDirMode
}

// splitName splits at the last dot; a leading dot alone does not start an
// extension.
func splitName(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name || strings.TrimLeft(name, ".") == strings.TrimLeft(ext, ".") {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}

func (o *Organizer) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o *Organizer) removeFile(name string) error {
	if o.remove != nil {
		return o.remove(name)
	}
	return os.Remove(name)
}
