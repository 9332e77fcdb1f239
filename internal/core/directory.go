package core

import (
	"context"
	"errors"

	"github.com/fedragon/go-album/internal/fs"
	"github.com/fedragon/go-album/internal/models"

	"go.uber.org/zap"
)

// OrganizeDirectory organizes every regular file directly under staging.
// Per-file failures are logged and collected in the summary; the run goes on
// with the next file. Cancellation of ctx is honoured between files only.
func (o *Organizer) OrganizeDirectory(ctx context.Context, staging, archiveRoot string) (models.Summary, error) {
	var summary models.Summary

	if !fs.IsDir(staging) {
		o.logger().Warn("Source is not a directory, nothing to do", zap.String("source", staging))
		return summary, nil
	}

	files, err := fs.ListFiles(staging)
	if err != nil {
		return summary, err
	}

	o.logger().Info("Organizing directory",
		zap.String("source", staging),
		zap.String("dest", archiveRoot),
		zap.Int("files", len(files)),
		zap.Bool("move", o.Move),
		zap.Bool("overwrite", o.Overwrite),
	)

	for i, path := range files {
		if ctx.Err() != nil {
			summary.Cancelled = true
			o.logger().Warn("Cancelled by user", zap.Int("remaining", len(files)-i))
			return summary, nil
		}

		_, err := o.Organize(path, archiveRoot)
		switch {
		case err == nil:
			summary.Organized++
			o.Metrics.Increment("organized")
		case errors.Is(err, ErrNoTimestamp):
			summary.Skipped++
			o.Metrics.Increment("skipped")
			o.logger().Debug("Skipping file", zap.String("path", path), zap.String("reason", err.Error()))
		default:
			summary.Failed++
			summary.Failures = append(summary.Failures, models.Failure{Path: path, Err: err})
			o.Metrics.Increment("failed")
			o.logger().Error("Cannot organize file", zap.String("path", path), zap.Error(err))
		}
	}

	o.logger().Info("Done organizing directory",
		zap.Int("organized", summary.Organized),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}
