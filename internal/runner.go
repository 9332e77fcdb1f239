package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fedragon/go-album/internal/config"
	"github.com/fedragon/go-album/internal/core"
	"github.com/fedragon/go-album/internal/fs"
	"github.com/fedragon/go-album/internal/metrics"
	"github.com/fedragon/go-album/internal/models"
	"github.com/fedragon/go-album/internal/timestamp"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LockFile is created in the archive root for the duration of a run.
const LockFile = ".go-album.lock"

var ErrLocked = errors.New("another run is organizing into this archive")

type Runner struct {
	logger  *zap.Logger
	cfg     *config.Config
	metrics *metrics.Metrics
}

func NewRunner(logger *zap.Logger, cfg *config.Config) *Runner {
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	mx := metrics.NewMetrics()
	if cfg.StatsdAddr != "" {
		mx = metrics.NewStatsdMetrics(cfg.StatsdAddr, logger)
	}

	return &Runner{
		logger:  logger,
		cfg:     cfg,
		metrics: mx,
	}
}

func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

func (r *Runner) Run(ctx context.Context) (models.Summary, error) {
	start := time.Now()
	defer func() {
		r.logger.Info("Elapsed time", zap.Duration("elapsed", time.Since(start)))
		if err := r.metrics.Close(); err != nil {
			r.logger.Warn("Cannot flush metrics", zap.Error(err))
		}
	}()

	if !fs.IsDir(r.cfg.Source) {
		r.logger.Warn("Source is not a directory, nothing to do", zap.String("source", r.cfg.Source))
		return models.Summary{}, nil
	}

	if r.cfg.Move {
		r.logger.Info("Running in MOVE mode: source files will be removed once archived")
	}
	if r.cfg.Overwrite {
		r.logger.Info("Running in OVERWRITE mode: same-named archived files will be replaced")
	}

	dirMode, err := r.cfg.Mode()
	if err != nil {
		return models.Summary{}, err
	}

	if err := os.MkdirAll(r.cfg.Dest, 0o755); err != nil {
		return models.Summary{}, fmt.Errorf("unable to create destination directory %v: %w", r.cfg.Dest, err)
	}

	lock := flock.New(filepath.Join(r.cfg.Dest, LockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return models.Summary{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return models.Summary{}, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("Cannot release lock", zap.String("lock", lock.Path()), zap.Error(err))
		}
		if err := os.Remove(lock.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("Cannot remove lock file", zap.String("lock", lock.Path()), zap.Error(err))
		}
	}()

	reader, err := r.metadataReader()
	if err != nil {
		return models.Summary{}, err
	}
	if closer, ok := reader.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				r.logger.Warn("Cannot stop metadata reader", zap.Error(err))
			}
		}()
	}

	organizer := &core.Organizer{
		Resolver:  timestamp.NewResolver(timestamp.FiletypeClassifier{}, reader),
		Move:      r.cfg.Move,
		Overwrite: r.cfg.Overwrite,
		Verify:    r.cfg.Verify,
		MaxSuffix: r.cfg.MaxSuffix,
		DirMode:   dirMode,
		Metrics:   r.metrics,
		Logger:    r.logger,
	}

	return organizer.OrganizeDirectory(ctx, r.cfg.Source, r.cfg.Dest)
}

func (r *Runner) metadataReader() (timestamp.MetadataReader, error) {
	switch r.cfg.MetadataBackend {
	case config.BackendNative:
		return timestamp.NewNativeReader(), nil
	case config.BackendAuto:
		reader, err := timestamp.NewExiftoolReader(r.cfg.ExiftoolPath)
		if err != nil {
			r.logger.Warn("Falling back to native metadata reader", zap.Error(err))
			return timestamp.NewNativeReader(), nil
		}
		return reader, nil
	default:
		return timestamp.NewExiftoolReader(r.cfg.ExiftoolPath)
	}
}
