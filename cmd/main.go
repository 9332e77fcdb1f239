package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fedragon/go-album/internal"
	"github.com/fedragon/go-album/internal/config"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	app := &cli.App{
		Name:  "go-album",
		Usage: "sort photos and videos into year/month folders by capture date",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "staging directory holding the files to organize",
				EnvVars: []string{"ALBUM_SOURCE"},
			},
			&cli.StringFlag{
				Name:    "dest",
				Aliases: []string{"d"},
				Usage:   "archive root where YYYY/MM folders are created",
				EnvVars: []string{"ALBUM_DEST"},
			},
			&cli.BoolFlag{
				Name:  "move",
				Usage: "move files instead of copying them",
			},
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "replace same-named archived files instead of adding a _N suffix",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "compare blake3 digests of source and archived file",
			},
			&cli.StringFlag{
				Name:  "metadata",
				Usage: "metadata backend: exiftool, native or auto",
			},
			&cli.StringFlag{
				Name:  "exiftool",
				Usage: "path to the exiftool binary",
			},
			&cli.IntFlag{
				Name:  "max-suffix",
				Usage: "give up after this many name collisions (0 = never)",
			},
			&cli.StringFlag{
				Name:  "statsd",
				Usage: "also send metrics to the statsd daemon at this host:port",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML configuration file (default " + config.DefaultPath + ")",
				EnvVars: []string{"ALBUM_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger, err := newLogger(c.Bool("debug"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, found, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if found {
		logger.Debug("Loaded configuration file")
	}
	applyFlags(c, cfg)

	if err := cfg.Normalize(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := internal.NewRunner(logger, cfg)
	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	internal.WriteSummary(os.Stdout, summary, runner.Metrics().Snapshot())

	if summary.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d file(s) could not be organized", summary.Failed), 1)
	}
	return nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("source") {
		cfg.Source = c.String("source")
	}
	if c.IsSet("dest") {
		cfg.Dest = c.String("dest")
	}
	if c.IsSet("move") {
		cfg.Move = c.Bool("move")
	}
	if c.IsSet("overwrite") {
		cfg.Overwrite = c.Bool("overwrite")
	}
	if c.IsSet("verify") {
		cfg.Verify = c.Bool("verify")
	}
	if c.IsSet("metadata") {
		cfg.MetadataBackend = c.String("metadata")
	}
	if c.IsSet("exiftool") {
		cfg.ExiftoolPath = c.String("exiftool")
	}
	if c.IsSet("max-suffix") {
		cfg.MaxSuffix = c.Int("max-suffix")
	}
	if c.IsSet("statsd") {
		cfg.StatsdAddr = c.String("statsd")
	}
}

// newLogger logs JSON unless stderr is a terminal.
func newLogger(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	// every placement line matters, never sample them away
	cfg.Sampling = nil

	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	return cfg.Build()
}
