package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/dfryer1193/img2html/convert/application"
	"github.com/dfryer1193/img2html/convert/domain"
	"github.com/dfryer1193/img2html/convert/persistence"
	"github.com/dfryer1193/img2html/internal/config"
	"github.com/dfryer1193/img2html/shared/codec"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	app := &cli.Command{
		Name:  "img2html",
		Usage: "Convert raster images to pixel-grid HTML",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			convertCommand(),
			cleanupCommand(),
			watchCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}

func cacheFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "cache directory (overrides config)",
		},
		&cli.IntFlag{
			Name:  "max-width",
			Usage: "maximum output width in pixels (0 = unbounded)",
		},
		&cli.IntFlag{
			Name:  "max-height",
			Usage: "maximum output height in pixels (0 = unbounded)",
		},
		&cli.IntFlag{
			Name:  "lifetime",
			Usage: "cache entry lifetime in seconds",
		},
	}
}

// loadConfig merges the optional config file with command-line overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if w := int(cmd.Int("max-width")); w > 0 {
		cfg.MaxWidth = w
	}
	if h := int(cmd.Int("max-height")); h > 0 {
		cfg.MaxHeight = h
	}
	if d := cmd.String("cache-dir"); d != "" {
		cfg.Cache.Directory = d
	}
	if l := int(cmd.Int("lifetime")); l > 0 {
		cfg.Cache.LifetimeSeconds = l
	}

	return cfg, nil
}

func newConverter(cfg *config.Config) (*application.ConverterService, *persistence.FileCacheRepository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	cache, err := persistence.NewFileCacheRepository(
		cfg.CacheDir(cwd),
		time.Duration(cfg.Cache.LifetimeSeconds)*time.Second,
	)
	if err != nil {
		return nil, nil, err
	}

	svc := application.NewConverterService(
		codec.NewImagingCodec(),
		cache,
		application.NewMarkupRenderer(),
		cfg.MaxWidth,
		cfg.MaxHeight,
	)

	return svc, cache, nil
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert one image to pixel-grid HTML",
		ArgsUsage: "<image>",
		Flags: append(cacheFlags(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write markup to a file instead of stdout",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("debug") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one image path")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			svc, _, err := newConverter(cfg)
			if err != nil {
				return err
			}

			markup, err := svc.ConvertToHTML(ctx, cmd.Args().First())
			if err != nil {
				return err
			}

			if out := cmd.String("out"); out != "" {
				return os.WriteFile(out, []byte(markup), 0644)
			}

			fmt.Print(markup)
			return nil
		},
	}
}

func cleanupCommand() *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Remove expired cache entries",
		Flags: cacheFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}

			return persistence.CleanUpCache(cfg.CacheDir(cwd))
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch a directory and convert images as they appear",
		ArgsUsage: "<dir>",
		Flags: append(cacheFlags(),
			&cli.DurationFlag{
				Name:  "every",
				Usage: "interval between cache cleanup runs",
				Value: 24 * time.Hour,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("debug") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one directory to watch")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			svc, cache, err := newConverter(cfg)
			if err != nil {
				return err
			}

			return watchDir(ctx, cmd.Args().First(), cmd.Duration("every"), svc, cache)
		},
	}
}

// watchDir converts every image created or modified under dir and runs the
// cache collector on a fixed interval. Blocks until ctx is cancelled.
func watchDir(ctx context.Context, dir string, cleanupEvery time.Duration, svc *application.ConverterService, cache domain.CacheRepository) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()

	log.Info().Str("dir", dir).Msg("Watching for images")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			if err := cache.CleanUp(ctx); err != nil {
				log.Error().Err(err).Msg("Cache cleanup failed")
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isImagePath(event.Name) {
				continue
			}
			if _, err := svc.ConvertToHTML(ctx, event.Name); err != nil {
				log.Error().Err(err).Str("path", event.Name).Msg("Conversion failed")
				continue
			}
			log.Info().Str("path", event.Name).Msg("Converted image")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Watcher error")
		}
	}
}

func isImagePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}
