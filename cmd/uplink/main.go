// Command uplink uploads image batches through the negotiating API and
// manages single objects directly on an S3-compatible store.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/grassyhq/uplink"
	"github.com/grassyhq/uplink/internal/config"
)

func main() {
	cfg := config.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)

	app := &cli.App{
		Name:  "uplink",
		Usage: "Upload image batches and manage stored objects",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				log = log.Level(zerolog.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			uploadCommand(cfg, &log),
			putCommand(cfg, &log),
			rmCommand(cfg, &log),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func uploadCommand(cfg *config.Config, log *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload files as one batch through the negotiating API",
		ArgsUsage: "FILE [FILE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "owner",
				Usage:    "Owner identifier for the batch",
				Required: true,
				EnvVars:  []string{"UPLINK_OWNER_ID"},
			},
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Negotiating API base URL",
				Value:   cfg.API.BaseURL,
				EnvVars: []string{"UPLINK_API_BASE_URL"},
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "Maximum parallel transfers",
				Value: cfg.Upload.Concurrency,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one file is required", 1)
			}

			client, err := uplink.New(c.String("api"),
				uplink.WithTimeout(cfg.API.Timeout),
				uplink.WithConcurrency(c.Int("concurrency")),
				uplink.WithRetry(cfg.Upload.MaxAttempts, cfg.Upload.BaseDelay),
				uplink.WithUploadSource(cfg.Upload.Source),
				uplink.WithLogger(*log),
			)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := client.UploadFiles(c.Context, c.String("owner"), c.Args().Slice())
			if err != nil {
				return err
			}

			log.Info().
				Str("record_id", result.RecordID).
				Int("objects", len(result.Paths)).
				Dur("duration", time.Since(start)).
				Msg("batch uploaded")
			for _, path := range result.Paths {
				fmt.Fprintln(c.App.Writer, path)
			}
			return nil
		},
	}
}

func putCommand(cfg *config.Config, log *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "put",
		Usage:     "Upload one file directly to the store under an object key",
		ArgsUsage: "KEY FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("usage: uplink put KEY FILE", 1)
			}

			data, err := os.ReadFile(c.Args().Get(1))
			if err != nil {
				return err
			}

			store, err := newDirectStore(cfg, log)
			if err != nil {
				return err
			}

			url, err := store.PutObject(c.Context, c.Args().Get(0), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, url)
			return nil
		},
	}
}

func rmCommand(cfg *config.Config, log *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete one object directly from the store",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: uplink rm KEY", 1)
			}

			store, err := newDirectStore(cfg, log)
			if err != nil {
				return err
			}

			if err := store.DeleteObject(c.Context, c.Args().First()); err != nil {
				return err
			}
			log.Info().Str("key", c.Args().First()).Msg("object deleted")
			return nil
		},
	}
}

func newDirectStore(cfg *config.Config, log *zerolog.Logger) (*uplink.DirectStore, error) {
	return uplink.NewDirectStore(
		cfg.Store.Endpoint,
		cfg.Store.Bucket,
		cfg.Store.Region,
		cfg.Store.Credentials,
		uplink.WithTimeout(cfg.API.Timeout),
		uplink.WithLogger(*log),
	)
}
