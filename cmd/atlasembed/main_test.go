package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func embedTestApp() *cli.App {
	return &cli.App{
		Name: "atlasembed",
		Commands: []*cli.Command{
			{
				Name:   "embed",
				Action: embedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "csv",
						Aliases:  []string{"i"},
						Required: true,
					},
					&cli.StringFlag{
						Name:  "column",
						Value: "Review",
					},
					&cli.StringFlag{
						Name:  "provider",
						Value: "openrouter",
					},
					&cli.StringFlag{
						Name:    "api-key",
						EnvVars: []string{"OPENROUTER_API_KEY"},
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Value: 3,
					},
					&cli.IntFlag{
						Name:  "max-failed-batches",
						Value: 5,
					},
				},
			},
		},
	}
}

func TestEmbedCommandFlags(t *testing.T) {
	app := embedTestApp()

	t.Run("csv is required", func(t *testing.T) {
		err := app.Run([]string{"atlasembed", "embed"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "csv")
	})

	t.Run("column defaults to Review", func(t *testing.T) {
		cmd := app.Commands[0]
		var columnFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "column" {
				columnFlag = f
				break
			}
		}
		require.NotNil(t, columnFlag)
		assert.Equal(t, "Review", columnFlag.Value)
	})

	t.Run("batch-size defaults to 20", func(t *testing.T) {
		cmd := app.Commands[0]
		var batchFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "batch-size" {
				batchFlag = f
				break
			}
		}
		require.NotNil(t, batchFlag)
		assert.Equal(t, 20, batchFlag.Value)
	})

	t.Run("api-key is read from the environment", func(t *testing.T) {
		cmd := app.Commands[0]
		var keyFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "api-key" {
				keyFlag = f
				break
			}
		}
		require.NotNil(t, keyFlag)
		assert.Equal(t, []string{"OPENROUTER_API_KEY"}, keyFlag.EnvVars)
	})
}

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	run := func(level string) error {
		app := &cli.App{
			Name: "atlasembed",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(*cli.Context) error { return nil },
		}
		return app.Run([]string{"atlasembed", "--log-level", level})
	}

	t.Run("accepts the standard levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
			assert.NoError(t, run(level), level)
		}
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		err := run("verbose")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}
