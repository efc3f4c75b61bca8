// Command yieldindex builds the per-item price index from the price
// variations table and answers proportional range-price queries.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/rickgao/yield-index/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "yieldindex:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "yieldindex",
		Usage:   "proportional range pricing over daily price calendars",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "config",
				Aliases:   []string{"c"},
				Usage:     "path to config file",
				Value:     "configs/yieldindex.yaml",
				EnvVars:   []string{"YIELDINDEX_CONFIG"},
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:      "env-file",
				Usage:     "dotenv file loaded before the config is expanded",
				Value:     ".env",
				TakesFile: true,
			},
		},
		Before: loadEnvFile,
		Commands: []*cli.Command{
			serveCommand,
			buildCommand,
			priceCommand,
			periodsCommand,
		},
	}
}

// loadEnvFile loads the dotenv file without overriding the real environment.
// A missing default file is not an error.
func loadEnvFile(c *cli.Context) error {
	path := c.String("env-file")
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) && !c.IsSet("env-file") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
