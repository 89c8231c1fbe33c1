package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/bodgit/pxlsdump"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

var red = color.New(color.FgRed, color.Bold)

func loadConfig(c *cli.Context) (*pxlsdump.Config, error) {
	cfg := pxlsdump.DefaultConfig()
	if file := c.String("config"); file != "" {
		var err error
		if cfg, err = pxlsdump.LoadConfig(file); err != nil {
			return nil, err
		}
	}

	// Flags and environment variables win over the file
	if c.IsSet("info-url") {
		cfg.InfoURL = c.String("info-url")
	}
	if c.IsSet("board-url") {
		cfg.BoardURL = c.String("board-url")
	}
	if c.IsSet("path") {
		cfg.Path = c.String("path")
	}
	if c.IsSet("canvas-code") {
		cfg.TagFilename = c.Bool("canvas-code")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("db") {
		cfg.DB = c.String("db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openDB(cfg *pxlsdump.Config) (*pxlsdump.SnapshotDB, error) {
	if cfg.DB == "" {
		return nil, nil
	}
	return pxlsdump.NewSnapshotDB(cfg.DB)
}

// run sets up the Dumper and hands it to f, the database is closed afterwards.
func run(c *cli.Context, f func(*pxlsdump.Dumper, pxlsdump.Options) (*pxlsdump.Snapshot, error)) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	d := pxlsdump.New(cfg.Client(), db, newLogger(c))

	s, err := f(d, cfg.Options())
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, s.Path)

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "pxlsdump"
	app.Usage = "Save a pxls canvas as a PNG image"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "path",
			Aliases: []string{"p"},
			EnvVars: []string{"PXLSDUMP_PATH"},
			Value:   pxlsdump.DefaultPath,
			Usage:   "path of the PNG to save",
		},
		&cli.BoolFlag{
			Name:    "canvas-code",
			Aliases: []string{"c"},
			Usage:   "include the canvas code in the filename",
		},
		&cli.StringFlag{
			Name:    "info-url",
			EnvVars: []string{"PXLSDUMP_INFO_URL"},
			Value:   pxlsdump.DefaultInfoURL,
			Usage:   "URL of the canvas info",
		},
		&cli.StringFlag{
			Name:    "board-url",
			EnvVars: []string{"PXLSDUMP_BOARD_URL"},
			Value:   pxlsdump.DefaultBoardURL,
			Usage:   "URL of the board data",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: pxlsdump.DefaultTimeout,
			Usage: "timeout for each request",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PXLSDUMP_DB"},
			Usage:   "record each image in this database",
		},
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"PXLSDUMP_CONFIG"},
			Usage:   "read settings from this YAML file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Action = func(c *cli.Context) error {
		return run(c, func(d *pxlsdump.Dumper, opts pxlsdump.Options) (*pxlsdump.Snapshot, error) {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			return d.Dump(ctx, opts)
		})
	}

	app.Commands = []*cli.Command{
		{
			Name:        "render",
			Usage:       "Render saved info and board data",
			Description: "",
			ArgsUsage:   "INFO BOARD",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				return run(c, func(d *pxlsdump.Dumper, opts pxlsdump.Options) (*pxlsdump.Snapshot, error) {
					return d.Render(c.Args().Get(0), c.Args().Get(1), opts)
				})
			},
		},
		{
			Name:        "history",
			Usage:       "List recorded images",
			Description: "",
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return err
				}
				if cfg.DB == "" {
					return fmt.Errorf("no database, use --db")
				}

				db, err := pxlsdump.NewSnapshotDB(cfg.DB)
				if err != nil {
					return err
				}
				defer db.Close()

				snapshots, err := db.Snapshots()
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "CREATED\tCANVAS\tSIZE\tCOLORS\tSHA1\tPATH")
				for _, s := range snapshots {
					fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%s\t%s\n", s.Created.Format(time.RFC3339), s.CanvasCode, s.Width, s.Height, s.Colors, s.SHA1, s.Path)
				}

				return w.Flush()
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		red.Fprintf(os.Stderr, "pxlsdump: %v\n", err)
		os.Exit(pxlsdump.ExitCode(err))
	}
}
