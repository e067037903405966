package main

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"sifter"
	"sifter/config"
	nt "sifter/entity"
	"sifter/store/duck"
	"sifter/util"
)

const (
	cfgFile = "sifter.yaml"
	cfgMode = 0644
	logMode = 0644
)

func main() {

	app := &cli.App{
		Name:  "sifter",
		Usage: "narrow json datasets with criteria",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   cfgFile,
				Usage:   "path to yaml config",
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			browseCommand(),
			configCommand(),
		},
	}

	err := app.RunContext(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "filter a dataset once and print matching records as json",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "url or file to load"},
			&cli.StringFlag{Name: "criteria", Usage: "yaml file of criteria groups"},
			&cli.BoolFlag{Name: "case-sensitive", Usage: "match text case sensitively"},
		},
		Action: func(c *cli.Context) (err error) {

			cfg, err := loadConfig(c)
			if err != nil {
				return
			}

			if path := c.String("criteria"); path != "" {
				group, err := config.LoadCriteria(path)
				if err != nil {
					return err
				}
				cfg.Criteria = group.Filters()
			}
			if cfg.Source == "" {
				return errors.New("no source given, use --source or set source in config")
			}

			lgr := util.NewLogger(os.Stderr)
			ctx := c.Context

			router, closer, err := newRouter(cfg, lgr)
			if err != nil {
				return
			}
			defer closer()

			result, err := router.Fetch(ctx, cfg.Source)
			if err != nil {
				return
			}

			found := cfg.Search.New(result.Data, cfg.Group(), lgr).Search()

			out, err := json.MarshalIndentWithOption(found, "", "  ", json.DisableHTMLEscape())
			if err != nil {
				return errors.Wrapf(err, "failed to marshal results")
			}
			fmt.Println(string(out))

			fmt.Fprintf(os.Stderr, "Total: %s  Filtered: %s\n",
				humanize.Comma(int64(len(result.Data))), humanize.Comma(int64(len(found))))
			return
		},
	}
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "explore a dataset interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "url or file to load"},
		},
		Action: func(c *cli.Context) (err error) {

			cfg, err := loadConfig(c)
			if err != nil {
				return
			}

			logFile := util.OpenLog(cfg.LogPath, logMode)
			defer util.CloseLog(logFile)

			lgr := util.NewLogger(logFile)
			ctx := c.Context

			router, closer, err := newRouter(cfg, lgr)
			if err != nil {
				return
			}
			defer closer()

			lgr.Info(ctx, "sifter starting", "source", cfg.Source)

			model := sifter.NewModel(ctx, router, cfg, lgr)
			_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
			err = errors.Wrapf(err, "failed to run browser")
			return
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "write a sample config unless one exists",
		Action: func(c *cli.Context) error {
			path := c.String("config")

			err := config.Sample(path, cfgMode)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "config at %s\n", path)
			return nil
		},
	}
}

// unexported

func loadConfig(c *cli.Context) (cfg *config.Config, err error) {

	cfg, err = config.LoadOrDefault(c.String("config"))
	if err != nil {
		return
	}

	if source := c.String("source"); source != "" {
		cfg.Source = source
	}
	if c.Bool("case-sensitive") {
		cfg.Search.CaseSensitive = true
	}
	return
}

func newRouter(cfg *config.Config, lgr nt.Logger) (router *sifter.Router, closer func(), err error) {

	dk, err := duck.New(lgr)
	if err != nil {
		return
	}

	router = sifter.NewRouter(cfg.Web.New(lgr), dk)
	closer = dk.Close
	return
}
