package main

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/theoremus-urban-solutions/siri-stop-finder/config"
	"github.com/theoremus-urban-solutions/siri-stop-finder/internal"
	"github.com/theoremus-urban-solutions/siri-stop-finder/search"
	"github.com/theoremus-urban-solutions/siri-stop-finder/server"
	"github.com/theoremus-urban-solutions/siri-stop-finder/siri"
)

var cfg *config.AppConfig

func main() {
	app := &cli.App{
		Name:  "siri-stop-finder",
		Usage: "Find transit lines and stops from fuzzy French queries, with live departures",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config.yml (optional, built-in defaults otherwise)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Logging level (trace, debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Human-readable log output instead of JSON",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search stops by fuzzy line, destination, and stop queries",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "line", Usage: "Line name or code fragment"},
					&cli.StringFlag{Name: "dest", Usage: "Destination fragment"},
					&cli.StringFlag{Name: "stop", Usage: "Stop name fragment"},
				},
				Action: searchCommand,
			},
			{
				Name:      "line",
				Usage:     "Resolve a single line from a free-text query",
				ArgsUsage: "QUERY",
				Action:    lineCommand,
			},
			{
				Name:   "lines",
				Usage:  "List every line and direction the provider announces",
				Action: linesCommand,
			},
			{
				Name:  "stops",
				Usage: "List the confirmed stops of a line and direction",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "line", Usage: "Line reference", Required: true},
					&cli.IntFlag{Name: "direction", Usage: "Direction reference (-1 for any)", Value: -1},
				},
				Action: stopsCommand,
			},
			{
				Name:  "departures",
				Usage: "Show upcoming departures for a stop",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "stop", Usage: "Stop point reference", Required: true},
					&cli.StringFlag{Name: "line", Usage: "Line reference filter"},
					&cli.IntFlag{Name: "direction", Usage: "Direction reference filter (-1 for any)", Value: -1},
				},
				Action: departuresCommand,
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API server",
				Action: serveCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// setup loads .env, the YAML config, and the logger, in that order.
// Explicit flags win over config values.
func setup(c *cli.Context) error {
	_ = godotenv.Load()

	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	internal.InitLogging(level, c.Bool("pretty") || cfg.Logging.Pretty)
	return nil
}

func newEngine() *search.Engine {
	client := siri.NewClient(cfg.Provider)
	return search.NewEngine(client, search.Options{
		LineThreshold:   cfg.Search.LineThreshold,
		DestThreshold:   cfg.Search.DestThreshold,
		StopThreshold:   cfg.Search.StopThreshold,
		MaxLines:        cfg.Search.MaxLines,
		MaxResults:      cfg.Search.MaxResults,
		PreviewInterval: cfg.Departures.PreviewInterval,
		MaxVisits:       cfg.Departures.MaxVisits,
		BBox: siri.BoundingBox{
			West:  cfg.Area.West,
			North: cfg.Area.North,
			East:  cfg.Area.East,
			South: cfg.Area.South,
		},
	})
}

func searchCommand(c *cli.Context) error {
	results, err := newEngine().SearchStop(c.String("line"), c.String("dest"), c.String("stop"))
	if err != nil {
		return err
	}
	return printJSON(results)
}

func lineCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return cli.Exit("usage: line QUERY", 2)
	}
	entry, ok, err := newEngine().FindLineByQuery(query)
	if err != nil {
		return err
	}
	if !ok {
		return cli.Exit("no line matches the query", 1)
	}
	return printJSON(entry)
}

func linesCommand(c *cli.Context) error {
	lines, err := newEngine().Lines()
	if err != nil {
		return err
	}
	return printJSON(lines)
}

func stopsCommand(c *cli.Context) error {
	stops, err := newEngine().Stops(c.String("line"), c.Int("direction"))
	if err != nil {
		return err
	}
	return printJSON(stops)
}

func departuresCommand(c *cli.Context) error {
	visits, err := newEngine().Departures(c.String("stop"), c.String("line"), c.Int("direction"))
	if err != nil {
		return err
	}

	type view struct {
		siri.Visit
		Mins int `json:"mins"`
	}
	now := time.Now()
	views := make([]view, len(visits))
	for i, v := range visits {
		stamp := v.Expected
		if stamp == "" {
			stamp = v.Aimed
		}
		views[i] = view{Visit: v, Mins: siri.MinutesUntil(now, stamp)}
	}
	return printJSON(views)
}

func serveCommand(c *cli.Context) error {
	srv := server.New(cfg.Server, newEngine())
	srv.Start()
	srv.HandleGracefulShutdown()
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
