package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jusunglee/nexttrain/internal/arrivals"
	"github.com/jusunglee/nexttrain/internal/config"
	"github.com/jusunglee/nexttrain/internal/feed"
	"github.com/jusunglee/nexttrain/internal/lines"
	"github.com/jusunglee/nexttrain/internal/logging"
	"github.com/jusunglee/nexttrain/internal/models"
	"github.com/jusunglee/nexttrain/internal/snapshot"
	"github.com/jusunglee/nexttrain/internal/stations"
	"github.com/jusunglee/nexttrain/pkg/mta"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "nexttrain",
		Usage: "Query NYC subway arrivals from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			c.App.Metadata = map[string]interface{}{"config": cfg}
			return logging.Setup(cfg.LogLevel, true)
		},
		Commands: []*cli.Command{
			arrivalsCommand(),
			stationsCommand(),
			buildStationsCommand(),
			snapshotCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func loadedConfig(c *cli.Context) config.Config {
	return c.App.Metadata["config"].(config.Config)
}

func newClient(c *cli.Context) (*mta.LocalClient, error) {
	client, err := mta.NewLocal(mta.FromConfig(loadedConfig(c)))
	if err != nil {
		return nil, fmt.Errorf("create MTA client: %w", err)
	}
	return client, nil
}

func arrivalsCommand() *cli.Command {
	return &cli.Command{
		Name:      "arrivals",
		Usage:     "print countdowns for the next trains at a platform",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "line", Aliases: []string{"l"}, Required: true},
			&cli.StringFlag{Name: "station", Aliases: []string{"s"}, Required: true, Usage: "stop id without direction, e.g. 127"},
			&cli.StringFlag{Name: "direction", Aliases: []string{"d"}, Value: "S", Usage: "N or S"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "number of arrivals (default from config)"},
		},
		Action: func(c *cli.Context) error {
			dir, err := models.ParseDirection(c.String("direction"))
			if err != nil {
				return err
			}
			limit := c.Int("limit")
			if limit == 0 {
				limit = loadedConfig(c).DefaultLimit
			}

			client, err := newClient(c)
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.NextArrivals(c.Context, c.String("line"), c.String("station"), dir, limit)
			if err != nil {
				return err
			}

			name, ok := client.StationName(c.String("station"))
			if !ok {
				name = c.String("station")
			}
			fmt.Printf("%s train at %s (%s):\n", c.String("line"), name, dir)
			if len(result) == 0 {
				fmt.Println("No upcoming trains")
			}
			for _, a := range result {
				fmt.Printf("Train arriving in %d minutes\n", a.Minutes)
			}
			return nil
		},
	}
}

func stationsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stations",
		Usage:     "list stations currently served by lines",
		ArgsUsage: "[line...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "save", Usage: "write line_stations.json to the stations directory"},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			defer client.Close()

			lineIDs := c.Args().Slice()
			if len(lineIDs) == 0 {
				lineIDs = client.Lines()
			}

			byLine, err := client.StationsForLines(c.Context, lineIDs)
			if err != nil {
				return err
			}

			for _, line := range lineIDs {
				fmt.Printf("\nStations on line %s:\n", line)
				for _, id := range byLine[line] {
					name, _ := client.StationName(id)
					fmt.Printf("- %s (%s)\n", name, id)
				}
			}

			if c.Bool("save") {
				dir := loadedConfig(c).StationsDir
				if err := stations.SaveLineStations(dir, stations.LineStations(byLine)); err != nil {
					return err
				}
				log.Info().Str("dir", dir).Msg("Saved line stations")
			}
			return nil
		},
	}
}

func buildStationsCommand() *cli.Command {
	return &cli.Command{
		Name:      "build-stations",
		Usage:     "convert a GTFS stops.txt into station name tables",
		ArgsUsage: "<stops.txt>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected path to stops.txt", 2)
			}

			tables, err := stations.BuildFile(c.Args().First())
			if err != nil {
				return err
			}

			dir := loadedConfig(c).StationsDir
			if err := tables.Save(dir); err != nil {
				return err
			}
			log.Info().
				Str("dir", dir).
				Int("names", len(tables.NameToIDs)).
				Int("ids", len(tables.IDToName)).
				Msg("Saved station tables")
			return nil
		},
	}
}

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:      "snapshot",
		Usage:     "fetch a line's feed group and write raw and filtered JSON",
		ArgsUsage: "<line>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "snapshots"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected a line id", 2)
			}
			line := c.Args().First()
			return writeSnapshot(c.Context, loadedConfig(c), lines.Default(), line, c.String("out"))
		},
	}
}

func writeSnapshot(ctx context.Context, cfg config.Config, reg *lines.Registry, line, out string) error {
	group, err := reg.FeedGroup(line)
	if err != nil {
		return err
	}
	route, err := reg.RouteID(line)
	if err != nil {
		return err
	}

	fetcher := feed.NewFetcher(cfg.Feed.BaseURL, cfg.Feed.APIKey, cfg.Feed.Timeout)
	body, err := fetcher.Fetch(ctx, group)
	if err != nil {
		return err
	}
	raw, err := feed.DecodeRaw(body)
	if err != nil {
		return err
	}

	rawPath, err := snapshot.WriteRaw(out, group, raw)
	if err != nil {
		return err
	}

	filtered := arrivals.FilterLine(feed.Normalize(raw), route)
	path, err := snapshot.Write(out, strings.ToLower(line), filtered)
	if err != nil {
		return err
	}

	log.Info().
		Str("raw", rawPath).
		Str("filtered", path).
		Int("entities", len(filtered.Entities)).
		Msg("Wrote snapshot")
	return nil
}
