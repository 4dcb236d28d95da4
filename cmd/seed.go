package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/evanshandler/jukebox/internal/models"
	"github.com/evanshandler/jukebox/internal/repositories"
	"github.com/evanshandler/jukebox/internal/shared"
)

// starterCatalog is the demo catalog installed by the seed command.
var starterCatalog = []struct {
	name   string
	artist string
}{
	{"Jumpman", "Drake"},
	{"Location", "Khalid"},
	{"Bohemian Rhapsody", "Queen"},
	{"Redbone", "Childish Gambino"},
	{"Dreams", "Fleetwood Mac"},
	{"Tiny Dancer", "Elton John"},
}

func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Populate the catalog with a starter set of songs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Seed,
	}
}

// Seed inserts the starter catalog, skipping songs already present.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	songs := repositories.NewSongRepository(db)

	created := 0
	for _, entry := range starterCatalog {
		if _, exists, err := songs.FindByName(entry.name); err != nil {
			return fmt.Errorf("failed to check for %q: %w", entry.name, err)
		} else if exists {
			r.logger.Debug("song already present", "name", entry.name)
			continue
		}

		song := models.NewSong(0, entry.name, entry.artist)
		if err := songs.Create(song); err != nil {
			return fmt.Errorf("failed to seed %q: %w", entry.name, err)
		}

		r.logger.Info("seeded song", "name", entry.name, "artist", entry.artist)
		created++
	}

	r.writePlain("Seeded %d songs (%d already present)\n", created, len(starterCatalog)-created)
	return nil
}
