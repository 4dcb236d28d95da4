package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/evanshandler/jukebox/internal/formatter"
	"github.com/evanshandler/jukebox/internal/repositories"
	"github.com/evanshandler/jukebox/internal/shared"
)

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog or a playlist to CSV, Markdown, text or JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Name of the playlist to export (omit for the whole catalog)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: csv, markdown, text or json",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (file for csv/text, directory for markdown)",
			},
		},
		Action: r.Export,
	}
}

// Export writes the catalog or one playlist in the requested format.
//
// Whole-catalog exports go to stdout; playlist exports go to files named
// after the playlist unless --output overrides them.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	format := cmd.String("format")
	playlistName := cmd.String("playlist")

	if playlistName == "" {
		return r.exportCatalog(db, format)
	}

	return r.exportPlaylist(db, playlistName, format, cmd.String("output"))
}

func (r *Runner) exportCatalog(db *sql.DB, format string) error {
	songs, err := repositories.NewSongRepository(db).List(nil)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	switch format {
	case "csv":
		data, err := formatter.ExportToCSV(songs)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case "json":
		catalog := make([]map[string]string, len(songs))
		for i, song := range songs {
			catalog[i] = map[string]string{
				"id":     song.ID(),
				"name":   song.Name(),
				"artist": song.Artist(),
			}
		}
		return r.writeJSON(catalog, true)
	default:
		return fmt.Errorf("%w: catalog export supports csv and json, got %q", shared.ErrInvalidFlag, format)
	}
}

func (r *Runner) exportPlaylist(db *sql.DB, name, format, output string) error {
	playlists := repositories.NewPlaylistRepository(db)
	playlistSongs := repositories.NewPlaylistSongRepository(db)

	matches, err := playlists.List(map[string]any{"name": name})
	if err != nil {
		return fmt.Errorf("failed to look up playlist: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("%w: playlist %q", shared.ErrNotFound, name)
	}

	playlist := matches[0]
	songs, err := playlistSongs.ListSongs(playlist.ID())
	if err != nil {
		return fmt.Errorf("failed to list playlist songs: %w", err)
	}

	export := &formatter.PlaylistExport{Playlist: playlist, Songs: songs}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("Wrote %s and %s\n", result.SongsFile, result.MetadataFile)
	case "markdown":
		file, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("Wrote %s\n", file)
	case "text":
		file, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("Wrote %s\n", file)
	case "json":
		data, err := formatter.ToMetadataJSON(playlist)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", data)
	default:
		return fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidFlag, format)
	}

	return nil
}
