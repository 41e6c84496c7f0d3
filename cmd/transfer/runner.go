package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

// Runner executes CLI commands against the transfer service.
type Runner struct {
	service ports.TransferService
	out     io.Writer
	logger  logrus.FieldLogger
}

func NewRunner(service ports.TransferService, out io.Writer, logger logrus.FieldLogger) *Runner {
	return &Runner{service: service, out: out, logger: logger}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{runCommand(r), historyCommand(r)}
}

func runCommand(r *Runner) *cli.Command {
	defaults := domain.DefaultTransferOptions()
	return &cli.Command{
		Name:  "run",
		Usage: "Transfer one playlist and print the summary",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "playlist", Aliases: []string{"p"}, Usage: "Source playlist id", Required: true},
			&cli.StringFlag{Name: "source-token", Usage: "Source access token", Sources: cli.EnvVars("SOURCE_TOKEN"), Required: true},
			&cli.StringFlag{Name: "dest-token", Usage: "Destination access token", Sources: cli.EnvVars("DEST_TOKEN"), Required: true},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Name of the new playlist", Required: true},
			&cli.StringFlag{Name: "description", Usage: "Description of the new playlist"},
			&cli.StringFlag{Name: "source", Usage: "Source provider", Value: "spotify"},
			&cli.StringFlag{Name: "dest", Usage: "Destination provider", Value: "youtube"},
			&cli.StringFlag{Name: "user", Usage: "User id recorded with the transfer"},
			&cli.BoolFlag{Name: "public", Usage: "Make the new playlist public"},
			&cli.FloatFlag{Name: "min-confidence", Usage: "Minimum match score", Value: defaults.MinMatchConfidence},
			&cli.IntFlag{Name: "limit", Usage: "Search results per query", Value: defaults.SearchResultLimit},
			&cli.BoolFlag{Name: "use-album", Usage: "Include the album in search queries"},
			&cli.BoolFlag{Name: "no-artist", Usage: "Leave the artist out of search queries"},
			&cli.BoolFlag{Name: "keep-duplicates", Usage: "Transfer repeated source tracks"},
			&cli.BoolFlag{Name: "json", Usage: "Print the full result as JSON"},
		},
		Action: r.Run,
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List past transfers, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Usage: "Only transfers recorded for this user"},
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "page-size", Value: 20},
		},
		Action: r.History,
	}
}

// Run starts a transfer and waits for it to finish.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	opts := domain.DefaultTransferOptions()
	opts.MinMatchConfidence = cmd.Float("min-confidence")
	opts.SearchResultLimit = cmd.Int("limit")
	opts.UseAlbumInSearch = cmd.Bool("use-album")
	opts.UseArtistInSearch = !cmd.Bool("no-artist")
	opts.SkipDuplicates = !cmd.Bool("keep-duplicates")

	req := domain.TransferRequest{
		SourceProvider:      cmd.String("source"),
		DestProvider:        cmd.String("dest"),
		SourcePlaylistID:    cmd.String("playlist"),
		SourceToken:         cmd.String("source-token"),
		DestToken:           cmd.String("dest-token"),
		NewPlaylistName:     cmd.String("name"),
		PlaylistDescription: cmd.String("description"),
		MakePublic:          cmd.Bool("public"),
		UserID:              cmd.String("user"),
		Options:             &opts,
	}

	r.logger.WithField("playlist", req.SourcePlaylistID).Info("starting transfer")
	result := r.service.StartTransfer(ctx, req)

	if cmd.Bool("json") {
		if err := r.writeJSON(result); err != nil {
			return err
		}
	} else {
		r.printResult(result)
	}

	if result.Status == domain.TransferStatusFailed {
		return errors.New(result.Message)
	}
	return nil
}

// History prints one page of past transfers.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	results, err := r.service.ListTransfers(ctx, cmd.String("user"), cmd.Int("page"), cmd.Int("page-size"))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		r.writePlain("No transfers found.\n")
		return nil
	}
	for _, res := range results {
		r.writePlain("%s  %-11s  %3d/%-3d  %s -> %s  %s\n",
			res.StartedAt.Format("2006-01-02 15:04"),
			res.Status,
			res.Statistics.SuccessfulTracks,
			res.Statistics.TotalTracks,
			res.Statistics.OriginalPlaylistName,
			res.Statistics.NewPlaylistName,
			res.TransferID,
		)
	}
	return nil
}

func (r *Runner) printResult(res *domain.TransferResult) {
	stats := res.Statistics
	r.writePlain("%s\n", res.Message)
	if res.ErrorDetails != "" {
		r.writePlain("Error: %s\n", res.ErrorDetails)
	}
	if stats.OriginalPlaylistName != "" {
		r.writePlain("Source: %s (%d tracks)\n", stats.OriginalPlaylistName, stats.TotalTracks)
	}
	if res.DestPlaylistURL != "" {
		r.writePlain("Destination: %s\n", res.DestPlaylistURL)
	}
	if stats.TotalTracks > 0 {
		r.writePlain("Success rate: %d/%d (%.1f%%)\n", stats.SuccessfulTracks, stats.TotalTracks, stats.SuccessRate())
	}

	if len(res.FailedTracks) > 0 {
		r.writePlain("\nFailed tracks:\n")
		for _, f := range res.FailedTracks {
			r.writePlain("  - %s - %s: %s\n", f.Artist, f.TrackName, f.FailureReason)
		}
	}
}

func (r *Runner) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Runner) writePlain(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
