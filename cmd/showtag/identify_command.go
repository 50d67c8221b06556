package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"showtag/internal/albumtag"
	"showtag/internal/artwork"
	"showtag/internal/match"
	"showtag/internal/resolve"
	"showtag/internal/scan"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify <folder>",
		Short: "Match a recording folder against the catalog without tagging",
		Long: `Identify a single recording folder: compute its audio checksums, match
them against the reference catalog, and show the metadata that a tag run
would write. Nothing on disk is modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			store, err := ctx.openCatalog(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			folder, err := scan.ReadFolder(args[0])
			if err != nil {
				return fmt.Errorf("read folder: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Folder:  %s\n", folder.Name)
			fmt.Fprintf(out, "Audio:   %d files, %d checksums\n", len(folder.Audio), len(folder.Checksums()))

			result, err := match.NewMatcher(store, logger).Match(cmd.Context(), folder)
			if err != nil {
				return err
			}
			switch result.Status {
			case match.StatusUnmatched:
				fmt.Fprintln(out, "Match:   no catalog recording with this checksum set")
				return nil
			case match.StatusAmbiguous:
				fmt.Fprintf(out, "Match:   ambiguous, %d checksum files share this set\n", len(result.Candidates))
				for _, candidate := range result.Candidates {
					fmt.Fprintf(out, "         shnid %d (%s)\n", candidate.Shnid, candidate.Label)
				}
				return nil
			}

			resolution, err := resolve.NewResolver(store, cfg.Preferences, logger).Resolve(cmd.Context(), folder, result.Shnid)
			if err != nil {
				return err
			}
			show := resolution.Show

			fmt.Fprintf(out, "Match:   shnid %d\n", show.Shnid)
			fmt.Fprintf(out, "Artist:  %s\n", show.ArtistName)
			fmt.Fprintf(out, "Date:    %s\n", show.Date)
			if show.Venue != "" || show.City != "" {
				fmt.Fprintf(out, "Where:   %s, %s\n", show.Venue, show.City)
			}
			fmt.Fprintf(out, "Source:  %s metadata\n", resolution.Source)

			components := albumtag.Components{
				ShowDate: show.Date,
				City:     show.City,
				Venue:    show.Venue,
				Type:     folder.Type,
				Shnid:    show.Shnid,
			}
			for _, audio := range folder.Audio {
				if audio.Stream.BitsPerSample > components.BitDepth {
					components.BitDepth = audio.Stream.BitsPerSample
					components.SampleRate = audio.Stream.SampleRate
				}
			}
			fmt.Fprintf(out, "Album:   %s\n", albumtag.New(cfg.AlbumTag, cfg.Preferences, logger).Album(components))

			abbrev := show.ArtistAbbrev
			if abbrev == "" {
				abbrev = folder.ArtistAbbrev
			}
			if imagePath, artErr := artwork.NewResolver(cfg.Cover).Resolve(abbrev, show.Date); artErr != nil {
				fmt.Fprintf(out, "Artwork: %v\n", artErr)
			} else if imagePath != "" {
				fmt.Fprintf(out, "Artwork: %s\n", imagePath)
			}

			rows := make([][]string, 0, len(resolution.Tracks))
			for i, track := range resolution.Tracks {
				title := track.Title
				if track.Gazinta {
					title += " " + cfg.Preferences.SegueString
				}
				rows = append(rows, []string{
					strconv.Itoa(track.Disc),
					strconv.Itoa(track.Number),
					title,
					folder.Audio[i].Name,
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"DISC", "TRACK", "TITLE", "FILE"}, rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft}))
			return nil
		},
	}
	return cmd
}
