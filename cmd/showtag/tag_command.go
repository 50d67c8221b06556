package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"showtag/internal/tagging"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	var parentFolder bool
	var clearTags bool
	var databasePath string
	var workers int

	cmd := &cobra.Command{
		Use:   "tag <folder>...",
		Short: "Identify and tag recording folders",
		Long: `Match each folder's FLAC audio checksums against the reference catalog
and write the resulting tags and artwork. With --parent-folder the
arguments are treated as directories to search for recording folders.
Folders that cannot be matched unambiguously are left untouched and
reported for review.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if workers > 0 {
				cfg.Workflow.Workers = workers
			}
			if databasePath != "" {
				cfg.Catalog.Path = databasePath
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

			var opts []tagging.Option
			if clearTags {
				opts = append(opts, tagging.WithClearTags())
			}
			pipeline := tagging.New(cfg, store, logger, opts...)

			var outcomes []tagging.Outcome
			if parentFolder {
				for _, root := range args {
					batch, err := pipeline.Run(cmd.Context(), root)
					if err != nil {
						return err
					}
					outcomes = append(outcomes, batch...)
				}
			} else {
				outcomes = pipeline.RunFolders(cmd.Context(), args)
			}

			out := cmd.OutOrStdout()
			if len(outcomes) == 0 {
				fmt.Fprintln(out, "No recording folders found")
				return nil
			}

			printOutcomes(out, outcomes)

			untagged := 0
			for _, outcome := range outcomes {
				if outcome.Status != tagging.StatusTagged {
					untagged++
				}
			}
			fmt.Fprintf(out, "\nTagged %d of %d folders\n", len(outcomes)-untagged, len(outcomes))
			if untagged > 0 {
				return fmt.Errorf("%d of %d folders not tagged", untagged, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&parentFolder, "parent-folder", false, "Treat arguments as directories to search for recording folders")
	cmd.Flags().BoolVar(&clearTags, "clear-tags", false, "Remove existing tags before writing")
	cmd.Flags().StringVar(&databasePath, "database", "", "Catalog database path (overrides configuration)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent folders to process (0 uses the configured value)")
	return cmd
}

func outcomeRow(outcome tagging.Outcome) []string {
	shnid := ""
	if outcome.Shnid > 0 {
		shnid = strconv.FormatInt(outcome.Shnid, 10)
	}
	detail := outcome.Album
	if outcome.Err != nil {
		detail = outcome.Err.Error()
	}
	return []string{
		outcome.Folder,
		string(outcome.Status),
		shnid,
		string(outcome.Source),
		strconv.Itoa(outcome.TracksTagged),
		detail,
	}
}
