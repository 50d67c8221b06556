package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Reference catalog utilities",
	}

	catalogCmd.AddCommand(newCatalogBootstrapCommand(ctx))
	catalogCmd.AddCommand(newCatalogInfoCommand(ctx))

	return catalogCmd
}

func newCatalogBootstrapCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap [snapshot-dir]",
		Short: "Seed an empty catalog from CSV snapshots",
		Long: `Load the catalog database from a directory of CSV snapshot files
(artists.csv, shows.csv, checksum_files.csv, signatures.csv, tracks.csv).
A catalog that already holds shows is left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			dir := strings.TrimSpace(cfg.Catalog.SnapshotDir)
			if len(args) > 0 {
				dir = strings.TrimSpace(args[0])
			}
			if dir == "" {
				return fmt.Errorf("no snapshot directory given and none configured under [catalog]")
			}
			cfg.Catalog.SnapshotDir = ""

			store, err := ctx.openCatalog(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Bootstrap(cmd.Context(), dir); err != nil {
				return fmt.Errorf("bootstrap catalog: %w", err)
			}

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog at %s holds %d shows from %d artists\n",
				store.Path(), stats.Shows, stats.Artists)
			return nil
		},
	}
}

func newCatalogInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show catalog contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			store, err := ctx.openCatalog(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database:       %s\n", store.Path())
			fmt.Fprintf(out, "Artists:        %d\n", stats.Artists)
			fmt.Fprintf(out, "Shows:          %d\n", stats.Shows)
			fmt.Fprintf(out, "Checksum files: %d\n", stats.ChecksumFiles)
			fmt.Fprintf(out, "Signatures:     %d\n", stats.Signatures)
			fmt.Fprintf(out, "Tracks:         %d\n", stats.Tracks)
			return nil
		},
	}
}
