package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adfharrison1/go-arango/pkg/dump"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		output    string
		batchSize int
	)
	cmd := &cobra.Command{
		Use:   "dump COLLECTION",
		Short: "Export a collection into an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if output == "" {
				output = args[0] + dump.FileExtension
			}
			c, err := a.db.Collection(ctx, args[0])
			if err != nil {
				return err
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create file: %w", err)
			}
			defer file.Close()

			n, err := dump.Export(ctx, c, file, &dump.ExportOptions{BatchSize: batchSize})
			if err != nil {
				return err
			}
			a.logger.Info("dumped collection", zap.String("collection", c.Name()), zap.Int("documents", n), zap.String("file", output))
			fmt.Fprintf(cmd.OutOrStdout(), "dumped %d documents of %s to %s\n", n, c.Name(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Archive path (default COLLECTION"+dump.FileExtension+")")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Documents per round trip")
	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE",
		Short: "Restore a collection from an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			defer file.Close()

			n, err := dump.Import(cmd.Context(), a.db, file)
			if err != nil {
				return err
			}
			a.logger.Info("restored archive", zap.String("file", args[0]), zap.Int("documents", n))
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d documents from %s\n", n, args[0])
			return nil
		},
	}
}
