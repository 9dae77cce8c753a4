package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adfharrison1/go-arango/pkg/arango"
	"github.com/adfharrison1/go-arango/pkg/domain"
)

func newCollectionsCmd(a *app) *cobra.Command {
	var system bool
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List the collections of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			collections, err := a.db.Collections(cmd.Context(), system)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS")
			for _, c := range collections {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID(), c.Name(), c.ContentType(), c.Status())
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&system, "system", false, "Include system collections")
	return cmd
}

func newCreateCollectionCmd(a *app) *cobra.Command {
	var (
		edge     bool
		volatile bool
		keyType  string
	)
	cmd := &cobra.Command{
		Use:   "create-collection NAME",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &arango.CreateCollectionOptions{IsVolatile: volatile}
			if edge {
				opts.ContentType = domain.EdgeCollection
			}
			if keyType != "" {
				opts.KeyOptions = &arango.KeyOptions{Type: keyType, AllowUserKeys: true}
			}
			c, err := a.db.CreateCollection(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			a.logger.Info("created collection", zap.String("name", c.Name()), zap.String("id", c.ID()))
			fmt.Fprintf(cmd.OutOrStdout(), "created %s collection %s (id %s)\n", c.ContentType(), c.Name(), c.ID())
			return nil
		},
	}
	cmd.Flags().BoolVar(&edge, "edge", false, "Create an edge collection")
	cmd.Flags().BoolVar(&volatile, "volatile", false, "Keep the collection in memory only")
	cmd.Flags().StringVar(&keyType, "key-type", "", "Key generator (traditional or autoincrement)")
	return cmd
}
