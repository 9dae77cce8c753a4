package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/adfharrison1/go-arango/pkg/arango"
	"github.com/adfharrison1/go-arango/pkg/arangotest"
	"github.com/adfharrison1/go-arango/pkg/dump"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		archives []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory ArangoDB stand-in for local development",
		Long: `serve answers the subset of the ArangoDB REST API this client uses,
keeping everything in memory. Archives passed with --load are restored
on start. Data is lost on shutdown; dump what you want to keep.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", addr, err)
			}
			return a.serve(cmd.Context(), ln, archives)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8529", "Listen address")
	cmd.Flags().StringArrayVar(&archives, "load", nil, "Archive to restore on start, may be repeated")
	return cmd
}

// serve runs the fake on ln until ctx is done, then shuts it down gracefully
func (a *app) serve(ctx context.Context, ln net.Listener, archives []string) error {
	fake := arangotest.NewUnstartedServer(arangotest.WithLogger(a.logger), arangotest.WithoutRecording())
	httpServer := &http.Server{
		Handler:           fake.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	served := make(chan error, 1)
	go func() {
		served <- httpServer.Serve(ln)
	}()
	endpoint := "http://" + ln.Addr().String()
	a.logger.Info("serving in-memory database", zap.String("url", endpoint))

	if err := a.loadArchives(ctx, endpoint, archives); err != nil {
		_ = httpServer.Close()
		return err
	}

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.logger.Info("server exited")
	return nil
}

func (a *app) loadArchives(ctx context.Context, endpoint string, archives []string) error {
	if len(archives) == 0 {
		return nil
	}
	db, err := arango.NewDatabase(arango.WithURL(endpoint), arango.WithLogger(a.logger))
	if err != nil {
		return err
	}
	for _, path := range archives {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		n, err := dump.Import(ctx, db, file)
		file.Close()
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		a.logger.Info("loaded archive", zap.String("file", path), zap.Int("documents", n))
	}
	return nil
}
