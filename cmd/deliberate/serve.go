package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/deliberate/deliberate/internal/api"
	"github.com/deliberate/deliberate/internal/events"
	"github.com/deliberate/deliberate/internal/mcptools"
)

func newServeCmd(g *globalOpts) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API for a local UI",
		Long: `Starts an HTTP server on localhost over the configured archive. A UI
running on another port can use it directly; CORS is enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Request logs are the point of running a server.
			g.verbose = true
			return withApp(ctx, g, func(a *app) error {
				addr := "localhost:" + firstNonEmpty(port, strconv.Itoa(a.cfg.Server.Port))
				srv := &http.Server{
					Addr:              addr,
					Handler:           api.NewRouter(a.svc, api.RouterConfig{APIKey: a.cfg.Server.APIKey}, a.logger),
					ReadHeaderTimeout: 10 * time.Second,
				}

				fmt.Fprintf(os.Stderr, "Deliberate API server\n")
				fmt.Fprintf(os.Stderr, "  Archive:    %s\n", a.cfg.Archive.Backend)
				fmt.Fprintf(os.Stderr, "  Listening:  http://%s/api/v1\n", addr)

				errCh := make(chan error, 1)
				go func() { errCh <- srv.ListenAndServe() }()

				select {
				case err := <-errCh:
					if !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				case <-ctx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Port to serve on (default: server.port from config)")
	return cmd
}

func newMCPCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve deliberation tools to an MCP client over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), g, func(a *app) error {
				return server.ServeStdio(mcptools.NewServer(a.svc, version))
			})
		},
	}
}

func newWatchCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print archive change events from NATS",
		Long:  `Subscribes to the events published by every writer sharing the configured NATS server.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			if cfg.Events.NATSURL == "" {
				return errors.New("events.nats_url is not configured")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sub, err := events.NewNATSPublisher(ctx, cfg.Events.NATSURL, newLogger(cfg, g.verbose))
			if err != nil {
				return err
			}
			defer sub.Close()

			out := cmd.OutOrStdout()
			err = sub.Subscribe(events.SubjectAll, func(e events.Event) {
				if g.output == "json" {
					_ = writeJSON(out, e)
					return
				}
				fmt.Fprintln(out, formatEvent(e))
			})
			if err != nil {
				return fmt.Errorf("subscribe: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Watching %s on %s\n", events.SubjectAll, cfg.Events.NATSURL)
			<-ctx.Done()
			return nil
		},
	}
}

func formatEvent(e events.Event) string {
	at := e.At.Local().Format("15:04:05")
	if e.Type == events.TypeCleared {
		return fmt.Sprintf("%s  cleared  archive", at)
	}
	return fmt.Sprintf("%s  %-8s %s (%s)", at, e.Type, e.Name, shortID(e.DeliberationID))
}
