package main

import (
	"context"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openshift/videa/pkg/ai"
	"github.com/openshift/videa/pkg/cache/compressed"
	"github.com/openshift/videa/pkg/catalog"
	"github.com/openshift/videa/pkg/conversation"
	"github.com/openshift/videa/pkg/flags"
	"github.com/openshift/videa/pkg/mcp"
	"github.com/openshift/videa/pkg/mcp/tools"
	"github.com/openshift/videa/pkg/videaserver"
	"github.com/openshift/videa/pkg/videaserver/metrics"
)

const metricsRefreshInterval = 5 * time.Minute

type ServerFlags struct {
	APIFlags   *flags.APIFlags
	AIFlags    *flags.AIFlags
	CacheFlags *flags.CacheFlags
	DBFlags    *flags.PostgresFlags
	EventFlags *flags.EventFlags
}

func NewServerFlags() *ServerFlags {
	return &ServerFlags{
		APIFlags:   flags.NewAPIFlags(),
		AIFlags:    flags.NewAIFlags(),
		CacheFlags: flags.NewCacheFlags(),
		DBFlags:    flags.NewPostgresDatabaseFlags(),
		EventFlags: flags.NewEventFlags(),
	}
}

func (f *ServerFlags) BindFlags(flagSet *pflag.FlagSet) {
	f.APIFlags.BindFlags(flagSet)
	f.AIFlags.BindFlags(flagSet)
	f.CacheFlags.BindFlags(flagSet)
	f.DBFlags.BindFlags(flagSet)
	f.EventFlags.BindFlags(flagSet)
}

func (f *ServerFlags) Validate() error {
	return f.AIFlags.Validate()
}

func NewServeCommand() *cobra.Command {
	f := NewServerFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				return errors.WithMessage(err, "error validating options")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			dbc, err := f.DBFlags.GetDBClient()
			if err != nil {
				return errors.WithMessage(err, "couldn't get DB client")
			}

			dbReader := catalog.NewDBReader(dbc)
			personas, err := dbReader.ListPersonas(ctx)
			if err != nil {
				return errors.WithMessage(err, "error querying personas, database may need to be initialized with seed-data --init-database")
			}
			if len(personas) == 0 {
				log.Warn("no personas loaded, run seed-data before serving")
			}

			var reader catalog.Reader = dbReader
			cacheClient, err := f.CacheFlags.GetCacheClient()
			if err != nil {
				return errors.WithMessage(err, "couldn't get cache client")
			}
			if cacheClient != nil {
				reader = catalog.NewCached(dbReader, compressed.NewCompressedCache(cacheClient))
			}

			completer, err := f.AIFlags.GetCompleter(ctx)
			if err != nil {
				return errors.WithMessage(err, "couldn't get completion client")
			}
			advisor := ai.NewAdvisor(completer)
			if !advisor.Available() {
				log.Warn("no completion service, conversations will use fallback questions and rule based matching")
			}

			publisher, err := f.EventFlags.GetPublisher()
			if err != nil {
				return errors.WithMessage(err, "couldn't connect to event broker")
			}
			if closer, ok := publisher.(io.Closer); ok {
				defer closer.Close()
			}

			manager := conversation.NewManager(conversation.NewDBStore(dbc), reader, advisor, publisher)
			server := videaserver.NewServer(f.APIFlags.ListenAddr, dbc, manager, reader, advisor.Available())

			if f.APIFlags.EnableMCP {
				mcpServer := mcp.NewMCPServer(ctx, server.GetHTTPServer(), &tools.ToolDependencies{
					DBClient:    dbc,
					Catalog:     reader,
					Manager:     manager,
					CacheClient: cacheClient,
					AIEnabled:   advisor.Available(),
				})
				server.SetMCPHandler(mcpServer.Handler())
			}

			if f.APIFlags.MetricsAddr != "" {
				startMetrics(ctx, f.APIFlags.MetricsAddr, func() {
					if err := metrics.RefreshMetricsDB(ctx, dbc); err != nil {
						log.WithError(err).Error("error refreshing metrics")
					}
				})
			}

			go func() {
				<-ctx.Done()
				log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					log.WithError(err).Error("error shutting down server")
				}
			}()

			return server.Serve()
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}

// startMetrics serves /metrics on its own address and runs refresh now and on every tick
// until ctx is done.
func startMetrics(ctx context.Context, addr string, refresh func()) {
	refresh()

	go func() {
		ticker := time.NewTicker(metricsRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				refresh()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		log.Infof("Serving prometheus metrics on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server failed")
		}
	}()
}
