package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/credentialguard/internal/config"
	"github.com/sells-group/credentialguard/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the provider lookup API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env := initLookup(cfg, cfg.Metrics.Enabled)
		srv := newHTTPServer(cfg, env)

		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			return eris.Wrap(err, "server listen")
		}

		zap.L().Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("failure_mode", cfg.Server.FailureMode),
			zap.Strings("cors_origins", cfg.CORS.Origins()),
		)
		return serveUntilDone(ctx, srv, ln, cfg.Server.ShutdownTimeout())
	},
}

// newHTTPServer builds the http.Server for the lookup API.
func newHTTPServer(c *config.Config, env *lookupEnv) *http.Server {
	opts := server.Options{
		Service:     env.Service,
		FailureMode: c.Server.FailureMode,
		CORS:        c.CORS,
		MetricsPath: c.Metrics.Path,
	}
	if env.Metrics != nil {
		opts.Metrics = env.Metrics
	}

	return &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", c.Server.Port),
		Handler:           server.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       c.Server.ReadTimeout(),
		WriteTimeout:      c.Server.WriteTimeout(),
	}
}

// serveUntilDone serves on ln until ctx is cancelled, then shuts down
// gracefully within timeout.
func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server serve")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")

		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server shutdown")
		}
		return nil
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
