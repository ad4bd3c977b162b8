package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/campaign-cli/internal/api"
)

var (
	servePort   int
	serveSchema string
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP scoring server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srvCfg := cfg.Server
		if servePort != 0 {
			srvCfg.Port = servePort
		}
		check := *cfg
		check.Server = srvCfg
		if err := check.Validate("serve"); err != nil {
			return err
		}

		p, err := buildPipeline(schemaPath(serveSchema))
		if err != nil {
			return eris.Wrap(err, "serve: load schema")
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", srvCfg.Port),
			Handler:           api.NewRouter(p, srvCfg),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gCtx := errgroup.WithContext(ctx)

		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", srvCfg.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		// Graceful shutdown
		g.Go(func() error {
			<-gCtx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return eris.Wrap(err, "server shutdown")
			}
			return nil
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveSchema, "schema", "", "YAML schema file (default: built-in campaign schema)")
	rootCmd.AddCommand(serveCmd)
}
