package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eringen/pressfront"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			app := pressfront.New(cfg)
			defer app.Close()
			if err := app.Setup(cmd.Context()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- app.Start() }()

			select {
			case err := <-errc:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			app.Log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Shutdown(shutdownCtx); err != nil {
				app.Log.Error("shutdown", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides settings")
	return cmd
}

func loadSettings(cmd *cobra.Command) (pressfront.SiteConfig, error) {
	path, err := cmd.Flags().GetString("settings")
	if err != nil {
		return pressfront.SiteConfig{}, err
	}
	return pressfront.LoadSettings(path)
}
