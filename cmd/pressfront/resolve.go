package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eringen/pressfront"
)

func newResolveCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "resolve <link>",
		Short: "Fetch a link from WordPress and print what it resolves to as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			app := pressfront.New(cfg, pressfront.WithLogger(zap.NewNop()))
			defer app.Close()

			ctx := cmd.Context()
			if err := app.Setup(ctx); err != nil {
				return err
			}
			ctx, cancel := contextWithTimeout(ctx, timeout)
			defer cancel()

			out, err := app.ResolveLink(ctx, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "fetch timeout")
	return cmd
}

func contextWithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
