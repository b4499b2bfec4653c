package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/pressfront"
)

func newPurgeCmd() *cobra.Command {
	var expiredOnly bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Clear the persistent response cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			switch c := cfg.Cache; {
			case c.RedisAddr != "":
				rc, err := pressfront.NewRedisCache(ctx, c.RedisAddr, c.RedisDB, c.RedisTTL)
				if err != nil {
					return err
				}
				defer rc.Close()
				if err := rc.Purge(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged redis %s\n", c.RedisAddr)
			case c.SnapshotPath != "":
				s, err := pressfront.NewSnapshotStore(c.SnapshotPath, c.SnapshotTTL)
				if err != nil {
					return err
				}
				defer s.Close()
				if expiredOnly {
					n, err := s.Prune(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired snapshots\n", n)
					return nil
				}
				if err := s.Purge(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", c.SnapshotPath)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "no persistent cache configured")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired snapshots")
	return cmd
}
