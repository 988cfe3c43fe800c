package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zhouzirui/billboard/backend/internal/admin"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Watch stored food preferences",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		viewer := admin.NewViewer(newClient(), cmd.OutOrStdout(), viper.GetDuration("refresh"), newLogger())
		if err := viewer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	adminCmd.Flags().Duration("refresh", 0, "refresh interval (default 30s)")
	_ = viper.BindPFlag("refresh", adminCmd.Flags().Lookup("refresh"))
}
