package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zhouzirui/billboard/backend/internal/logger"
	"github.com/zhouzirui/billboard/backend/internal/session"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Smart billboard terminal client",
	Long: `Terminal client for the smart billboard backend.

  kiosk chat    greet the visitor and hold a conversation
  kiosk admin   watch the stored food preferences`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.billboard-kiosk.yaml)")
	flags.StringP("server", "s", "", "backend address (default: http://localhost:8080)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Duration("timeout", 0, "HTTP timeout for backend calls")

	_ = viper.BindPFlag("server", flags.Lookup("server"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))

	rootCmd.AddCommand(chatCmd, adminCmd)
}

func initConfig() {
	viper.SetDefault("server", "http://localhost:8080")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("refresh", 30*time.Second)

	viper.SetEnvPrefix("KIOSK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".billboard-kiosk")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
			os.Exit(1)
		}
	}
}

func newLogger() *slog.Logger {
	return slog.New(logger.NewHandler(os.Stderr, &logger.Options{
		Level:      logger.ParseLevel(viper.GetString("log_level")),
		TimeFormat: time.TimeOnly,
	}))
}

func newClient() *session.Client {
	return session.NewClient(viper.GetString("server"), viper.GetDuration("timeout"))
}
