package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Bitlatte/mosaic/internal/config"
	"github.com/Bitlatte/mosaic/internal/logging"
	"github.com/Bitlatte/mosaic/internal/site"
	"github.com/Bitlatte/mosaic/internal/store"
)

var cfgFile string
var verbose bool
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "mosaic",
	Short: "mosaic - layouts and display menus for Markdown sites",
	Long: `mosaic serves a tree of Markdown content and lets editors pick how each
folder or page is displayed. Paths ending in ++layout++<name> or
++contentlayout++<name> render the named layout for that content item.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return err
		}
		return initializeLogger(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initializeConfig(_ *cobra.Command) error {
	v := viper.New()

	for key, value := range config.Defaults {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("MOSAIC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				return fmt.Errorf("config file %s not found: %w", cfgFile, err)
			}
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return nil
}

func initializeLogger(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(appConfig.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid logLevel %q: %w", appConfig.LogLevel, err)
	}
	if verbose {
		level = log.DebugLevel
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, logging.New(cmd.ErrOrStderr(), level)))
	return nil
}

// openSite opens the selection store and loads the site. The returned
// function closes the store.
func openSite(ctx context.Context, cfg config.Config) (*site.Site, func() error, error) {
	logger := logging.FromContext(ctx)
	noop := func() error { return nil }

	if cfg.Database == "" {
		st, err := site.Load(ctx, cfg, nil, logger)
		return st, noop, err
	}

	sel, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, noop, err
	}
	st, err := site.Load(ctx, cfg, sel, logger)
	if err != nil {
		sel.Close()
		return nil, noop, err
	}
	return st, sel.Close, nil
}
