package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vinayprograms/resumerag/config"
	"github.com/vinayprograms/resumerag/logging"
)

var (
	cfgFile string
	v       = config.New()
	cfg     *config.Config
	logger  = logging.New()
)

var rootCmd = &cobra.Command{
	Use:           "resumerag",
	Short:         "resumerag ranks resumes against a job description by embedding distance",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.SetLevel(logging.ParseLevel(cfg.LogLevel))
		if cfg.Path != "" {
			logger.Debug("config_loaded", map[string]interface{}{"path": cfg.Path})
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./resumerag.toml)")
	rootCmd.PersistentFlags().String("backend-url", "", "resumerag service address used by client commands")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	bindFlag(rootCmd, "backend_url", "backend-url")
	bindFlag(rootCmd, "log_level", "log-level")

	rootCmd.AddCommand(serveCmd, indexCmd, queryCmd, listCmd)
}

// bindFlag ties a persistent or local flag to a config key. Unset flags do
// not override the file or environment.
func bindFlag(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if f == nil {
		panic(fmt.Sprintf("unknown flag %q", flag))
	}
	_ = v.BindPFlag(key, f)
}
