// Package main is the entry point for the texforge client CLI.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/texforge/backend/internal/intake"
	"github.com/texforge/backend/internal/submit"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the texforge CLI.
var rootCmd = &cobra.Command{
	Use:   "texforge",
	Short: "Turn resumes into LaTeX source",
	Long: `texforge collects resume documents (images, PDFs, text, HTML, Word),
checks them locally against the accepted types and size limit, and sends the
batch to a TexForge server for conversion to LaTeX.

Files can be given on the command line (convert) or dropped into a watched
directory (watch).`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./texforge.yaml or ~/.config/texforge/config.yaml)")
	flags.String("server", submit.DefaultConfig().BaseURL, "TexForge server base URL")
	flags.Duration("timeout", 3*time.Minute, "timeout for a whole submit")
	flags.Int64("max-size", intake.DefaultMaxSize, "maximum size per file in bytes")
	flags.String("accept", strings.Join(intake.DefaultAcceptedTypes, ","), "comma-separated accepted MIME types")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	for _, name := range []string{"server", "timeout", "max-size", "accept", "verbose"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("texforge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "texforge"))
		}
	}

	viper.SetEnvPrefix("TEXFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger writes text logs to stderr; --verbose lowers the level to debug.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// intakeConfig builds the local upload rules from flags and config.
func intakeConfig() intake.Config {
	cfg := intake.DefaultConfig()
	if size := viper.GetInt64("max-size"); size > 0 {
		cfg.MaxSize = size
	}
	if types := intake.ParseAcceptedTypes(viper.GetString("accept")); len(types) > 0 {
		cfg.AcceptedTypes = types
	}
	return cfg
}

// newSubmitter targets the configured server.
func newSubmitter(logger *slog.Logger) *submit.Submitter {
	cfg := submit.DefaultConfig()
	cfg.BaseURL = strings.TrimRight(viper.GetString("server"), "/")
	client := &http.Client{Timeout: viper.GetDuration("timeout")}
	return submit.New(cfg, client, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
