package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"wyweb/internal/config"
	"wyweb/internal/trace"
	"wyweb/internal/version"
)

// app holds what PersistentPreRunE prepared for the subcommands.
var app struct {
	cfg    *config.Config
	log    *zap.Logger
	tracer trace.Tracer
}

var rootCmd = &cobra.Command{
	Use:           "wyweb",
	Short:         "Wy compiler service",
	Long:          `wyweb compiles Wy programs to JavaScript, optionally verifying them first`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := cfg.Log.NewLogger()
		if err != nil {
			return err
		}
		app.cfg, app.log = cfg, log
		applyColor(cmd)
		return setupTracing(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.tracer != nil {
			_ = app.tracer.Close()
		}
		if app.log != nil {
			_ = app.log.Sync()
		}
	},
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(versionCmd)

	// глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default "+config.DefaultFile+" if present)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-format", "", "log format (json|console)")
	pf.String("library", "", "library bundle file")
	pf.String("trace", "", "trace output file (- for stderr); empty traces into the log")
	pf.String("trace-level", "", "trace level (off|request|rule|debug)")
	pf.String("trace-mode", "", "trace mode (log|stream|ring)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !isSilent(err) {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	pf := cmd.Root().PersistentFlags()
	path, _ := pf.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	overrides := []struct {
		flag string
		dst  *string
	}{
		{"log-level", &cfg.Log.Level},
		{"log-format", &cfg.Log.Format},
		{"library", &cfg.Compiler.Library},
		{"trace", &cfg.Trace.Output},
		{"trace-level", &cfg.Trace.Level},
		{"trace-mode", &cfg.Trace.Mode},
	}
	for _, o := range overrides {
		if pf.Changed(o.flag) {
			*o.dst, _ = pf.GetString(o.flag)
		}
	}
	if cmd.Flags().Lookup("addr") != nil && cmd.Flags().Changed("addr") {
		cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

func applyColor(cmd *cobra.Command) {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// silentError ends the process with status 1 after output was already
// written.
type silentError struct{ error }

func isSilent(err error) bool {
	_, ok := err.(silentError)
	return ok
}
