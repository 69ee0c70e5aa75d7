package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/nativepass"
	"github.com/gogpu/nativepass/internal/gpuprobe"
	"github.com/gogpu/nativepass/plugin/sample"
)

// NewRootCommand creates the nativepassdemo command tree.
func NewRootCommand(version, commit, date string) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "nativepassdemo",
		Short: "Drive a render pipeline with a native plugin pass",
		Long: `nativepassdemo builds a render pipeline, links the sample native
plugin into it and renders frames. Each frame the plugin pass hands the
plugin's render event to the host, which draws a rotating triangle after
the opaque geometry.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			l := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			nativepass.SetLogger(l)
			sample.SetLogger(l)
			gpuprobe.SetLogger(l)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log per-frame detail")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newDevicesCommand())

	return rootCmd
}
