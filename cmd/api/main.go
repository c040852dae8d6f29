package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tomlord1122/todo-tracker/internal/config"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Personal todo tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (yaml, json or toml)")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	serve := newServeCmd(load)
	root.AddCommand(serve, newMigrateCmd(load))
	// Running the binary with no subcommand serves.
	root.RunE = serve.RunE

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
