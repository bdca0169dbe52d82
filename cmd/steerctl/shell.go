package main

import (
	"github.com/spf13/cobra"

	"github.com/robotalks/steerbox/pkg/cli/sh"
	"github.com/robotalks/steerbox/pkg/l1/env/connector"
)

var shellCmd = &cobra.Command{
	Use:   "shell [COMMAND...]",
	Short: "Interactive shell",
	Long: `Run the interactive shell, or a single shell command when specified, e.g.

  steerctl shell --open --link sim:// watch 5`,
	Run: func(cmd *cobra.Command, args []string) {
		s := sh.New(connector.Default(), linkURL)
		s.Box = boxConfig
		s.Run(args...)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
