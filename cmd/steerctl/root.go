package main

import (
	"flag"

	"github.com/spf13/cobra"

	"github.com/robotalks/steerbox/pkg/l1/env"
	"github.com/robotalks/steerbox/pkg/l1/env/connector"
	"github.com/robotalks/steerbox/pkg/l1/steerbox"
)

var (
	linkURL   = env.DefaultLinkURL
	boxConfig = steerbox.DefaultConfig
)

var rootCmd = &cobra.Command{
	Use:   "steerctl",
	Short: "Steerbox control tool",
	Long: `steerctl talks to a steerbox directly over a link or to a steerboxd
daemon over MQTT.

Links:
  Serial:    --link serial:///dev/ttyUSB0?baud=115200
  WebSocket: --link ws://localhost:8420/steerbox
  Simulated: --link sim://?drop=0.01`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog expects the go flags parsed
		return flag.CommandLine.Parse(nil)
	},
}

func init() {
	connector.SetupFlags()
	rootCmd.PersistentFlags().StringVarP(&linkURL, "link", "l", linkURL, "Device link URL")
	rootCmd.PersistentFlags().IntVar(&boxConfig.CountsPerRev, "counts-per-rev", boxConfig.CountsPerRev, "Encoder counts per revolution")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}
