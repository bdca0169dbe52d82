package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/robotalks/steerbox/pkg/framework"
	"github.com/robotalks/steerbox/pkg/l0/comm"
	"github.com/robotalks/steerbox/pkg/l0/link"
)

var logGap = comm.DefaultFrameGap

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the frames sent by the device",
	Long: `Decode and print the frames on the link without sending commands.

The device stops after its first frame until it receives a command, so this
is mostly useful on a tapped line or while another host drives the box.`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().DurationVar(&logGap, "gap", logGap, "Quiet time dropping a partial frame")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	conn, err := link.Open(linkURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	fmt.Printf("Logging %s, press Ctrl+C to exit\n", linkURL)

	runner := framework.NewRunner().HandleSignals()
	mon := comm.NewMonitor(conn)
	mon.Gap = logGap
	runner.Go(framework.NamedRun("monitor", framework.RunFunc(func(ctx context.Context) error {
		return framework.RunWithContextCloser(ctx, conn, func() error {
			err := mon.Run(ctx, printFrame)
			if err == io.EOF {
				return nil
			}
			return err
		})
	})))
	return runner.Wait()
}

func printFrame(pr comm.ParseResult) {
	ts := time.Now().Format("15:04:05.000")
	if pr.Frame != nil {
		fmt.Printf("%s %s\n", ts, pr.Frame)
		return
	}
	fmt.Printf("%s dropped %d bytes\n", ts, pr.Dropped)
}
