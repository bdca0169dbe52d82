package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robotalks/steerbox/pkg/cli/sh"
	"github.com/robotalks/steerbox/pkg/framework"
	"github.com/robotalks/steerbox/pkg/l1/steerbox"
)

var (
	allowPowerUp bool

	centerSpeed     = 0.2
	centerDv        = 0.05
	centerTolerance = 0.1
)

var ackCmd = &cobra.Command{
	Use:   "ack",
	Short: "Resynchronize with the device and acknowledge its error",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := framework.NewRunner()
		defer runner.Stop()
		box, err := openBox(runner)
		if err != nil {
			return err
		}
		defer box.Close()
		if err := box.Reset(allowPowerUp); err != nil {
			return err
		}
		fmt.Println(box.Last().Response)
		return nil
	},
}

var centerCmd = &cobra.Command{
	Use:   "center [GOAL]",
	Short: "Move the wheel to a position, in revolutions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var goal float64
		if len(args) > 0 {
			if _, err := fmt.Sscanf(args[0], "%g", &goal); err != nil {
				return fmt.Errorf("invalid GOAL %q: %v", args[0], err)
			}
		}
		runner := framework.NewRunner().HandleSignals()
		defer runner.Stop()
		box, err := openBox(runner)
		if err != nil {
			return err
		}
		defer box.Close()
		if err := box.Reset(allowPowerUp); err != nil {
			return err
		}
		r, err := box.MoveTo(runner.Context, goal, centerSpeed, centerDv, centerTolerance)
		if err != nil {
			return err
		}
		fmt.Printf("%+.4f rev  %s\n", r.Position, r.Response)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{ackCmd, centerCmd} {
		cmd.Flags().BoolVar(&allowPowerUp, "allow-powerup", allowPowerUp, "Accept a freshly powered up device")
		rootCmd.AddCommand(cmd)
	}
	centerCmd.Flags().Float64Var(&centerSpeed, "speed", centerSpeed, "Voltage while moving")
	centerCmd.Flags().Float64Var(&centerDv, "dv", centerDv, "Max voltage change per cycle")
	centerCmd.Flags().Float64Var(&centerTolerance, "tolerance", centerTolerance, "Tolerance in revolutions")
}

// openBox opens the link, a simulated device runs on runner for sim:// links.
func openBox(runner *framework.Runner) (*steerbox.Box, error) {
	conn, err := sh.OpenLink(runner, linkURL)
	if err != nil {
		return nil, err
	}
	return steerbox.New(conn, boxConfig), nil
}
