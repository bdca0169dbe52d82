package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"io"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/steerbox/pkg/framework"
	"github.com/robotalks/steerbox/pkg/l0/link"
	"github.com/robotalks/steerbox/pkg/sim/rig"
	"github.com/robotalks/steerbox/pkg/sim/wheel"
)

var (
	listenAddr = ":8420"
	serialPort string
	baudRate   = link.DefaultBaudRate
	conf       = wheel.DefaultConfig
)

func init() {
	flag.StringVar(&listenAddr, "listen", listenAddr, "Websocket listening address.")
	flag.StringVar(&serialPort, "serial", serialPort, "Serve on a serial port instead of websocket.")
	flag.IntVar(&baudRate, "baud", baudRate, "Baud rate of the serial port.")
	flag.IntVar(&conf.CountsPerRev, "counts-per-rev", conf.CountsPerRev, "Encoder counts per revolution.")
	flag.Float64Var(&conf.MaxSpeed, "max-speed", conf.MaxSpeed, "Revolutions per second at full duty.")
	flag.DurationVar(&conf.TimeConstant, "time-constant", conf.TimeConstant, "Time constant of the motor.")
	flag.Float64Var(&conf.DropRate, "drop", conf.DropRate, "Probability of a missed encoder interrupt.")
	flag.Int64Var(&conf.Seed, "seed", conf.Seed, "Random seed of dropped interrupts.")
}

func main() {
	flag.Parse()

	runner := framework.NewRunner().HandleSignals()
	var rw io.ReadWriter
	if serialPort != "" {
		port, err := link.OpenSerial(serialPort, link.Options{BaudRate: baudRate})
		if err != nil {
			log.Fatalln(err)
		}
		defer port.Close()
		glog.Infof("serving on %s", serialPort)
		rw = port
	} else {
		server := link.NewServer(listenAddr)
		defer server.Close()
		runner.Go(server)
		rw = server
	}
	rig.New(rw, conf).AddToRunner(runner)
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
