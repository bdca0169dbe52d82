package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/steerbox/pkg/framework"
	env "github.com/robotalks/steerbox/pkg/l1/env/daemon"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()

	e := env.NewConfig().MustNewEnv()
	defer e.Close()
	glog.Infof("serving %s over %s", e.Config.Info.Ref.Name(), e.Config.LinkURL)

	runner := framework.NewRunner().HandleSignals()
	e.AddToRunner(runner)
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
