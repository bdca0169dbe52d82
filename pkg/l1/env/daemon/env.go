// Package daemon sets up the environment of a steerbox daemon: the link
// to the device, the driver and the MQTT bridge.
package daemon

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/robotalks/steerbox/pkg/framework"
	"github.com/robotalks/steerbox/pkg/l0/link"
	"github.com/robotalks/steerbox/pkg/l1"
	"github.com/robotalks/steerbox/pkg/l1/comm/mqtt"
	"github.com/robotalks/steerbox/pkg/l1/env"
	"github.com/robotalks/steerbox/pkg/l1/steerbox"
)

// BoxType is the type of the daemon.
const BoxType = "steerbox"

// Config provides options of a daemon.
type Config struct {
	Info l1.Info
	Box  steerbox.Config

	// LinkURL specifies the device link, see link.Open.
	LinkURL string
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// PublishEvery is the number of interactions per published state.
	PublishEvery int
	// AllowPowerUp accepts a freshly powered up device on start.
	AllowPowerUp bool
}

var defaultConfig = Config{
	Box:          steerbox.DefaultConfig,
	PublishEvery: steerbox.DefaultPublishEvery,
	AllowPowerUp: true,
}

func init() {
	defaultConfig.Info.Ref.Type = BoxType
	defaultConfig.Info.Meta.Description = "single axis steering wheel"
	if val := os.Getenv("STEERBOX_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	} else {
		defaultConfig.Info.Ref.ID = env.MachineID()
	}
	defaultConfig.LinkURL = env.DefaultLinkURL
	defaultConfig.MQTTBrokerURL = env.DefaultMQTTURL
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Box ID")
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Device link URL")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.IntVar(&defaultConfig.PublishEvery, "publish-every", defaultConfig.PublishEvery, "Interactions per published state")
	flag.BoolVar(&defaultConfig.AllowPowerUp, "allow-powerup", defaultConfig.AllowPowerUp, "Accept a powered up device on start")
	flag.IntVar(&defaultConfig.Box.CountsPerRev, "counts-per-rev", defaultConfig.Box.CountsPerRev, "Encoder counts per revolution")
	flag.Float64Var(&defaultConfig.Box.PositionLimit, "position-limit", defaultConfig.Box.PositionLimit, "Max position in revolutions")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Env is the env of a daemon.
type Env struct {
	Config *Config
	Box    *steerbox.Box
	Driver *steerbox.Driver
	Bridge *mqtt.Bridge
}

// NewEnv opens the link and creates the components.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("box type and id must be specified")
	}
	c.Info.Meta.Link = c.LinkURL
	rw, err := link.Open(c.LinkURL)
	if err != nil {
		return nil, fmt.Errorf("open link %s error: %v", c.LinkURL, err)
	}
	e := &Env{Config: c, Box: steerbox.New(rw, c.Box)}
	e.Driver = steerbox.NewDriver(e.Box)
	e.Driver.AllowPowerUp = c.AllowPowerUp
	e.Driver.PublishEvery = c.PublishEvery
	if c.MQTTBrokerURL != "" {
		if e.Bridge, err = mqtt.NewBridge(c.MQTTBrokerURL, c.Info, e.Driver); err != nil {
			rw.Close()
			return nil, fmt.Errorf("create MQTT bridge error: %v", err)
		}
		e.Driver.Publisher = e.Bridge
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

// AddToRunner starts the components.
func (e *Env) AddToRunner(r *framework.Runner) {
	if e.Bridge != nil {
		r.Go(e.Bridge)
	}
	r.Go(e.Driver)
}

// Close closes the link.
func (e *Env) Close() error {
	return e.Box.Close()
}
