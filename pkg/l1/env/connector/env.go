// Package connector sets up the environment of the remote users of a
// steerbox daemon.
package connector

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/robotalks/steerbox/pkg/l1"
	"github.com/robotalks/steerbox/pkg/l1/comm/mqtt"
	"github.com/robotalks/steerbox/pkg/l1/env"
)

// Config provides common options to setup Connectors.
type Config struct {
	Ref l1.Ref

	// RegistryURL specifies the MQTT broker the daemons are on.
	// e.g. mqtt://host:port/topic-prefix
	RegistryURL string
}

var defaultConfig = Config{
	Ref: l1.Ref{Type: "steerbox"},
}

func init() {
	defaultConfig.RegistryURL = env.DefaultMQTTURL
	if val := os.Getenv("STEERBOX_ID"); val != "" {
		defaultConfig.Ref.ID = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Ref.Type, "box-type", defaultConfig.Ref.Type, "Box type to connect.")
	flag.StringVar(&defaultConfig.Ref.ID, "box-id", defaultConfig.Ref.ID, "Box ID to connect.")
	flag.StringVar(&defaultConfig.RegistryURL, "mqtt", defaultConfig.RegistryURL, "MQTT broker URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (*mqtt.Connector, error) {
	return mqtt.NewConnector(c.RegistryURL)
}

// MustNewConnector creates a Connector and fails on error.
func (c *Config) MustNewConnector() *mqtt.Connector {
	conn, err := c.NewConnector()
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}

// Connect connects to the daemon. The first discovered one is used if
// no ID is specified.
func (c *Config) Connect(ctx context.Context) (*mqtt.Remote, error) {
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	ref := c.Ref
	if ref.ID == "" {
		infos, err := connector.Discover(ctx)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			if info.Ref.Type == ref.Type {
				ref = info.Ref
				break
			}
		}
	}
	if !ref.IsValid() {
		return nil, fmt.Errorf("no %s found", c.Ref.Type)
	}
	return connector.Connect(ref)
}

// MustConnect connects to the daemon or fails.
func (c *Config) MustConnect(ctx context.Context) *mqtt.Remote {
	conn, err := c.Connect(ctx)
	if err != nil {
		log.Fatalln(err)
	}
	return conn
}
