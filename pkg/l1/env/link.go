package env

import "os"

// DefaultLinkURL is the device link used when none is specified.
// It's overridden by STEERBOX_LINK.
var DefaultLinkURL = "serial://"

// DefaultMQTTURL is the broker used when none is specified.
// It's overridden by STEERBOX_MQTT_URL.
var DefaultMQTTURL = "mqtt://localhost:1883/steerbox/"

func init() {
	if val := os.Getenv("STEERBOX_LINK"); val != "" {
		DefaultLinkURL = val
	}
	if val := os.Getenv("STEERBOX_MQTT_URL"); val != "" {
		DefaultMQTTURL = val
	}
}
