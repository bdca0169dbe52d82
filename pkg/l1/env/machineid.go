// Package env provides the process environment shared by the commands.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID scopes the machine ID so the raw ID is never published.
const AppID = "steerbox"

// MachineID retrieves the unique ID identifying the machine.
// The host name is used if the machine has no ID.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err == nil {
		return id[:16]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if id, err = os.Hostname(); err != nil {
		panic(err)
	}
	return id
}
