// Package l1 defines how steerbox daemons are named and reached.
package l1

import (
	"github.com/robotalks/steerbox/pkg/l1/msgs"
)

// Ref is a reference to a steerbox daemon.
type Ref struct {
	// Type is the box type, e.g. "steerbox".
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r Ref) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates Ref is valid.
func (r Ref) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// StateTopic is where events are published.
func (r Ref) StateTopic() string {
	return r.Name() + "/state"
}

// CmdTopic is where commands are received.
func (r Ref) CmdTopic() string {
	return r.Name() + "/cmd"
}

// MetaTopic holds the retained Meta while the daemon is online.
func (r Ref) MetaTopic() string {
	return r.Name() + "/meta"
}

// Meta provides metadata of a daemon.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Link        string            `json:"link,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Info provides information of a daemon.
type Info struct {
	Ref  Ref
	Meta Meta
}

// Publisher sends events.
type Publisher interface {
	Publish(msgs.Message) error
}

// CommandHandler processes received commands.
type CommandHandler interface {
	HandleCommand(msgs.Message) error
}
