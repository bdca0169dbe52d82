// Package msgs provides the messages exchanged between a steerbox daemon
// and its remote users.
//
// Every message travels wrapped in a Typed envelope. Commands go to the
// daemon on <prefix><type>/<id>/cmd, events are published on
// <prefix><type>/<id>/state.
package msgs
